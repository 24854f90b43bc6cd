package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaged(t *testing.T) {
	payload := []byte("jpeg bytes")
	item := NewStaged(MediaKindImage, payload, "mem://photo-1")

	require.True(t, item.IsStaged())
	require.NotNil(t, item.Staged)
	assert.Nil(t, item.Committed)
	assert.True(t, strings.HasPrefix(item.ID(), TempIDPrefix))
	assert.Equal(t, payload, item.Staged.Payload)
	assert.Equal(t, "mem://photo-1", item.Ref())
	assert.Empty(t, item.Staged.Locator)
}

func TestNewStaged_IDsAreUnique(t *testing.T) {
	a := NewStaged(MediaKindAudio, []byte("a"), "")
	b := NewStaged(MediaKindAudio, []byte("b"), "")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewCommitted(t *testing.T) {
	item := NewCommitted(MediaKindAudio, "m-42", "owner/e1/123-audio.webm")

	require.False(t, item.IsStaged())
	require.NotNil(t, item.Committed)
	assert.Nil(t, item.Staged)
	assert.Equal(t, "m-42", item.ID())
	assert.Equal(t, "owner/e1/123-audio.webm", item.Ref())
}

func TestEmptyEntry(t *testing.T) {
	date := time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)
	e := EmptyEntry("u1", date)

	assert.Equal(t, "u1", e.Owner)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Empty(t, e.Text)
	assert.Equal(t, "Happy", e.Mood.Label)
}

func TestDateKeyRoundTrip(t *testing.T) {
	d := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	key := DateKey(d)
	assert.Equal(t, "2024-03-05", key)

	parsed, err := ParseDateKey(key)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(d))
}

func TestMonthIndex(t *testing.T) {
	mi := &MonthIndex{
		Owner: "u1",
		Year:  2024,
		Month: time.March,
		Moods: map[string]string{"2024-03-05": "Happy"},
	}

	assert.True(t, mi.Covers(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, mi.Covers(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))

	mood, ok := mi.MoodFor("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, "Happy", mood)

	_, ok = mi.MoodFor("2024-03-06")
	assert.False(t, ok)

	first, last := mi.Bounds()
	assert.Equal(t, "2024-03-01", DateKey(first))
	assert.Equal(t, "2024-03-31", DateKey(last))

	var nilIndex *MonthIndex
	assert.False(t, nilIndex.Covers(time.Now()))
	_, ok = nilIndex.MoodFor("2024-03-05")
	assert.False(t, ok)
}
