package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	started []string
	stops   int
}

func (f *fakeSink) Start(ref string) error {
	f.started = append(f.started, ref)
	return nil
}

func (f *fakeSink) Stop() error {
	f.stops++
	return nil
}

func TestPlay_SwitchingStopsPrevious(t *testing.T) {
	sink := &fakeSink{}
	s := NewSession(sink)

	require.NoError(t, s.Play("a"))
	assert.Equal(t, "a", s.Current())

	require.NoError(t, s.Play("b"))
	assert.Equal(t, "b", s.Current())
	assert.Equal(t, []string{"a", "b"}, sink.started)
	assert.Equal(t, 1, sink.stops)
}

func TestPlay_SameRefTogglesOff(t *testing.T) {
	sink := &fakeSink{}
	s := NewSession(sink)

	require.NoError(t, s.Play("a"))
	require.NoError(t, s.Play("a"))
	assert.Empty(t, s.Current())
	assert.Equal(t, 1, sink.stops)
}

func TestClose_ReleasesActivePlayback(t *testing.T) {
	sink := &fakeSink{}
	s := NewSession(sink)

	require.NoError(t, s.Play("a"))
	require.NoError(t, s.Close())
	assert.Empty(t, s.Current())
	assert.Equal(t, 1, sink.stops)

	// Idle close is a no-op.
	require.NoError(t, s.Close())
	assert.Equal(t, 1, sink.stops)
}
