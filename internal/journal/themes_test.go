package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThemeFor_CoversAllMonths(t *testing.T) {
	seen := map[string]bool{}
	for m := time.January; m <= time.December; m++ {
		theme := ThemeFor(m)
		assert.NotEmpty(t, theme.Name, "month %v", m)
		assert.NotEmpty(t, theme.Background, "month %v", m)
		assert.False(t, seen[theme.Name], "duplicate theme %q", theme.Name)
		seen[theme.Name] = true
	}
}

func TestThemeFor_Samples(t *testing.T) {
	assert.Equal(t, "January", ThemeFor(time.January).Name)
	assert.Equal(t, "festive-snow", ThemeFor(time.December).Background)
}
