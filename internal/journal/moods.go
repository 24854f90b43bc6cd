// Package journal holds static reference data for the diary: the mood
// catalog and the month-to-theme mapping. Pure lookup tables, no state.
package journal

// Mood is one selectable mood tag. Label is the canonical stored
// representation; Glyph is the display emoji, Accent a theme hint for the
// UI collaborator.
type Mood struct {
	Label  string
	Glyph  string
	Accent string
}

// Moods is the full catalog, in display order. The first mood is the
// default for entries that never had one set.
var Moods = []Mood{
	{Label: "Happy", Glyph: "😊", Accent: "yellow"},
	{Label: "Sad", Glyph: "😢", Accent: "blue"},
	{Label: "Angry", Glyph: "😡", Accent: "red"},
	{Label: "Sleepy", Glyph: "😴", Accent: "purple"},
	{Label: "Thinking", Glyph: "🤔", Accent: "green"},
	{Label: "Party", Glyph: "🥳", Accent: "pink"},
	{Label: "Sick", Glyph: "🤒", Accent: "gray"},
	{Label: "Cool", Glyph: "😎", Accent: "indigo"},
}

// Default returns the fallback mood.
func Default() Mood {
	return Moods[0]
}

// ByLabel looks up a mood by its canonical label.
func ByLabel(label string) (Mood, bool) {
	for _, m := range Moods {
		if m.Label == label {
			return m, true
		}
	}
	return Mood{}, false
}

// NormalizeMood maps a stored mood value to its catalog entry. Labels are
// canonical; rows written by older clients stored the glyph instead and are
// mapped back on read. Anything unknown falls back to the default mood.
func NormalizeMood(stored string) Mood {
	if m, ok := ByLabel(stored); ok {
		return m
	}
	for _, m := range Moods {
		if m.Glyph == stored {
			return m
		}
	}
	return Default()
}
