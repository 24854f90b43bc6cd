package journal

import "time"

// Theme describes the seasonal look for one calendar month. The renderer is
// an external collaborator; the core only supplies the data.
type Theme struct {
	Name       string
	Background string
	Accent     string
}

var themes = [12]Theme{
	{Name: "January", Background: "ice-blue", Accent: "blue"},
	{Name: "February", Background: "rose-frost", Accent: "rose"},
	{Name: "March", Background: "fresh-green", Accent: "emerald"},
	{Name: "April", Background: "spring-rain", Accent: "sky"},
	{Name: "May", Background: "flowers", Accent: "purple"},
	{Name: "June", Background: "sunny-yellow", Accent: "amber"},
	{Name: "July", Background: "bright-orange", Accent: "orange"},
	{Name: "August", Background: "gold", Accent: "yellow"},
	{Name: "September", Background: "early-autumn", Accent: "stone"},
	{Name: "October", Background: "harvest", Accent: "pumpkin"},
	{Name: "November", Background: "late-autumn", Accent: "slate"},
	{Name: "December", Background: "festive-snow", Accent: "red"},
}

// ThemeFor returns the seasonal theme for the given month.
func ThemeFor(month time.Month) Theme {
	return themes[int(month)-1]
}
