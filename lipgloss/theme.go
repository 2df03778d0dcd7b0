package lipgloss

import "github.com/fwojciec/hunkstage"

// Theme is a named palette.
type Theme struct {
	name    string
	palette hunkstage.Palette
}

// Name returns the theme name.
func (t Theme) Name() string { return t.name }

// Palette returns the theme colors.
func (t Theme) Palette() hunkstage.Palette { return t.palette }

// DefaultTheme returns the One Dark inspired theme used by the CLI.
func DefaultTheme() Theme {
	return Theme{
		name: "default",
		palette: hunkstage.Palette{
			Added:    "#98c379",
			Deleted:  "#e06c75",
			Muted:    "#5c6370",
			Hash:     "#d19a66",
			Author:   "#61afef",
			Error:    "#e06c75",
			Keyword:  "#c678dd",
			String:   "#98c379",
			Comment:  "#5c6370",
			Number:   "#d19a66",
			Operator: "#56b6c2",
			Function: "#61afef",
			Name:     "#e5c07b",
		},
	}
}

// TestTheme returns a theme whose colors are distinct and easy to assert on.
func TestTheme() Theme {
	return Theme{
		name: "test",
		palette: hunkstage.Palette{
			Added:    "#00ff00",
			Deleted:  "#ff0000",
			Muted:    "#808080",
			Hash:     "#ffff00",
			Author:   "#0000ff",
			Error:    "#ff00ff",
			Keyword:  "#010101",
			String:   "#020202",
			Comment:  "#030303",
			Number:   "#040404",
			Operator: "#050505",
			Function: "#060606",
			Name:     "#070707",
		},
	}
}
