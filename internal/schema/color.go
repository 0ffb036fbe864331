package schema

import "strconv"

// Theme is the inferred brightness family of the source UI.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseHex parses "#rgb", "#rrggbb", with or without the leading hash.
func ParseHex(s string) (r, g, b uint8, ok bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(n >> 16), uint8(n >> 8), uint8(n), true
}

// Luminance is the ITU-R BT.601 weighted brightness of an RGB triple, 0-255.
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// InferTheme classifies a background color against the 127 midpoint.
// Unparseable input defaults to light, matching the defaulting rules
// elsewhere in this package.
func InferTheme(backgroundHex string) Theme {
	r, g, b, ok := ParseHex(backgroundHex)
	if !ok {
		return ThemeLight
	}
	if Luminance(r, g, b) < 127 {
		return ThemeDark
	}
	return ThemeLight
}

type palette struct {
	Background, Surface, Primary, Secondary string
	Text, TextMuted, Border                 string
	Success, Error, Warning                 string
}

func defaultPalette(theme Theme) palette {
	if theme == ThemeDark {
		return palette{
			Background: "#0f172a",
			Surface:    "#1e293b",
			Primary:    "#3b82f6",
			Secondary:  "#8b5cf6",
			Text:       "#f1f5f9",
			TextMuted:  "#94a3b8",
			Border:     "#334155",
			Success:    "#22c55e",
			Error:      "#ef4444",
			Warning:    "#f59e0b",
		}
	}
	return palette{
		Background: "#f8fafc",
		Surface:    "#ffffff",
		Primary:    "#2563eb",
		Secondary:  "#7c3aed",
		Text:       "#0f172a",
		TextMuted:  "#64748b",
		Border:     "#e2e8f0",
		Success:    "#16a34a",
		Error:      "#dc2626",
		Warning:    "#d97706",
	}
}
