package schema

import (
	"testing"

	"screenforge/internal/tester"
)

func TestDefaultMeasurementsComplete(t *testing.T) {
	m := DefaultMeasurements(ThemeDark)
	tester.Eq(t, m.Theme, ThemeDark)
	tester.Eq(t, m.Grid.Columns, 12)
	tester.Eq(t, m.Colors.Background, "#0f172a")
	tester.Eq(t, m.Confidence, 0.3)
	tester.True(t, m.Components != nil)

	// Unknown themes collapse to light.
	tester.Eq(t, DefaultMeasurements("sepia").Theme, ThemeLight)
}

func TestFillDefaultsInfersThemeFromBackground(t *testing.T) {
	m := LayoutMeasurements{}
	m.Colors.Background = "#111827"
	m.FillDefaults()

	tester.Eq(t, m.Theme, ThemeDark)
	tester.Eq(t, m.Colors.Surface, "#1e293b")
	tester.Eq(t, m.Spacing.Unit, 8)
	tester.Eq(t, m.Typography.BaseSize, 14)
	tester.Eq(t, m.ImageDimensions, Dimensions{Width: 1440, Height: 900})
}

func TestFillDefaultsKeepsMeasuredValues(t *testing.T) {
	m := LayoutMeasurements{
		Theme:   ThemeLight,
		Grid:    GridMeasure{Columns: 4, ColumnWidth: 300, Gutter: 16},
		Spacing: SpacingMeasure{Unit: 4},
	}
	m.Colors.Primary = "#ff0000"
	m.FillDefaults()

	tester.Eq(t, m.Grid.Columns, 4)
	tester.Eq(t, m.Spacing.Unit, 4)
	tester.Eq(t, m.Colors.Primary, "#ff0000")
	// Unmeasured spacing fields still get defaults.
	tester.Eq(t, m.Spacing.CardPadding, 24)
}

func TestFillDefaultsClampsConfidence(t *testing.T) {
	m := LayoutMeasurements{Confidence: 3}
	m.FillDefaults()
	tester.Eq(t, m.Confidence, 1.0)
}
