package schema

// LayoutMeasurements holds the surveyor's numeric layout facts. Every color
// and spacing field has a theme-consistent default; the assembler must always
// be able to proceed even when the surveyor learned nothing.
type LayoutMeasurements struct {
	ImageDimensions Dimensions         `json:"imageDimensions"`
	Theme           Theme              `json:"theme"`
	Grid            GridMeasure        `json:"grid"`
	Spacing         SpacingMeasure     `json:"spacing"`
	Colors          MeasuredColors     `json:"colors"`
	Typography      MeasuredTypography `json:"typography"`
	Components      []ComponentBox     `json:"components"`
	Confidence      float64            `json:"confidence"`
	Warnings        []string           `json:"warnings"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type GridMeasure struct {
	Columns     int `json:"columns"`
	ColumnWidth int `json:"columnWidth"`
	Gutter      int `json:"gutter"`
}

type SpacingMeasure struct {
	Unit        int `json:"unit"`
	CardPadding int `json:"cardPadding"`
	SectionGap  int `json:"sectionGap"`
	PagePadding int `json:"pagePadding"`
}

type MeasuredColors struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Primary    string `json:"primary"`
	Text       string `json:"text"`
	TextMuted  string `json:"textMuted"`
	Border     string `json:"border"`
}

type MeasuredTypography struct {
	FontFamily    string  `json:"fontFamily"`
	BaseSize      int     `json:"baseSize"`
	ScaleRatio    float64 `json:"scaleRatio"`
	HeadingWeight int     `json:"headingWeight"`
}

// ComponentBox is a coarse bounding box for a recognized component.
type ComponentBox struct {
	Kind   string `json:"kind"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultMeasurements returns a structurally complete record for the given
// theme. Used as the surveyor's fallback when extraction fails outright.
func DefaultMeasurements(theme Theme) LayoutMeasurements {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	d := defaultPalette(theme)
	return LayoutMeasurements{
		ImageDimensions: Dimensions{Width: 1440, Height: 900},
		Theme:           theme,
		Grid:            GridMeasure{Columns: 12, ColumnWidth: 96, Gutter: 24},
		Spacing:         SpacingMeasure{Unit: 8, CardPadding: 24, SectionGap: 32, PagePadding: 32},
		Colors: MeasuredColors{
			Background: d.Background,
			Surface:    d.Surface,
			Primary:    d.Primary,
			Text:       d.Text,
			TextMuted:  d.TextMuted,
			Border:     d.Border,
		},
		Typography: MeasuredTypography{
			FontFamily:    "Inter, system-ui, sans-serif",
			BaseSize:      14,
			ScaleRatio:    1.25,
			HeadingWeight: 600,
		},
		Components: []ComponentBox{},
		Confidence: 0.3,
		Warnings:   []string{},
	}
}

// FillDefaults replaces every zero-valued field with the theme-consistent
// default. The theme itself is inferred from the measured background
// luminance when the model did not return one.
func (m *LayoutMeasurements) FillDefaults() {
	if m.Theme == "" {
		if m.Colors.Background != "" {
			m.Theme = InferTheme(m.Colors.Background)
		} else {
			m.Theme = ThemeLight
		}
	}
	d := DefaultMeasurements(m.Theme)
	if m.ImageDimensions.Width <= 0 || m.ImageDimensions.Height <= 0 {
		m.ImageDimensions = d.ImageDimensions
	}
	if m.Grid.Columns <= 0 {
		m.Grid.Columns = d.Grid.Columns
	}
	if m.Grid.ColumnWidth <= 0 {
		m.Grid.ColumnWidth = d.Grid.ColumnWidth
	}
	if m.Grid.Gutter <= 0 {
		m.Grid.Gutter = d.Grid.Gutter
	}
	if m.Spacing.Unit <= 0 {
		m.Spacing.Unit = d.Spacing.Unit
	}
	if m.Spacing.CardPadding <= 0 {
		m.Spacing.CardPadding = d.Spacing.CardPadding
	}
	if m.Spacing.SectionGap <= 0 {
		m.Spacing.SectionGap = d.Spacing.SectionGap
	}
	if m.Spacing.PagePadding <= 0 {
		m.Spacing.PagePadding = d.Spacing.PagePadding
	}
	if m.Colors.Background == "" {
		m.Colors.Background = d.Colors.Background
	}
	if m.Colors.Surface == "" {
		m.Colors.Surface = d.Colors.Surface
	}
	if m.Colors.Primary == "" {
		m.Colors.Primary = d.Colors.Primary
	}
	if m.Colors.Text == "" {
		m.Colors.Text = d.Colors.Text
	}
	if m.Colors.TextMuted == "" {
		m.Colors.TextMuted = d.Colors.TextMuted
	}
	if m.Colors.Border == "" {
		m.Colors.Border = d.Colors.Border
	}
	if m.Typography.FontFamily == "" {
		m.Typography.FontFamily = d.Typography.FontFamily
	}
	if m.Typography.BaseSize <= 0 {
		m.Typography.BaseSize = d.Typography.BaseSize
	}
	if m.Typography.ScaleRatio <= 0 {
		m.Typography.ScaleRatio = d.Typography.ScaleRatio
	}
	if m.Typography.HeadingWeight <= 0 {
		m.Typography.HeadingWeight = d.Typography.HeadingWeight
	}
	if m.Components == nil {
		m.Components = []ComponentBox{}
	}
	if m.Warnings == nil {
		m.Warnings = []string{}
	}
	if m.Confidence < 0 {
		m.Confidence = 0
	}
	if m.Confidence > 1 {
		m.Confidence = 1
	}
}
