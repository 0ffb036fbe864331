package schema

import "errors"

// ScanData is the central artifact of a reconstruction run: everything the
// assembler is allowed to know about the source recording. It is produced
// once by the scanner, never mutated afterwards, and only read downstream.
type ScanData struct {
	Meta     ScanMeta      `json:"meta"`
	UI       UIDescription `json:"ui"`
	Data     DataWidgets   `json:"data"`
	Behavior Behavior      `json:"behavior"`
}

type ScanMeta struct {
	Confidence      float64  `json:"confidence"`
	ScreensAnalyzed int      `json:"screensAnalyzed"`
	Warnings        []string `json:"warnings"`
}

type UIDescription struct {
	Navigation Navigation  `json:"navigation"`
	Layout     Layout      `json:"layout"`
	Colors     ColorTokens `json:"colors"`
	Typography Typography  `json:"typography"`
}

type Navigation struct {
	Sidebar Sidebar `json:"sidebar"`
	Topbar  Topbar  `json:"topbar"`
}

type Sidebar struct {
	Exists     bool       `json:"exists"`
	Position   string     `json:"position"`
	Width      int        `json:"width"`
	Background string     `json:"background"`
	Logo       string     `json:"logo"`
	Items      []MenuItem `json:"items"`
	Footer     string     `json:"footer"`
}

type MenuItem struct {
	Order       int    `json:"order"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"isActive"`
	Href        string `json:"href"`
	Badge       string `json:"badge"`
	IsSeparator bool   `json:"isSeparator"`
	IsHeader    bool   `json:"isHeader"`
	Indent      int    `json:"indent"`
}

type Topbar struct {
	Exists           bool     `json:"exists"`
	Height           int      `json:"height"`
	HasSearch        bool     `json:"hasSearch"`
	HasNotifications bool     `json:"hasNotifications"`
	HasUserMenu      bool     `json:"hasUserMenu"`
	Breadcrumbs      []string `json:"breadcrumbs"`
}

type Layout struct {
	Type        string `json:"type"`
	GridColumns int    `json:"gridColumns"`
	Gap         int    `json:"gap"`
	Padding     int    `json:"padding"`
}

// ColorTokens are named hex tokens observed in the source UI.
type ColorTokens struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	TextMuted  string `json:"textMuted"`
	Border     string `json:"border"`
	Success    string `json:"success"`
	Error      string `json:"error"`
	Warning    string `json:"warning"`
}

type Typography struct {
	FontFamily    string `json:"fontFamily"`
	HeadingWeight int    `json:"headingWeight"`
	BodySize      int    `json:"bodySize"`
}

type DataWidgets struct {
	Metrics []Metric `json:"metrics"`
	Tables  []Table  `json:"tables"`
	Charts  []Chart  `json:"charts"`
	Forms   []Form   `json:"forms"`
}

type Metric struct {
	ID              string  `json:"id"`
	Label           string  `json:"label"`
	Value           string  `json:"value"`
	RawValue        float64 `json:"rawValue"`
	Change          string  `json:"change"`
	ChangeDirection string  `json:"changeDirection"`
	Icon            string  `json:"icon"`
	GridPosition    int     `json:"gridPosition"`
}

type Table struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Columns       []string   `json:"columns"`
	Rows          [][]string `json:"rows"`
	TotalRows     int        `json:"totalRows"`
	HasFilters    bool       `json:"hasFilters"`
	FilterOptions []string   `json:"filterOptions"`
	HasSearch     bool       `json:"hasSearch"`
	HasActions    bool       `json:"hasActions"`
}

type Chart struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Type       string        `json:"type"`
	XAxis      string        `json:"xAxis"`
	YAxis      string        `json:"yAxis"`
	Series     []ChartSeries `json:"series"`
	Stacked    bool          `json:"stacked"`
	ShowLegend bool          `json:"showLegend"`
}

type ChartSeries struct {
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Data  []float64 `json:"data"`
}

type Form struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Fields            []FormField `json:"fields"`
	SubmitButtonLabel string      `json:"submitButtonLabel"`
}

type FormField struct {
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required"`
	Options     []string `json:"options"`
}

type Behavior struct {
	CurrentPage   string            `json:"currentPage"`
	PageTitle     string            `json:"pageTitle"`
	UserJourney   []JourneyStep     `json:"userJourney"`
	LoadingStates []string          `json:"loadingStates"`
	Validations   []FieldValidation `json:"validations"`
}

type JourneyStep struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Target    string `json:"target"`
	Result    string `json:"result"`
}

type FieldValidation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ErrEmptyScan signals that the model returned a structurally valid object
// describing nothing at all. Invented business data is worse than no data,
// so an empty scan is rejected instead of defaulted.
var ErrEmptyScan = errors.New("schema: scan describes no navigation, data, or page")

// Normalize fills safe defaults for optional fields and rejects a scan whose
// mandatory structure is absent. Slices are made non-nil so downstream JSON
// round-trips stay stable.
func (s *ScanData) Normalize() error {
	if s.Meta.Confidence < 0 {
		s.Meta.Confidence = 0
	}
	if s.Meta.Confidence > 1 {
		s.Meta.Confidence = 1
	}
	if s.Meta.ScreensAnalyzed < 1 {
		s.Meta.ScreensAnalyzed = 1
	}
	if s.Meta.Warnings == nil {
		s.Meta.Warnings = []string{}
	}
	if s.UI.Navigation.Sidebar.Items == nil {
		s.UI.Navigation.Sidebar.Items = []MenuItem{}
	}
	if s.UI.Navigation.Sidebar.Exists && s.UI.Navigation.Sidebar.Position == "" {
		s.UI.Navigation.Sidebar.Position = "left"
	}
	if s.UI.Navigation.Sidebar.Exists && s.UI.Navigation.Sidebar.Width <= 0 {
		s.UI.Navigation.Sidebar.Width = 240
	}
	if s.UI.Navigation.Topbar.Breadcrumbs == nil {
		s.UI.Navigation.Topbar.Breadcrumbs = []string{}
	}
	if s.UI.Layout.Type == "" {
		s.UI.Layout.Type = "grid"
	}
	if s.UI.Layout.GridColumns <= 0 {
		s.UI.Layout.GridColumns = 12
	}
	if s.UI.Typography.FontFamily == "" {
		s.UI.Typography.FontFamily = "Inter, system-ui, sans-serif"
	}
	if s.UI.Typography.HeadingWeight == 0 {
		s.UI.Typography.HeadingWeight = 600
	}
	if s.UI.Typography.BodySize == 0 {
		s.UI.Typography.BodySize = 14
	}
	fillColorDefaults(&s.UI.Colors)
	if s.Data.Metrics == nil {
		s.Data.Metrics = []Metric{}
	}
	if s.Data.Tables == nil {
		s.Data.Tables = []Table{}
	}
	if s.Data.Charts == nil {
		s.Data.Charts = []Chart{}
	}
	if s.Data.Forms == nil {
		s.Data.Forms = []Form{}
	}
	if s.Behavior.UserJourney == nil {
		s.Behavior.UserJourney = []JourneyStep{}
	}
	if s.Behavior.LoadingStates == nil {
		s.Behavior.LoadingStates = []string{}
	}
	if s.Behavior.Validations == nil {
		s.Behavior.Validations = []FieldValidation{}
	}

	if !s.UI.Navigation.Sidebar.Exists && !s.UI.Navigation.Topbar.Exists &&
		len(s.Data.Metrics) == 0 && len(s.Data.Tables) == 0 &&
		len(s.Data.Charts) == 0 && len(s.Data.Forms) == 0 &&
		s.Behavior.PageTitle == "" {
		return ErrEmptyScan
	}
	return nil
}

func fillColorDefaults(c *ColorTokens) {
	theme := ThemeLight
	if c.Background != "" {
		theme = InferTheme(c.Background)
	}
	d := defaultPalette(theme)
	if c.Background == "" {
		c.Background = d.Background
	}
	if c.Surface == "" {
		c.Surface = d.Surface
	}
	if c.Primary == "" {
		c.Primary = d.Primary
	}
	if c.Secondary == "" {
		c.Secondary = d.Secondary
	}
	if c.Text == "" {
		c.Text = d.Text
	}
	if c.TextMuted == "" {
		c.TextMuted = d.TextMuted
	}
	if c.Border == "" {
		c.Border = d.Border
	}
	if c.Success == "" {
		c.Success = d.Success
	}
	if c.Error == "" {
		c.Error = d.Error
	}
	if c.Warning == "" {
		c.Warning = d.Warning
	}
}

// ScanSummary is what the orchestrator reports after scanning: populated
// array lengths only, nothing re-derived from the source.
type ScanSummary struct {
	MenuItems int `json:"menuItems"`
	Metrics   int `json:"metrics"`
	Tables    int `json:"tables"`
	Charts    int `json:"charts"`
	Forms     int `json:"forms"`
}

// Summary counts populated collections. These counts become the contract the
// assembled output is later validated against.
func (s *ScanData) Summary() ScanSummary {
	return ScanSummary{
		MenuItems: len(s.UI.Navigation.Sidebar.Items),
		Metrics:   len(s.Data.Metrics),
		Tables:    len(s.Data.Tables),
		Charts:    len(s.Data.Charts),
		Forms:     len(s.Data.Forms),
	}
}

// SidebarLabels returns the textual menu labels expected to appear verbatim
// in assembled output. Separators and empty labels are skipped.
func (s *ScanData) SidebarLabels() []string {
	labels := make([]string, 0, len(s.UI.Navigation.Sidebar.Items))
	for _, it := range s.UI.Navigation.Sidebar.Items {
		if it.IsSeparator || it.Label == "" {
			continue
		}
		labels = append(labels, it.Label)
	}
	return labels
}
