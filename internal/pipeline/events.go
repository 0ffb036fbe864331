package pipeline

import (
	"screenforge/internal/llm"
	"screenforge/internal/schema"
)

// EventType discriminates the payloads on a run's event stream.
type EventType string

const (
	EventStatus   EventType = "status"
	EventChunk    EventType = "chunk"
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Phase is the coarse pipeline phase reported on status events.
type Phase string

const (
	PhaseScanning   Phase = "scanning"
	PhaseScanned    Phase = "scanned"
	PhaseAssembling Phase = "assembling"
)

// Event is one line on the run's stream. Events are emitted strictly in
// pipeline order; client UIs are driven by that order.
type Event struct {
	Type     EventType `json:"type"`
	Phase    Phase     `json:"phase,omitempty"`
	Message  string    `json:"message,omitempty"`
	Progress int       `json:"progress,omitempty"`

	// chunk fields; totals are running values for client progress bars.
	Content     string `json:"content,omitempty"`
	ChunkIndex  int    `json:"chunkIndex,omitempty"`
	TotalLength int    `json:"totalLength,omitempty"`
	LineCount   int    `json:"lineCount,omitempty"`

	Error string `json:"error,omitempty"`

	*Completion
}

// Completion is the terminal payload of a successful run. ScanData is echoed
// back for transparency; the caller owns persistence.
type Completion struct {
	Code              string                     `json:"code,omitempty"`
	ResponseKind      string                     `json:"responseKind,omitempty"`
	ResponseMessage   string                     `json:"responseMessage,omitempty"`
	ScanData          *schema.ScanData           `json:"scanData,omitempty"`
	Measurements      *schema.LayoutMeasurements `json:"measurements,omitempty"`
	Validation        *Validation                `json:"validation,omitempty"`
	ValidationWarning string                     `json:"validationWarning,omitempty"`
	Verification      *schema.VerificationReport `json:"verification,omitempty"`
	TokenUsage        *llm.Usage                 `json:"tokenUsage,omitempty"`
	DurationMillis    int64                      `json:"duration,omitempty"`
}

// Validation carries the cardinality contract derived from ScanData and the
// label count actually observed in the assembled output.
type Validation struct {
	MenuItemsExpected int `json:"menuItemsExpected"`
	MenuItemsFound    int `json:"menuItemsFound"`
	MetricsExpected   int `json:"metricsExpected"`
	ChartsExpected    int `json:"chartsExpected"`
	TablesExpected    int `json:"tablesExpected"`
}
