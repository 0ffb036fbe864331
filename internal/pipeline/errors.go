package pipeline

import (
	"fmt"
	"time"
)

// Stage identifies which pipeline stage an error belongs to, so callers can
// tell "extraction failed" from "assembly failed".
type Stage string

const (
	StageSurvey   Stage = "survey"
	StageScan     Stage = "scan"
	StageAssemble Stage = "assemble"
	StageVerify   Stage = "verify"
)

// TimeoutError reports a stage exceeding its wall-clock budget. A stage
// timeout is terminal for that run; there is no automatic retry.
type TimeoutError struct {
	Stage  Stage
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s stage timed out after %s", e.Stage, e.Budget)
}

// StageError wraps a transport or parse failure with its originating stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }
