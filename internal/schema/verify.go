package schema

// Verdict classifies how close a rendering came to the reference frame.
type Verdict string

const (
	VerdictPass        Verdict = "pass"
	VerdictNeedsFixes  Verdict = "needs_fixes"
	VerdictMajorIssues Verdict = "major_issues"
)

// VerificationReport is the QA tester's advisory output. It never triggers
// retries on its own; callers decide what to do with it.
type VerificationReport struct {
	SSIMScore          float64   `json:"ssimScore"`
	OverallAccuracy    float64   `json:"overallAccuracy"`
	Verdict            Verdict   `json:"verdict"`
	Issues             []Issue   `json:"issues"`
	AutoFixSuggestions []AutoFix `json:"autoFixSuggestions"`
}

type Issue struct {
	Type        string `json:"type"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
}

type AutoFix struct {
	Selector       string `json:"selector"`
	Property       string `json:"property"`
	SuggestedValue string `json:"suggestedValue"`
}

// ClassifyScore maps an SSIM score onto a verdict.
func ClassifyScore(ssim float64) Verdict {
	switch {
	case ssim >= 0.95:
		return VerdictPass
	case ssim >= 0.85:
		return VerdictNeedsFixes
	default:
		return VerdictMajorIssues
	}
}
