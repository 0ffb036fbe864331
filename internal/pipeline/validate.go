package pipeline

import (
	"fmt"
	"strings"
)

// labelThreshold is the fraction of expected sidebar labels that must appear
// verbatim in the assembled output before the run is considered clean.
const labelThreshold = 0.8

// validateLabels counts expected labels present in code by literal substring
// search (never by re-parsing the output) and returns a non-fatal warning
// when coverage falls below the threshold.
func validateLabels(code string, labels []string) (found int, warning string) {
	for _, l := range labels {
		if strings.Contains(code, l) {
			found++
		}
	}
	if len(labels) == 0 {
		return 0, ""
	}
	if ratio := float64(found) / float64(len(labels)); ratio < labelThreshold {
		warning = fmt.Sprintf("only %d of %d expected menu labels appear in the assembled output", found, len(labels))
	}
	return found, warning
}
