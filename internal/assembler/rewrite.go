package assembler

import (
	"fmt"
	"regexp"
	"strconv"
)

// Known-unreliable placeholder-image hosts. References to these go dead or
// hang, so assembled documents must never ship them.
var reDeadImageURL = regexp.MustCompile(`https?://(?:www\.)?(?:via\.placeholder\.com|placehold\.it|placekitten\.com|placeimg\.com|dummyimage\.com|lorempixel\.com)[^\s"'<>)]*`)

var reURLDims = regexp.MustCompile(`(\d{2,4})\s*[x/]\s*(\d{2,4})`)

// Stable picsum photo IDs, pre-validated. The pool is fixed so rewritten
// output is deterministic for a given rewriter instance.
var stableImageIDs = []int{1015, 1025, 1035, 1043, 1056, 1069, 1074, 1084, 180, 201, 219, 237}

// Rewriter replaces dead placeholder-image URLs with stable ones. It is
// instantiated per pipeline run; the cycling counter is instance state, not
// package state, so concurrent runs stay independent.
type Rewriter struct {
	next int
}

func NewRewriter() *Rewriter { return &Rewriter{} }

// Rewrite substitutes every dead placeholder URL, cycling through the stable
// ID pool and preserving the requested dimensions when the original URL
// carried them.
func (rw *Rewriter) Rewrite(text string) string {
	return reDeadImageURL.ReplaceAllStringFunc(text, func(orig string) string {
		w, h := 600, 400
		if m := reURLDims.FindStringSubmatch(orig); m != nil {
			w, _ = strconv.Atoi(m[1])
			h, _ = strconv.Atoi(m[2])
		}
		id := stableImageIDs[rw.next%len(stableImageIDs)]
		rw.next++
		return fmt.Sprintf("https://picsum.photos/id/%d/%d/%d", id, w, h)
	})
}
