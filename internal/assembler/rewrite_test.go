package assembler

import (
	"strings"
	"testing"

	"screenforge/internal/tester"
)

func TestRewriteReplacesDeadHosts(t *testing.T) {
	in := `<img src="https://via.placeholder.com/300x200">
<img src="http://placekitten.com/640/480">
<img src="https://example.com/real.png">`

	out := NewRewriter().Rewrite(in)
	tester.False(t, strings.Contains(out, "via.placeholder.com"))
	tester.False(t, strings.Contains(out, "placekitten.com"))
	tester.Contains(t, out, "https://example.com/real.png")
	tester.Contains(t, out, "https://picsum.photos/id/1015/300/200")
	tester.Contains(t, out, "https://picsum.photos/id/1025/640/480")
}

func TestRewriteDefaultDimensions(t *testing.T) {
	out := NewRewriter().Rewrite(`<img src="https://placehold.it/thumb">`)
	tester.Contains(t, out, "/600/400")
}

func TestRewriteCyclesDeterministically(t *testing.T) {
	in := strings.Repeat(`<img src="https://dummyimage.com/100x100"> `, len(stableImageIDs)+1)
	a := NewRewriter().Rewrite(in)
	b := NewRewriter().Rewrite(in)
	tester.Eq(t, a, b, "fresh rewriters must produce identical output")
	// The pool wraps around after exhaustion.
	tester.Eq(t, strings.Count(a, "/id/1015/"), 2)
}
