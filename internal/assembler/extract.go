package assembler

import (
	"regexp"
	"strings"
)

// Kind classifies what the accumulated model output turned out to be.
type Kind string

const (
	// KindCode means a document was recovered.
	KindCode Kind = "code"
	// KindClarification means the model asked a question instead of coding.
	KindClarification Kind = "clarification"
	// KindChat means the model explained something in prose.
	KindChat Kind = "chat"
)

// Extraction is the result of sanitizing accumulated assembler output.
type Extraction struct {
	Kind     Kind
	Code     string
	Message  string
	Strategy string
}

// strategy is one extraction attempt. Precedence is the order of the
// strategies slice, a visible data structure rather than nested recovery
// handlers.
type strategy struct {
	name  string
	apply func(text string) (string, bool)
}

var strategies = []strategy{
	{"fenced-block", fromFencedBlock},
	{"document-span", fromDocumentSpan},
	{"line-scan", fromLineScan},
}

var (
	reFence    = regexp.MustCompile("(?s)```[a-zA-Z]*\n(.*?)```")
	reDocStart = regexp.MustCompile(`(?i)<!DOCTYPE\s+html|<html[\s>]`)
)

// Extract runs the ordered strategy chain over the accumulated output. When
// no strategy recovers a document, the text is classified as a clarification
// request or a chat explanation instead of being treated as a failure: both
// are legitimate model response shapes.
func Extract(text string) Extraction {
	cleaned := stripPreamble(text)
	for _, s := range strategies {
		if code, ok := s.apply(cleaned); ok {
			return Extraction{Kind: KindCode, Code: code, Strategy: s.name}
		}
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 200 && !strings.Contains(trimmed, "<") {
		return Extraction{Kind: KindClarification, Message: trimmed}
	}
	return Extraction{Kind: KindChat, Message: trimmed}
}

// stripPreamble drops conversational lead-in ("Here's...", "Sure...") before
// the first fence or document-start marker.
func stripPreamble(text string) string {
	fence := strings.Index(text, "```")
	doc := reDocStart.FindStringIndex(text)
	cut := -1
	if fence >= 0 {
		cut = fence
	}
	if doc != nil && (cut < 0 || doc[0] < cut) {
		cut = doc[0]
	}
	if cut > 0 {
		return text[cut:]
	}
	return text
}

func fromFencedBlock(text string) (string, bool) {
	for _, m := range reFence.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if body != "" {
			return body, true
		}
	}
	return "", false
}

func fromDocumentSpan(text string) (string, bool) {
	loc := reDocStart.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	start := loc[0]
	if end := strings.LastIndex(text, "</html>"); end > start {
		return strings.TrimSpace(text[start : end+len("</html>")]), true
	}
	// No close tag: defer to the line scanner, which guards partials.
	return "", false
}

// fromLineScan is the second-chance extractor: it walks line by line for the
// first document-start line and the last end line, and accepts a partial
// document when it is long enough and has a body.
func fromLineScan(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	end := -1
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if start < 0 && reDocStart.MatchString(t) {
			start = i
		}
		if strings.Contains(t, "</html>") {
			end = i
		}
	}
	if start < 0 {
		return "", false
	}
	if end >= start {
		return strings.TrimSpace(strings.Join(lines[start:end+1], "\n")), true
	}
	partial := strings.TrimSpace(strings.Join(lines[start:], "\n"))
	if len(partial) > 500 && strings.Contains(partial, "<body") {
		return partial, true
	}
	return "", false
}
