// Package assembler generates a complete UI document from ScanData. It never
// receives the source video or image: every visual fact must have flowed
// through the schema, which keeps generation auditable and lets one scan be
// re-assembled under different style directives.
package assembler

import (
	"context"
	"fmt"
	"strings"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/util/jsonutil"
)

type Options struct {
	StyleDirective  string
	DatabaseContext string
	Measurements    *schema.LayoutMeasurements
	Temperature     float32
}

type Assembler struct {
	Client llm.Client
}

func New(client llm.Client) *Assembler {
	return &Assembler{Client: client}
}

// Assemble streams generated text through onChunk and returns the full
// accumulated output. Extraction/sanitization happens afterwards, over the
// complete buffer, via Extract.
func (a *Assembler) Assemble(ctx context.Context, scan schema.ScanData, opts Options, onChunk func(chunk string)) (string, llm.Usage, error) {
	ctx = llm.WithPhase(ctx, "assemble")
	prompt, err := buildPrompt(scan, opts)
	if err != nil {
		return "", llm.Usage{}, err
	}
	temp := opts.Temperature
	if temp == 0 {
		temp = 0.4
	}
	res, err := a.Client.GenerateStream(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: temp,
	}, onChunk)
	if err != nil {
		return "", llm.Usage{}, fmt.Errorf("assembler: %w", err)
	}
	return res.Text, res.Usage, nil
}

func buildPrompt(scan schema.ScanData, opts Options) (string, error) {
	scanJSON, err := jsonutil.MarshalNoEscape(scan)
	if err != nil {
		return "", fmt.Errorf("assembler: encode scan: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(assembleInstructions)

	sum := scan.Summary()
	fmt.Fprintf(&sb, "\n\nCARDINALITY CONTRACT (deviation is a defect):\n")
	fmt.Fprintf(&sb, "- sidebar menu entries: exactly %d\n", sum.MenuItems)
	fmt.Fprintf(&sb, "- metric cards: exactly %d\n", sum.Metrics)
	fmt.Fprintf(&sb, "- tables: exactly %d\n", sum.Tables)
	fmt.Fprintf(&sb, "- charts: exactly %d\n", sum.Charts)
	fmt.Fprintf(&sb, "- forms: exactly %d\n", sum.Forms)
	if labels := scan.SidebarLabels(); len(labels) > 0 {
		fmt.Fprintf(&sb, "Menu labels, verbatim and in order: %s\n", strings.Join(labels, " | "))
	}

	if opts.StyleDirective != "" {
		fmt.Fprintf(&sb, "\nSTYLE DIRECTIVE:\n%s\n", opts.StyleDirective)
	}
	if opts.DatabaseContext != "" {
		fmt.Fprintf(&sb, "\nDATABASE CONTEXT (bind data widgets to these entities where names match):\n%s\n", opts.DatabaseContext)
	}
	if opts.Measurements != nil {
		mJSON, err := jsonutil.MarshalNoEscape(opts.Measurements)
		if err == nil {
			fmt.Fprintf(&sb, "\nMEASURED LAYOUT FACTS (use these exact pixel values and tokens):\n%s\n", mJSON)
		}
	}

	fmt.Fprintf(&sb, "\nSCAN DATA:\n%s\n", scanJSON)
	return sb.String(), nil
}

const assembleInstructions = `You are a front-end engineer reconstructing a UI from a structured scan.
You have never seen the original application; the SCAN DATA below is your
only source of truth.

Produce ONE complete, self-contained HTML document:
- Inline <style> using the scan's color tokens, typography, and layout values.
- Semantic markup: <nav> for navigation, <table> for tables, <form> for forms.
- Render charts as inline SVG sized from the series data in the scan.
- Reproduce every menu label, metric value, table cell, and button label
  VERBATIM from the scan. Do not add, drop, merge, or reorder items.
- No external JS frameworks; vanilla JS only if the scan's behavior requires it.

Output the document inside a single fenced code block. No commentary.`
