package assembler

import (
	"context"
	"strings"
	"testing"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/tester"
)

func promptScan() schema.ScanData {
	var s schema.ScanData
	s.UI.Navigation.Sidebar.Exists = true
	s.UI.Navigation.Sidebar.Items = []schema.MenuItem{
		{Order: 1, Label: "Dashboard"},
		{Order: 2, IsSeparator: true},
		{Order: 3, Label: "Reports"},
	}
	s.Data.Metrics = []schema.Metric{{Label: "Users", Value: "1,204"}, {Label: "Churn", Value: "2.1%"}}
	s.Data.Charts = []schema.Chart{{Title: "Signups", Type: "line"}}
	s.Behavior.PageTitle = "Dashboard"
	return s
}

func TestBuildPromptCarriesCardinalityContract(t *testing.T) {
	prompt, err := buildPrompt(promptScan(), Options{})
	tester.NoErr(t, err)
	tester.Contains(t, prompt, "sidebar menu entries: exactly 3")
	tester.Contains(t, prompt, "metric cards: exactly 2")
	tester.Contains(t, prompt, "charts: exactly 1")
	tester.Contains(t, prompt, "Dashboard | Reports")
	tester.Contains(t, prompt, "SCAN DATA:")
}

func TestBuildPromptOptionalSections(t *testing.T) {
	m := schema.DefaultMeasurements(schema.ThemeDark)
	prompt, err := buildPrompt(promptScan(), Options{
		StyleDirective:  "make it brutalist",
		DatabaseContext: "table users(id, email)",
		Measurements:    &m,
	})
	tester.NoErr(t, err)
	tester.Contains(t, prompt, "STYLE DIRECTIVE:\nmake it brutalist")
	tester.Contains(t, prompt, "table users(id, email)")
	tester.Contains(t, prompt, "MEASURED LAYOUT FACTS")
	tester.Contains(t, prompt, "#0f172a")

	bare, err := buildPrompt(promptScan(), Options{})
	tester.NoErr(t, err)
	tester.False(t, strings.Contains(bare, "STYLE DIRECTIVE"))
	tester.False(t, strings.Contains(bare, "DATABASE CONTEXT"))
}

func TestAssembleStreamsAndAccumulates(t *testing.T) {
	chunks := []string{"<!DOCTYPE html>\n<html>", "<body>Dashboard</body>", "</html>"}
	a := New(&llm.Fake{StreamFn: func(ctx context.Context, req llm.Request, onChunk func(string)) (*llm.Result, error) {
		tester.Eq(t, llm.PhaseFrom(ctx), "assemble")
		tester.Eq(t, req.Temperature, float32(0.4))
		var full strings.Builder
		for _, c := range chunks {
			onChunk(c)
			full.WriteString(c)
		}
		return &llm.Result{Text: full.String(), Usage: llm.Usage{TotalTokens: 99}}, nil
	}})

	var seen []string
	raw, usage, err := a.Assemble(context.Background(), promptScan(), Options{}, func(c string) {
		seen = append(seen, c)
	})
	tester.NoErr(t, err)
	tester.Eq(t, seen, chunks)
	tester.Eq(t, raw, strings.Join(chunks, ""))
	tester.Eq(t, usage.TotalTokens, int32(99))
}
