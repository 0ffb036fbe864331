// Package surveyor runs the pre-generation measurement pass. It extracts
// numeric layout facts (grid, spacing, colors, typography) from a reference
// frame. The pipeline must always be able to proceed without it, so every
// failure path degrades to theme-consistent defaults instead of an error.
package surveyor

import (
	"context"
	"fmt"
	"log"

	"github.com/bpradana/weave"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/util/jsonutil"
)

type Surveyor struct {
	Client      llm.Client
	Temperature float32
	// Sequential disables the parallel sub-measurement graph.
	Sequential bool
}

func New(client llm.Client) *Surveyor {
	return &Surveyor{Client: client, Temperature: 0.1}
}

// paletteFacts is the colors/typography half of a measurement.
type paletteFacts struct {
	Theme      schema.Theme              `json:"theme"`
	Colors     schema.MeasuredColors     `json:"colors"`
	Typography schema.MeasuredTypography `json:"typography"`
	Confidence float64                   `json:"confidence"`
	Warnings   []string                  `json:"warnings"`
}

// gridFacts is the grid/spacing half.
type gridFacts struct {
	ImageDimensions schema.Dimensions     `json:"imageDimensions"`
	Grid            schema.GridMeasure    `json:"grid"`
	Spacing         schema.SpacingMeasure `json:"spacing"`
	Components      []schema.ComponentBox `json:"components"`
	Confidence      float64               `json:"confidence"`
	Warnings        []string              `json:"warnings"`
}

type measured[T any] struct {
	facts T
	usage llm.Usage
}

// Measure produces a LayoutMeasurements record for one reference frame.
// The two specialized sub-requests run concurrently; if the graph fails the
// surveyor retries once as a single combined sequential request, and if that
// fails too it returns structurally complete defaults with a warning.
func (s *Surveyor) Measure(ctx context.Context, imageBytes []byte, mimeType string) (schema.LayoutMeasurements, llm.Usage, error) {
	ctx = llm.WithPhase(ctx, "survey")

	if !s.Sequential {
		m, usage, err := s.measureParallel(ctx, imageBytes, mimeType)
		if err == nil {
			return m, usage, nil
		}
		log.Printf("surveyor: parallel measurement failed, falling back to sequential: %v", err)
	}
	return s.measureSequential(ctx, imageBytes, mimeType)
}

func (s *Surveyor) measureParallel(ctx context.Context, imageBytes []byte, mimeType string) (schema.LayoutMeasurements, llm.Usage, error) {
	g := weave.NewGraph()

	paletteTask, err := weave.AddTask(g, "palette", func(ctx context.Context, _ weave.DependencyResolver) (measured[paletteFacts], error) {
		return callFor[paletteFacts](ctx, s, imageBytes, mimeType, palettePrompt)
	})
	if err != nil {
		return schema.LayoutMeasurements{}, llm.Usage{}, err
	}
	gridTask, err := weave.AddTask(g, "grid", func(ctx context.Context, _ weave.DependencyResolver) (measured[gridFacts], error) {
		return callFor[gridFacts](ctx, s, imageBytes, mimeType, gridPrompt)
	})
	if err != nil {
		return schema.LayoutMeasurements{}, llm.Usage{}, err
	}

	results, _, err := g.Run(ctx)
	if err != nil {
		return schema.LayoutMeasurements{}, llm.Usage{}, err
	}
	pal, err := paletteTask.Value(results)
	if err != nil {
		return schema.LayoutMeasurements{}, llm.Usage{}, err
	}
	grid, err := gridTask.Value(results)
	if err != nil {
		return schema.LayoutMeasurements{}, llm.Usage{}, err
	}

	m := schema.LayoutMeasurements{
		ImageDimensions: grid.facts.ImageDimensions,
		Theme:           pal.facts.Theme,
		Grid:            grid.facts.Grid,
		Spacing:         grid.facts.Spacing,
		Colors:          pal.facts.Colors,
		Typography:      pal.facts.Typography,
		Components:      grid.facts.Components,
		Confidence:      minConfidence(pal.facts.Confidence, grid.facts.Confidence),
		Warnings:        append(append([]string{}, pal.facts.Warnings...), grid.facts.Warnings...),
	}
	m.FillDefaults()
	return m, pal.usage.Add(grid.usage), nil
}

func (s *Surveyor) measureSequential(ctx context.Context, imageBytes []byte, mimeType string) (schema.LayoutMeasurements, llm.Usage, error) {
	res, err := s.Client.Generate(ctx, llm.Request{
		Prompt:       combinedPrompt,
		Media:        []llm.Media{{MIMEType: mimeType, Data: imageBytes}},
		Temperature:  s.Temperature,
		ResponseMIME: "application/json",
	})
	if err != nil {
		log.Printf("surveyor: measurement call failed, using defaults: %v", err)
		m := schema.DefaultMeasurements(schema.ThemeLight)
		m.Warnings = append(m.Warnings, fmt.Sprintf("measurement call failed: %v", err))
		return m, llm.Usage{}, nil
	}

	var m schema.LayoutMeasurements
	if !jsonutil.DecodeObject(res.Text, &m) {
		d := schema.DefaultMeasurements(schema.ThemeLight)
		d.Warnings = append(d.Warnings, "measurement output was not parseable JSON; defaults in effect")
		return d, res.Usage, nil
	}
	m.FillDefaults()
	return m, res.Usage, nil
}

func callFor[T any](ctx context.Context, s *Surveyor, imageBytes []byte, mimeType, prompt string) (measured[T], error) {
	var out measured[T]
	res, err := s.Client.Generate(ctx, llm.Request{
		Prompt:       prompt,
		Media:        []llm.Media{{MIMEType: mimeType, Data: imageBytes}},
		Temperature:  s.Temperature,
		ResponseMIME: "application/json",
	})
	if err != nil {
		return out, err
	}
	if !jsonutil.DecodeObject(res.Text, &out.facts) {
		return out, fmt.Errorf("surveyor: sub-measurement returned no JSON")
	}
	out.usage = res.Usage
	return out, nil
}

func minConfidence(a, b float64) float64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}
