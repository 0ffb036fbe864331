// Package pipeline sequences the reconstruction run: survey, scan, assemble,
// verify. It owns per-stage timeouts, partial-failure policy, and the ordered
// event stream callers consume.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"screenforge/internal/assembler"
	"screenforge/internal/llm"
	"screenforge/internal/qa"
	"screenforge/internal/scanner"
	"screenforge/internal/schema"
	"screenforge/internal/surveyor"
)

// Renderer turns an assembled document into an image for QA comparison.
// Rendering happens in the host environment; the pipeline only consumes the
// result, so this stays an external collaborator interface.
type Renderer interface {
	Render(ctx context.Context, html string) (png []byte, err error)
}

type Config struct {
	ScanTimeout     time.Duration
	AssembleTimeout time.Duration
	SurveyTimeout   time.Duration
	CacheSize       int
	CacheTTL        time.Duration
	ChunkBuffer     int
	Renderer        Renderer
	// AssembleClient, when set, serves the assembly stage instead of the
	// primary client. Lets deployments pair a cheap extraction model with a
	// stronger generation model.
	AssembleClient llm.Client
}

func (c *Config) withDefaults() {
	if c.ScanTimeout <= 0 {
		c.ScanTimeout = 150 * time.Second
	}
	if c.AssembleTimeout <= 0 {
		c.AssembleTimeout = 180 * time.Second
	}
	if c.SurveyTimeout <= 0 {
		c.SurveyTimeout = 60 * time.Second
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 64
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 30 * time.Minute
	}
	if c.ChunkBuffer <= 0 {
		c.ChunkBuffer = 16
	}
}

// Request is one reconstruction job. ReferenceFrame is optional; without it
// the surveyor and the QA tester are skipped.
type Request struct {
	Video           []byte
	MIMEType        string
	ReferenceFrame  []byte
	ReferenceMIME   string
	StyleDirective  string
	DatabaseContext string
	SkipSurvey      bool
	SkipVerify      bool
}

// state tracks the run's position in the lifecycle. Transitions are strictly
// forward; the zero value is stateInit.
type state int

const (
	stateInit state = iota
	stateScanning
	stateScanned
	stateAssembling
	stateFinalizing
	stateComplete
	stateError
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "INIT"
	case stateScanning:
		return "SCANNING"
	case stateScanned:
		return "SCANNED"
	case stateAssembling:
		return "ASSEMBLING"
	case stateFinalizing:
		return "FINALIZING"
	case stateComplete:
		return "COMPLETE"
	case stateError:
		return "ERROR"
	}
	return "UNKNOWN"
}

type Pipeline struct {
	scanner   *scanner.Scanner
	surveyor  *surveyor.Surveyor
	assembler *assembler.Assembler
	tester    *qa.Tester
	scanCache *expirable.LRU[string, schema.ScanData]
	cfg       Config
}

// New wires all stages onto a single model client. Concurrent runs are fully
// independent; the scan cache is the only shared structure and it is
// concurrency-safe.
func New(client llm.Client, cfg Config) *Pipeline {
	cfg.withDefaults()
	asmClient := cfg.AssembleClient
	if asmClient == nil {
		asmClient = client
	}
	return &Pipeline{
		scanner:   scanner.New(client),
		surveyor:  surveyor.New(client),
		assembler: assembler.New(asmClient),
		tester:    qa.New(client),
		scanCache: expirable.NewLRU[string, schema.ScanData](cfg.CacheSize, nil, cfg.CacheTTL),
		cfg:       cfg,
	}
}

// Run starts a reconstruction and returns its event stream. The producer
// blocks on channel sends, so a slow consumer applies backpressure instead of
// losing events. The channel closes after the terminal event.
func (p *Pipeline) Run(ctx context.Context, req Request) <-chan Event {
	out := make(chan Event, p.cfg.ChunkBuffer)
	go func() {
		defer close(out)
		p.run(ctx, req, out)
	}()
	return out
}

func (p *Pipeline) run(ctx context.Context, req Request, out chan<- Event) {
	start := time.Now()
	st := stateInit
	advance := func(to state) {
		log.Printf("pipeline: %s -> %s", st, to)
		st = to
	}
	var usage llm.Usage

	emit := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		advance(stateError)
		log.Printf("pipeline: run failed: %v", err)
		emit(Event{Type: EventError, Error: err.Error()})
	}

	// ---- survey (optional, never fatal) ----
	var measurements *schema.LayoutMeasurements
	if !req.SkipSurvey && len(req.ReferenceFrame) > 0 {
		sctx, cancel := context.WithTimeout(ctx, p.cfg.SurveyTimeout)
		m, u, err := p.surveyor.Measure(sctx, req.ReferenceFrame, req.ReferenceMIME)
		cancel()
		if err != nil {
			log.Printf("pipeline: survey skipped: %v", err)
		} else {
			measurements = &m
			usage = usage.Add(u)
		}
	}

	// ---- scan ----
	advance(stateScanning)
	if !emit(Event{Type: EventStatus, Phase: PhaseScanning, Message: "Analyzing recording", Progress: 5}) {
		return
	}

	key := scanKey(req.Video)
	scan, cached := p.scanCache.Get(key)
	if !cached {
		sctx, cancel := context.WithTimeout(ctx, p.cfg.ScanTimeout)
		var u llm.Usage
		var err error
		scan, u, err = p.scanner.Scan(sctx, req.Video, req.MIMEType)
		cancel()
		usage = usage.Add(u)
		if err != nil {
			fail(p.classifyScanErr(ctx, sctx, err))
			return
		}
		p.scanCache.Add(key, scan)
	}

	advance(stateScanned)
	sum := scan.Summary()
	msg := fmt.Sprintf("Found %d menu items, %d metrics, %d tables, %d charts",
		sum.MenuItems, sum.Metrics, sum.Tables, sum.Charts)
	if cached {
		msg = "Reusing cached scan: " + msg
	}
	if !emit(Event{Type: EventStatus, Phase: PhaseScanned, Message: msg, Progress: 40}) {
		return
	}

	// ---- assemble ----
	advance(stateAssembling)
	if !emit(Event{Type: EventStatus, Phase: PhaseAssembling, Message: "Assembling document", Progress: 45}) {
		return
	}

	actx, cancelAsm := context.WithTimeout(ctx, p.cfg.AssembleTimeout)
	defer cancelAsm()

	chunkIndex := 0
	totalLen := 0
	lineCount := 1
	aborted := false
	onChunk := func(chunk string) {
		if aborted {
			return
		}
		totalLen += len(chunk)
		lineCount += strings.Count(chunk, "\n")
		progress := 45 + min(45, totalLen/400)
		ok := emit(Event{
			Type:        EventChunk,
			Content:     chunk,
			ChunkIndex:  chunkIndex,
			TotalLength: totalLen,
			LineCount:   lineCount,
			Progress:    progress,
		})
		if !ok {
			aborted = true
		}
		chunkIndex++
	}

	raw, au, err := p.assembler.Assemble(actx, scan, assembler.Options{
		StyleDirective:  req.StyleDirective,
		DatabaseContext: req.DatabaseContext,
		Measurements:    measurements,
	}, onChunk)
	usage = usage.Add(au)
	if err != nil {
		if actx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			fail(&TimeoutError{Stage: StageAssemble, Budget: p.cfg.AssembleTimeout})
		} else {
			fail(&StageError{Stage: StageAssemble, Err: err})
		}
		return
	}
	if aborted {
		return
	}

	// ---- finalize ----
	advance(stateFinalizing)
	if !emit(Event{Type: EventProgress, Message: "Extracting document", Progress: 95}) {
		return
	}

	comp := &Completion{
		ScanData:       &scan,
		Measurements:   measurements,
		TokenUsage:     &usage,
		DurationMillis: time.Since(start).Milliseconds(),
	}

	ext := assembler.Extract(raw)
	if ext.Kind != assembler.KindCode {
		// A clarification or chat answer is a legitimate model response,
		// not a failure; surface it as a non-code completion.
		comp.ResponseKind = string(ext.Kind)
		comp.ResponseMessage = ext.Message
		advance(stateComplete)
		emit(Event{Type: EventComplete, Progress: 100, Completion: comp})
		return
	}

	code := assembler.NewRewriter().Rewrite(ext.Code)
	comp.Code = code
	comp.ResponseKind = string(assembler.KindCode)

	labels := scan.SidebarLabels()
	found, warning := validateLabels(code, labels)
	comp.Validation = &Validation{
		MenuItemsExpected: sum.MenuItems,
		MenuItemsFound:    found,
		MetricsExpected:   sum.Metrics,
		ChartsExpected:    sum.Charts,
		TablesExpected:    sum.Tables,
	}
	comp.ValidationWarning = warning

	if p.cfg.Renderer != nil && !req.SkipVerify && len(req.ReferenceFrame) > 0 {
		if report := p.verify(ctx, req, code); report != nil {
			comp.Verification = report
		}
	}

	advance(stateComplete)
	comp.DurationMillis = time.Since(start).Milliseconds()
	emit(Event{Type: EventComplete, Progress: 100, TotalLength: len(code), Completion: comp})
}

func (p *Pipeline) classifyScanErr(parent, scanCtx context.Context, err error) error {
	if scanCtx.Err() == context.DeadlineExceeded && parent.Err() == nil {
		return &TimeoutError{Stage: StageScan, Budget: p.cfg.ScanTimeout}
	}
	var parseErr *scanner.ParseError
	if errors.As(err, &parseErr) {
		return &StageError{Stage: StageScan, Err: parseErr}
	}
	return &StageError{Stage: StageScan, Err: err}
}

// verify is advisory; any failure is logged and swallowed.
func (p *Pipeline) verify(ctx context.Context, req Request, code string) *schema.VerificationReport {
	rendered, err := p.cfg.Renderer.Render(ctx, code)
	if err != nil {
		log.Printf("pipeline: render for verification failed: %v", err)
		return nil
	}
	report, err := p.tester.Verify(ctx, req.ReferenceFrame, rendered, req.ReferenceMIME, "image/png")
	if err != nil {
		log.Printf("pipeline: verification failed: %v", err)
		return nil
	}
	return &report
}

func scanKey(video []byte) string {
	sum := sha256.Sum256(video)
	return hex.EncodeToString(sum[:])
}
