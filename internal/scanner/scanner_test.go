package scanner

import (
	"context"
	"errors"
	"testing"

	"screenforge/internal/llm"
	"screenforge/internal/schema"
	"screenforge/internal/tester"
)

const goodScanJSON = `{
  "meta": {"confidence": 0.9, "screensAnalyzed": 3},
  "ui": {
    "navigation": {
      "sidebar": {"exists": true, "items": [
        {"order": 1, "label": "Dashboard", "isActive": true},
        {"order": 2, "label": "Orders"}
      ]},
      "topbar": {"exists": true, "hasSearch": true}
    },
    "colors": {"background": "#f8fafc", "primary": "#2563eb"}
  },
  "data": {"metrics": [{"label": "Revenue", "value": "$12,480"}]},
  "behavior": {"pageTitle": "Dashboard", "currentPage": "dashboard"}
}`

func TestScanDecodesModelOutput(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(ctx context.Context, req llm.Request) (*llm.Result, error) {
		tester.Eq(t, llm.PhaseFrom(ctx), "scan")
		tester.Eq(t, req.ResponseMIME, "application/json")
		tester.Eq(t, len(req.Media), 1)
		tester.Eq(t, req.Media[0].MIMEType, "video/mp4")
		return &llm.Result{Text: goodScanJSON, Usage: llm.Usage{TotalTokens: 42}}, nil
	}})

	scan, usage, err := s.Scan(context.Background(), []byte("fake video"), "video/mp4")
	tester.NoErr(t, err)
	tester.Eq(t, usage.TotalTokens, 42)
	tester.Eq(t, len(scan.UI.Navigation.Sidebar.Items), 2)
	tester.Eq(t, scan.Behavior.PageTitle, "Dashboard")
	// Normalize ran: defaults filled in.
	tester.Eq(t, scan.UI.Navigation.Sidebar.Width, 240)
	tester.Eq(t, scan.UI.Layout.Type, "grid")
}

func TestScanToleratesFencedOutput(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return &llm.Result{Text: "Here is the scan:\n```json\n" + goodScanJSON + "\n```"}, nil
	}})
	scan, _, err := s.Scan(context.Background(), []byte("v"), "video/mp4")
	tester.NoErr(t, err)
	tester.Eq(t, len(scan.Data.Metrics), 1)
}

func TestScanParseFailureIsHard(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return &llm.Result{Text: "I could not analyze this recording."}, nil
	}})
	_, _, err := s.Scan(context.Background(), []byte("v"), "video/mp4")
	var pErr *ParseError
	tester.True(t, errors.As(err, &pErr), "expected ParseError, got %v")
}

func TestScanRejectsEmptyScan(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return &llm.Result{Text: `{"meta": {"confidence": 0.1}}`}, nil
	}})
	_, _, err := s.Scan(context.Background(), []byte("v"), "video/mp4")
	tester.True(t, errors.Is(err, schema.ErrEmptyScan))
}

func TestScanPropagatesClientError(t *testing.T) {
	s := New(&llm.Fake{GenerateFn: func(context.Context, llm.Request) (*llm.Result, error) {
		return nil, errors.New("quota exhausted")
	}})
	_, _, err := s.Scan(context.Background(), []byte("v"), "video/mp4")
	tester.Err(t, err)
	tester.Contains(t, err.Error(), "quota exhausted")
}
