package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"screenforge/internal/artifact"
	"screenforge/internal/pipeline"
	"screenforge/internal/preset"
	"screenforge/internal/util/jsonutil"
)

// maxUploadBytes bounds the request body; screen recordings land well under
// this for the clip lengths the extraction model accepts.
const maxUploadBytes = 128 << 20

// Runner is the slice of the pipeline the gateway needs. Kept as an
// interface so handler tests can script event streams.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) <-chan pipeline.Event
}

type ReconstructHandler struct {
	Pipeline  Runner
	Presets   *preset.Library
	Artifacts artifact.Store
	Hub       *Hub
}

type reconstructBody struct {
	Video           string `json:"video"` // base64
	MIMEType        string `json:"mimeType"`
	ReferenceFrame  string `json:"referenceFrame"` // base64, optional
	ReferenceMIME   string `json:"referenceMime"`
	StyleDirective  string `json:"styleDirective"`
	StylePreset     string `json:"stylePreset"`
	DatabaseContext string `json:"databaseContext"`
	SkipSurvey      bool   `json:"skipSurvey"`
	SkipVerify      bool   `json:"skipVerify"`
}

// HandleReconstruct runs the pipeline and streams its events back as NDJSON,
// one JSON object per line with a "type" discriminator. The response stream
// mirrors pipeline event order exactly.
func (h *ReconstructHandler) HandleReconstruct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := h.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := newRunID()
	h.Hub.Open(runID)
	defer h.Hub.Close(runID)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Run-Id", runID)
	flusher, _ := w.(http.Flusher)

	var complete *pipeline.Completion
	for ev := range h.Pipeline.Run(r.Context(), req) {
		line, err := jsonutil.MarshalNoEscape(ev)
		if err != nil {
			log.Printf("reconstruct %s: encode event: %v", runID, err)
			continue
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			// Client went away; the pipeline context is tied to the request
			// and will wind down on its own.
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		h.Hub.Publish(runID, ev)
		if ev.Type == pipeline.EventComplete {
			complete = ev.Completion
		}
	}

	if complete != nil {
		h.persist(runID, complete)
	}
}

// persist saves run artifacts after the stream ends. Failures are logged,
// never surfaced: the client already has the payload.
func (h *ReconstructHandler) persist(runID string, comp *pipeline.Completion) {
	if h.Artifacts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if comp.ScanData != nil {
		if data, err := json.MarshalIndent(comp.ScanData, "", "  "); err == nil {
			if err := h.Artifacts.Put(ctx, runID, "scan.json", data); err != nil {
				log.Printf("reconstruct %s: persist scan: %v", runID, err)
			}
		}
	}
	if comp.Code != "" {
		if err := h.Artifacts.Put(ctx, runID, "code.html", []byte(comp.Code)); err != nil {
			log.Printf("reconstruct %s: persist code: %v", runID, err)
		}
	}
	if comp.Verification != nil {
		if data, err := json.MarshalIndent(comp.Verification, "", "  "); err == nil {
			if err := h.Artifacts.Put(ctx, runID, "report.json", data); err != nil {
				log.Printf("reconstruct %s: persist report: %v", runID, err)
			}
		}
	}
}

func (h *ReconstructHandler) parseRequest(r *http.Request) (pipeline.Request, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if ct := r.Header.Get("Content-Type"); len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		return h.parseMultipart(r)
	}

	var body reconstructBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return pipeline.Request{}, err
	}
	video, err := base64.StdEncoding.DecodeString(body.Video)
	if err != nil {
		return pipeline.Request{}, err
	}
	var frame []byte
	if body.ReferenceFrame != "" {
		if frame, err = base64.StdEncoding.DecodeString(body.ReferenceFrame); err != nil {
			return pipeline.Request{}, err
		}
	}
	return h.buildRequest(video, body.MIMEType, frame, body.ReferenceMIME,
		body.StyleDirective, body.StylePreset, body.DatabaseContext,
		body.SkipSurvey, body.SkipVerify), nil
}

func (h *ReconstructHandler) parseMultipart(r *http.Request) (pipeline.Request, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return pipeline.Request{}, err
	}
	video, videoMIME, err := formFile(r, "video")
	if err != nil {
		return pipeline.Request{}, err
	}
	frame, frameMIME, _ := formFile(r, "frame")
	return h.buildRequest(video, videoMIME, frame, frameMIME,
		r.FormValue("styleDirective"), r.FormValue("stylePreset"),
		r.FormValue("databaseContext"),
		r.FormValue("skipSurvey") == "true", r.FormValue("skipVerify") == "true"), nil
}

func (h *ReconstructHandler) buildRequest(video []byte, videoMIME string, frame []byte, frameMIME, style, presetName, dbCtx string, skipSurvey, skipVerify bool) pipeline.Request {
	if style == "" && presetName != "" && h.Presets != nil {
		if d, ok := h.Presets.Directive(presetName); ok {
			style = d
		}
	}
	if videoMIME == "" {
		videoMIME = "video/mp4"
	}
	if frameMIME == "" && len(frame) > 0 {
		frameMIME = "image/png"
	}
	return pipeline.Request{
		Video:           video,
		MIMEType:        videoMIME,
		ReferenceFrame:  frame,
		ReferenceMIME:   frameMIME,
		StyleDirective:  style,
		DatabaseContext: dbCtx,
		SkipSurvey:      skipSurvey,
		SkipVerify:      skipVerify,
	}
}

func formFile(r *http.Request, field string) ([]byte, string, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}

func newRunID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
