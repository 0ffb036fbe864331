package handler

import (
	"encoding/json"
	"net/http"

	"screenforge/internal/qa"
)

type VerifyHandler struct {
	Tester *qa.Tester
}

// HandleVerify compares an original frame against a rendered screenshot and
// returns the verification report. "mode=quick" skips issue enumeration.
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	original, originalMIME, err := formFile(r, "original")
	if err != nil {
		http.Error(w, "original image required", http.StatusBadRequest)
		return
	}
	rendered, renderedMIME, err := formFile(r, "rendered")
	if err != nil {
		http.Error(w, "rendered image required", http.StatusBadRequest)
		return
	}

	report, err := func() (any, error) {
		if r.FormValue("mode") == "quick" {
			return h.Tester.QuickVerify(original, rendered)
		}
		return h.Tester.Verify(r.Context(), original, rendered, originalMIME, renderedMIME)
	}()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}
