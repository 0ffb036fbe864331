package server

import (
	"net/http"

	"screenforge/internal/gateway/handler"
	"screenforge/internal/gateway/middleware"
)

func NewMux(reconstruct *handler.ReconstructHandler, verify *handler.VerifyHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/reconstruct", reconstruct.HandleReconstruct)
	mux.HandleFunc("/v1/runs/", reconstruct.HandleWatch)
	mux.HandleFunc("/v1/verify", verify.HandleVerify)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(mux)
}
