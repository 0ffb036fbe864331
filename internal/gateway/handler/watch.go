package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// HandleWatch mirrors a live run's events over a websocket. Route shape:
// GET /v1/runs/{id}/watch.
func (h *ReconstructHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	runID := watchRunID(r.URL.Path)
	if runID == "" {
		http.Error(w, "run id required", http.StatusBadRequest)
		return
	}
	events, cancel, ok := h.Hub.Subscribe(runID)
	if !ok {
		http.Error(w, "run not found or already finished", http.StatusNotFound)
		return
	}
	defer cancel()

	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch %s: upgrade: %v", runID, err)
		return
	}
	defer conn.Close()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case ev, open := <-events:
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func watchRunID(path string) string {
	rest, ok := strings.CutPrefix(path, "/v1/runs/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/watch")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
