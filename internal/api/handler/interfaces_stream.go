package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/faciam-dev/urlpreview/internal/logger"
)

// Stream pushes registry changes to the client as server-sent events.
func (h *InterfaceHandler) Stream(w http.ResponseWriter, r *http.Request) {
	logger.L.Info("interfaces stream", "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	ch, unsub := h.Reg.Subscribe()
	defer unsub()
	flusher.Flush()

	ticker := time.NewTicker(h.keepalive())
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				logger.L.Error("sse keepalive failed", "error", err)
				return
			}
			flusher.Flush()
		case ev := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\n", ev.Type); err != nil {
				logger.L.Error("sse write failed", "error", err)
				return
			}
			var (
				b   []byte
				err error
			)
			if ev.Entry != nil {
				b, err = json.Marshal(ev.Entry)
			} else if ev.ID != "" {
				b, err = json.Marshal(map[string]string{"id": ev.ID})
			} else {
				b = []byte("{}")
			}
			if err != nil {
				logger.L.Error("sse marshal failed", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
				logger.L.Error("sse write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *InterfaceHandler) keepalive() time.Duration {
	if h.Keepalive > 0 {
		return h.Keepalive
	}
	return 30 * time.Second
}
