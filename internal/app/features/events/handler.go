// internal/app/features/events/handler.go
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/pmhub/internal/app/features/errors"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"go.uber.org/zap"
)

// DefaultKeepAlive is how often an idle stream gets a comment line.
const DefaultKeepAlive = 25 * time.Second

// Handler streams committed workspace changes as server-sent events.
type Handler struct {
	C         *workspace.Container
	KeepAlive time.Duration
	Log       *zap.Logger
}

func NewHandler(c *workspace.Container, logger *zap.Logger) *Handler {
	return &Handler{C: c, KeepAlive: DefaultKeepAlive, Log: logger}
}

// changeEvent is the payload of each "change" event. Clients re-read /api/state
// or the dashboard endpoints; the counts let them skip that when nothing they show moved.
type changeEvent struct {
	Op       string `json:"op"`
	Users    int    `json:"users"`
	Projects int    `json:"projects"`
}

// Serve handles GET /api/events.
//
//	event: ready
//	data: {}
//
//	event: change
//	data: {"op":"create_task","users":3,"projects":1}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		uierrors.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch := h.C.Subscribe()
	defer h.C.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(changeEvent{
				Op:       change.Op,
				Users:    len(change.State.Users),
				Projects: len(change.State.Projects),
			})
			if err != nil {
				h.Log.Warn("events: encode change failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
