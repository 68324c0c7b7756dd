package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/banshee-data/sprint.report/internal/httputil"
	"github.com/banshee-data/sprint.report/internal/monitoring"
)

// streamEvents pushes each analysis accepted by a live session to the
// client as a server-sent event until the client goes away or the session
// is removed.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.PathValue("id"))
	if err != nil {
		httputil.NotFound(w, "session not found")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.InternalServerError(w, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering for nginx

	id, c := sess.Subscribe()
	defer sess.Unsubscribe(id)

	if _, err := w.Write([]byte(": ping\n\n")); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case a, ok := <-c:
			if !ok {
				return
			}
			payload, err := json.Marshal(a)
			if err != nil {
				monitoring.Logf("failed to encode event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: analysis\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
