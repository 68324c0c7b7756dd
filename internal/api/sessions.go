package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/httputil"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/sprint"
	"github.com/banshee-data/sprint.report/internal/units"
)

type createSessionRequest struct {
	Label string `json:"label"`
}

// landmarksRequest carries raw detector output for one capture.
type landmarksRequest struct {
	Timestamp int64           `json:"timestamp"`
	Landmarks []pose.Landmark `json:"landmarks"`
}

// MetricView is one stored analysis plus hip velocity in display units.
// HipSpeed is omitted when no metres-per-unit scale is configured.
type MetricView struct {
	sprint.Analysis
	HipSpeed *float64 `json:"hip_speed,omitempty"`
	Units    string   `json:"units,omitempty"`
}

func infoOf(s *session.Session) db.SessionInfo {
	accepted, _ := s.Stats()
	return db.SessionInfo{ID: s.ID, Label: s.Label, CreatedAt: s.CreatedAt, Frames: accepted}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
	}

	sess, err := s.manager.Create(req.Label)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to create session: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, infoOf(sess))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		sessions, err := s.db.ListSessions()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve sessions: %v", err))
			return
		}
		httputil.WriteJSONOK(w, sessions)
		return
	}

	live := s.manager.List()
	out := make([]db.SessionInfo, len(live))
	// newest first, as the database listing
	for i, sess := range live {
		out[len(live)-1-i] = infoOf(sess)
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) showSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if sess, err := s.manager.Get(id); err == nil {
		httputil.WriteJSONOK(w, infoOf(sess))
		return
	}
	if s.db != nil {
		info, err := s.db.GetSession(id)
		if err == nil {
			httputil.WriteJSONOK(w, info)
			return
		}
		if !errors.Is(err, db.ErrSessionNotFound) {
			httputil.InternalServerError(w, err.Error())
			return
		}
	}
	httputil.NotFound(w, "session not found")
}

// deleteSession ends a live session, closing its event streams, and drops
// its stored history.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	found := s.manager.Remove(id)
	if s.db != nil {
		err := s.db.DeleteSession(id)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, db.ErrSessionNotFound):
			httputil.InternalServerError(w, fmt.Sprintf("Failed to delete session: %v", err))
			return
		}
	}
	if !found {
		httputil.NotFound(w, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.PathValue("id"))
	if err != nil {
		httputil.NotFound(w, "session not found or no longer live")
		return
	}

	var frame pose.Frame
	if err := httputil.DecodeJSON(r, &frame); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	s.process(w, sess, frame)
}

// postLandmarks accepts a BlazePose landmark list and analyses it as a frame.
func (s *Server) postLandmarks(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.PathValue("id"))
	if err != nil {
		httputil.NotFound(w, "session not found or no longer live")
		return
	}

	var req landmarksRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	s.process(w, sess, pose.FromLandmarks(req.Landmarks, req.Timestamp))
}

func (s *Server) process(w http.ResponseWriter, sess *session.Session, frame pose.Frame) {
	a, err := sess.ProcessFrame(frame)
	switch {
	case errors.Is(err, session.ErrOutOfOrder):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, session.ErrInvalidFrame):
		httputil.UnprocessableEntity(w, err.Error())
	case err != nil:
		httputil.InternalServerError(w, err.Error())
	default:
		httputil.WriteJSONOK(w, a)
	}
}

// history loads up to limit analyses of a session, preferring the database
// so sessions from earlier runs stay readable. ok is false for unknown ids.
func (s *Server) history(id string, limit int) (as []sprint.Analysis, ok bool, err error) {
	if s.db != nil {
		if _, err := s.db.GetSession(id); err != nil {
			if errors.Is(err, db.ErrSessionNotFound) {
				return nil, false, nil
			}
			return nil, false, err
		}
		as, err := s.db.SessionMetrics(id, limit)
		return as, true, err
	}

	sess, err := s.manager.Get(id)
	if err != nil {
		return nil, false, nil
	}
	as = sess.Recent()
	if limit > 0 && len(as) > limit {
		as = as[len(as)-limit:]
	}
	return as, true, nil
}

// loadHistory writes the error response itself and returns ok=false on
// failure.
func (s *Server) loadHistory(w http.ResponseWriter, r *http.Request) ([]sprint.Analysis, bool) {
	limit, err := s.limitParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return nil, false
	}
	as, found, err := s.history(r.PathValue("id"), limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to retrieve metrics: %v", err))
		return nil, false
	}
	if !found {
		httputil.NotFound(w, "session not found")
		return nil, false
	}
	return as, true
}

func (s *Server) listMetrics(w http.ResponseWriter, r *http.Request) {
	displayUnits, err := s.unitsParam(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	as, ok := s.loadHistory(w, r)
	if !ok {
		return
	}

	scale := s.cfg.GetMetresPerUnit()
	out := make([]MetricView, len(as))
	for i, a := range as {
		out[i] = MetricView{Analysis: a}
		if speed, ok := units.FromDetector(a.Metrics.HipVelocity, scale, displayUnits); ok {
			out[i].HipSpeed = &speed
			out[i].Units = displayUnits
		}
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) showSummary(w http.ResponseWriter, r *http.Request) {
	as, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	httputil.WriteJSONOK(w, session.Summarize(session.MetricsOf(as)))
}
