// Package session keeps the per-athlete state the stateless engine needs: the
// previous accepted frame, a bounded history of analyses and the link to
// persistent storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/banshee-data/sprint.report/internal/biomech"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/observability"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/sprint"
	"github.com/banshee-data/sprint.report/internal/timeutil"
)

var (
	// ErrOutOfOrder is returned for a frame not captured after the last
	// accepted one.
	ErrOutOfOrder = errors.New("frame is not newer than the previous frame")
	// ErrInvalidFrame is returned for a frame below the confidence threshold
	// or without keypoints.
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrSessionNotFound is returned by Manager lookups.
	ErrSessionNotFound = errors.New("session not found")
)

// Store persists sessions and their analyses. *db.DB implements it.
type Store interface {
	CreateSession(id, label string, createdAt time.Time) error
	RecordAnalysis(sessionID string, a sprint.Analysis) error
}

// Session is one continuous capture of a single athlete. It is safe for
// concurrent use; frames are processed one at a time.
type Session struct {
	ID        string
	Label     string
	CreatedAt time.Time

	engine      *biomech.Engine
	recommender sprint.Recommender
	threshold   float64
	maxRecent   int
	store       Store
	clock       timeutil.Clock
	metrics     *observability.Metrics
	logf        func(format string, v ...interface{})

	mu       sync.Mutex
	previous *pose.Frame
	recent   []sprint.Analysis
	frames   int
	rejected int

	feed feed
}

// ProcessFrame validates f, analyses it against the previous accepted frame
// and records the result. Rejected frames leave the session unchanged.
func (s *Session) ProcessFrame(f pose.Frame) (sprint.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !f.IsValid(s.threshold) {
		s.reject(observability.ReasonInvalid)
		if len(f.Keypoints) == 0 {
			return sprint.Analysis{}, fmt.Errorf("%w: no keypoints", ErrInvalidFrame)
		}
		return sprint.Analysis{}, fmt.Errorf("%w: confidence %.2f below threshold %.2f", ErrInvalidFrame, f.Confidence, s.threshold)
	}
	if s.previous != nil && f.Timestamp <= s.previous.Timestamp {
		s.reject(observability.ReasonOutOfOrder)
		return sprint.Analysis{}, fmt.Errorf("%w: %d after %d", ErrOutOfOrder, f.Timestamp, s.previous.Timestamp)
	}

	start := s.clock.Now()
	m := s.engine.Analyze(f, s.previous)
	a := sprint.Analyze(m, s.recommender)
	elapsed := s.clock.Since(start)

	prev := f
	s.previous = &prev
	s.frames++
	s.recent = append(s.recent, a)
	if over := len(s.recent) - s.maxRecent; s.maxRecent > 0 && over > 0 {
		s.recent = append(s.recent[:0], s.recent[over:]...)
	}

	if s.metrics != nil {
		s.metrics.RecordAnalysis(elapsed.Seconds(), m.OverallScore, a.Priority.String())
	}
	monitoring.Debugf("session %s: frame %d score %.1f priority %s", s.ID, f.Timestamp, m.OverallScore, a.Priority)

	if s.store != nil {
		if err := s.store.RecordAnalysis(s.ID, a); err != nil {
			// The analysis stands; only persistence failed.
			s.logf("failed to persist analysis at %d: %v", f.Timestamp, err)
			if s.metrics != nil {
				s.metrics.RecordStoreError("record_analysis")
			}
		}
	}
	s.publish(a)
	return a, nil
}

func (s *Session) reject(reason string) {
	s.rejected++
	if s.metrics != nil {
		s.metrics.RecordRejected(reason)
	}
}

// Capture runs det on img and processes the resulting frame. A detection
// failure is returned wrapped and does not disturb the session.
func (s *Session) Capture(ctx context.Context, det pose.Detector, img pose.Image, accurate bool) (sprint.Analysis, error) {
	f, err := det.Detect(ctx, img, accurate)
	if err != nil {
		if s.metrics != nil && errors.Is(err, pose.ErrDetection) && !errors.Is(err, io.EOF) {
			s.metrics.RecordRejected(observability.ReasonDetection)
		}
		return sprint.Analysis{}, fmt.Errorf("capture: %w", err)
	}
	return s.ProcessFrame(f)
}

// Recent returns a copy of the retained analyses, oldest first.
func (s *Session) Recent() []sprint.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sprint.Analysis(nil), s.recent...)
}

// Previous returns the last accepted frame.
func (s *Session) Previous() (pose.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.previous == nil {
		return pose.Frame{}, false
	}
	return *s.previous, true
}

// Stats reports how many frames were accepted and rejected.
func (s *Session) Stats() (accepted, rejected int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames, s.rejected
}
