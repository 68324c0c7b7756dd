package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

// finished reports whether err means the detector has nothing more to give.
func finished(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, pose.ErrDetectorClosed)
}

// Drain captures from det until it is exhausted or ctx is done, calling fn
// for each accepted analysis. Rejected frames and per-frame detection errors
// are logged and skipped. It returns the number of accepted frames.
func (s *Session) Drain(ctx context.Context, det pose.Detector, accurate bool, fn func(sprint.Analysis)) (int, error) {
	n := 0
	for {
		a, err := s.Capture(ctx, det, pose.Image{}, accurate)
		switch {
		case err == nil:
			n++
			if fn != nil {
				fn(a)
			}
		case finished(err):
			return n, nil
		case ctx.Err() != nil:
			return n, ctx.Err()
		default:
			s.logf("skipping frame: %v", err)
		}
	}
}

// Run captures from det once per interval on the session clock until ctx is
// done or the detector closes.
func (s *Session) Run(ctx context.Context, det pose.Detector, interval time.Duration, accurate bool) error {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			_, err := s.Capture(ctx, det, pose.Image{}, accurate)
			switch {
			case err == nil:
			case finished(err):
				return nil
			case ctx.Err() != nil:
				return nil
			default:
				s.logf("capture failed: %v", err)
			}
		}
	}
}
