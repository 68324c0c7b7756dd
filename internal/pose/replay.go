package pose

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

const maxReplayLine = 1 << 20

// ReplayDetector replays previously recorded frames from a JSON-lines stream,
// one Frame per line, ignoring the image it is given. It is used by the
// replay tool and in tests in place of a camera-backed detector.
type ReplayDetector struct {
	mu      sync.Mutex
	src     io.Reader
	scanner *bufio.Scanner
	line    int
	closed  bool
}

// NewReplayDetector reads frames from r. If r is an io.Closer it is closed by
// Close.
func NewReplayDetector(r io.Reader) *ReplayDetector {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplayLine)
	return &ReplayDetector{src: r, scanner: scanner}
}

// Detect returns the next recorded frame. When the stream is exhausted the
// error wraps both ErrDetection and io.EOF.
func (d *ReplayDetector) Detect(ctx context.Context, _ Image, _ bool) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Frame{}, ErrDetectorClosed
	}

	for d.scanner.Scan() {
		d.line++
		raw := bytes.TrimSpace(d.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return Frame{}, fmt.Errorf("%w: line %d: %v", ErrDetection, d.line, err)
		}
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		return f, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Frame{}, fmt.Errorf("%w: read replay stream: %v", ErrDetection, err)
	}
	return Frame{}, fmt.Errorf("%w: %w", ErrDetection, io.EOF)
}

// Close stops the replay.
func (d *ReplayDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
