package pose

import (
	"context"
	"errors"
)

var (
	// ErrDetection is wrapped by every error a Detector reports for a failed
	// detection. A failed detection never yields a partial frame.
	ErrDetection = errors.New("pose detection failed")

	// ErrDetectorClosed is returned by Detect after Close.
	ErrDetectorClosed = errors.New("pose detector closed")
)

// Image is a raw camera frame handed to a Detector.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

// Detector turns an image into a pose frame. Implementations are platform
// specific and chosen by the binary at startup; the rest of the module only
// depends on this interface.
type Detector interface {
	// Detect runs pose detection on img. accurate selects the slower, more
	// accurate model where the implementation has one. If ctx is cancelled
	// before a result is available, Detect returns ctx.Err() and no frame.
	Detect(ctx context.Context, img Image, accurate bool) (Frame, error)

	// Close releases detector resources. Detect fails after Close.
	Close() error
}
