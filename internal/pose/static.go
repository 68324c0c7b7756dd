package pose

import (
	"context"
	"sync"

	"github.com/banshee-data/sprint.report/internal/geometry"
	"github.com/banshee-data/sprint.report/internal/timeutil"
)

// placeholderSkeleton is a front-facing standing pose in pixel coordinates.
var placeholderSkeleton = []Keypoint{
	{Position: geometry.Point3D{X: 100, Y: 50}, Confidence: 0.9, Type: Nose},
	{Position: geometry.Point3D{X: 80, Y: 80}, Confidence: 0.8, Type: LeftShoulder},
	{Position: geometry.Point3D{X: 120, Y: 80}, Confidence: 0.8, Type: RightShoulder},
	{Position: geometry.Point3D{X: 70, Y: 120}, Confidence: 0.7, Type: LeftElbow},
	{Position: geometry.Point3D{X: 130, Y: 120}, Confidence: 0.7, Type: RightElbow},
	{Position: geometry.Point3D{X: 60, Y: 160}, Confidence: 0.6, Type: LeftWrist},
	{Position: geometry.Point3D{X: 140, Y: 160}, Confidence: 0.6, Type: RightWrist},
	{Position: geometry.Point3D{X: 85, Y: 200}, Confidence: 0.8, Type: LeftHip},
	{Position: geometry.Point3D{X: 115, Y: 200}, Confidence: 0.8, Type: RightHip},
	{Position: geometry.Point3D{X: 80, Y: 280}, Confidence: 0.7, Type: LeftKnee},
	{Position: geometry.Point3D{X: 120, Y: 280}, Confidence: 0.7, Type: RightKnee},
	{Position: geometry.Point3D{X: 75, Y: 360}, Confidence: 0.6, Type: LeftAnkle},
	{Position: geometry.Point3D{X: 125, Y: 360}, Confidence: 0.6, Type: RightAnkle},
}

// StaticDetector returns a fixed placeholder skeleton stamped with the clock's
// current time. Each call shifts the skeleton Step units along X so that
// consecutive frames show motion. It backs the server's dev mode.
type StaticDetector struct {
	Clock      timeutil.Clock
	Step       float64
	Confidence float64

	mu     sync.Mutex
	calls  int
	closed bool
}

// NewStaticDetector returns a StaticDetector on the given clock.
func NewStaticDetector(clock timeutil.Clock, step float64) *StaticDetector {
	return &StaticDetector{Clock: clock, Step: step, Confidence: 0.8}
}

func (d *StaticDetector) Detect(ctx context.Context, _ Image, _ bool) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return Frame{}, ErrDetectorClosed
	}

	offset := d.Step * float64(d.calls)
	d.calls++

	kps := make([]Keypoint, len(placeholderSkeleton))
	for i, kp := range placeholderSkeleton {
		kp.Position.X += offset
		kps[i] = kp
	}
	return Frame{
		Keypoints:  kps,
		Confidence: d.Confidence,
		Timestamp:  d.Clock.Now().UnixMilli(),
	}, nil
}

func (d *StaticDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
