package biomech

import (
	"math"

	"github.com/banshee-data/sprint.report/internal/geometry"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

// Overall score weights.
const (
	KneeWeight     = 0.4
	VelocityWeight = 0.4
	SymmetryWeight = 0.2
)

// Engine turns pose frames into sprint metrics. The zero value is ready to
// use and safe for concurrent calls.
type Engine struct{}

// NewEngine returns an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze computes metrics for current. previous, when non-nil, is the frame
// captured before current and is only used for hip velocity. The result is
// stamped with current's capture time.
func (e *Engine) Analyze(current pose.Frame, previous *pose.Frame) sprint.Metrics {
	knee := KneeAngle(current)
	velocity := HipVelocity(current, previous)
	symmetry := ArmSymmetry(current)

	return sprint.Metrics{
		KneeAngle:    knee,
		HipVelocity:  velocity,
		ArmSymmetry:  symmetry,
		OverallScore: OverallScore(knee, velocity, symmetry),
		Timestamp:    current.Timestamp,
	}
}

// jointAngle returns the angle at b, or false when any landmark is missing.
func jointAngle(f pose.Frame, a, b, c pose.KeypointType) (float64, bool) {
	pa, pb, pc, ok := f.Joint(a, b, c)
	if !ok {
		return 0, false
	}
	return geometry.AngleBetween(pa, pb, pc), true
}

// KneeAngle is the hip-knee-ankle angle averaged over the sides that are
// fully visible, or 0 if neither is.
func KneeAngle(f pose.Frame) float64 {
	left, okL := jointAngle(f, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	right, okR := jointAngle(f, pose.RightHip, pose.RightKnee, pose.RightAnkle)

	switch {
	case okL && okR:
		return (left + right) / 2
	case okL:
		return left
	case okR:
		return right
	default:
		return 0
	}
}

// hipCentre is the midpoint of both hips, or whichever hip is visible.
func hipCentre(f pose.Frame) (geometry.Point3D, bool) {
	left, okL := f.Position(pose.LeftHip)
	right, okR := f.Position(pose.RightHip)

	switch {
	case okL && okR:
		return geometry.Midpoint(left, right), true
	case okL:
		return left, true
	case okR:
		return right, true
	default:
		return geometry.Point3D{}, false
	}
}

// HipVelocity is the speed of the hip centre between previous and current in
// distance units per second. It is 0 without a previous frame, without a hip
// in either frame, or when the time delta is not positive.
func HipVelocity(current pose.Frame, previous *pose.Frame) float64 {
	if previous == nil {
		return 0
	}

	cur, ok := hipCentre(current)
	if !ok {
		return 0
	}
	prev, ok := hipCentre(*previous)
	if !ok {
		return 0
	}

	dt := float64(current.Timestamp-previous.Timestamp) / 1000.0
	if dt <= 0 {
		return 0
	}
	return geometry.Distance(cur, prev) / dt
}

// ArmSymmetry is the absolute difference between the left and right
// shoulder-elbow-wrist angles, or sprint.SymmetryUnmeasurable when either arm
// is incomplete.
func ArmSymmetry(f pose.Frame) float64 {
	left, okL := jointAngle(f, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist)
	right, okR := jointAngle(f, pose.RightShoulder, pose.RightElbow, pose.RightWrist)
	if !okL || !okR {
		return sprint.SymmetryUnmeasurable
	}
	return math.Abs(left - right)
}
