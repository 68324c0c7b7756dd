package pose

import "github.com/banshee-data/sprint.report/internal/geometry"

// DefaultValidityThreshold is the overall confidence a frame needs to be
// considered usable.
const DefaultValidityThreshold = 0.5

var (
	leftArmTypes  = [3]KeypointType{LeftShoulder, LeftElbow, LeftWrist}
	rightArmTypes = [3]KeypointType{RightShoulder, RightElbow, RightWrist}
	leftLegTypes  = [3]KeypointType{LeftHip, LeftKnee, LeftAnkle}
	rightLegTypes = [3]KeypointType{RightHip, RightKnee, RightAnkle}
)

// Frame is the set of keypoints detected at one capture instant. Timestamp is
// unix milliseconds. Keypoint types are expected to be unique; duplicates are
// kept but lookups return the first.
type Frame struct {
	Keypoints  []Keypoint `json:"keypoints"`
	Confidence float64    `json:"confidence"`
	Timestamp  int64      `json:"timestamp"`
}

// Keypoint returns the first keypoint of type t.
func (f Frame) Keypoint(t KeypointType) (Keypoint, bool) {
	for _, kp := range f.Keypoints {
		if kp.Type == t {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Position returns the position of the first keypoint of type t.
func (f Frame) Position(t KeypointType) (geometry.Point3D, bool) {
	kp, ok := f.Keypoint(t)
	return kp.Position, ok
}

// IsValid reports whether the frame has any keypoints and an overall
// confidence of at least threshold.
func (f Frame) IsValid(threshold float64) bool {
	return f.Confidence >= threshold && len(f.Keypoints) > 0
}

func (f Frame) LeftArm() []Keypoint  { return f.filter(leftArmTypes) }
func (f Frame) RightArm() []Keypoint { return f.filter(rightArmTypes) }
func (f Frame) LeftLeg() []Keypoint  { return f.filter(leftLegTypes) }
func (f Frame) RightLeg() []Keypoint { return f.filter(rightLegTypes) }

// filter keeps frame order; missing members are simply absent.
func (f Frame) filter(types [3]KeypointType) []Keypoint {
	var out []Keypoint
	for _, kp := range f.Keypoints {
		if kp.Type == types[0] || kp.Type == types[1] || kp.Type == types[2] {
			out = append(out, kp)
		}
	}
	return out
}

// Joint returns the three positions of a limb in the order given, or false if
// any of them is missing.
func (f Frame) Joint(a, b, c KeypointType) (pa, pb, pc geometry.Point3D, ok bool) {
	var okA, okB, okC bool
	pa, okA = f.Position(a)
	pb, okB = f.Position(b)
	pc, okC = f.Position(c)
	return pa, pb, pc, okA && okB && okC
}
