// Package pose holds the per-frame skeleton model produced by a pose detector
// and the Detector capability that produces it.
package pose

import (
	"fmt"

	"github.com/banshee-data/sprint.report/internal/geometry"
)

// KeypointType identifies an anatomical landmark.
type KeypointType int

const (
	Nose KeypointType = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftMouth
	RightMouth
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	numKeypointTypes
)

var keypointNames = [numKeypointTypes]string{
	Nose:           "NOSE",
	LeftEye:        "LEFT_EYE",
	RightEye:       "RIGHT_EYE",
	LeftEar:        "LEFT_EAR",
	RightEar:       "RIGHT_EAR",
	LeftMouth:      "LEFT_MOUTH",
	RightMouth:     "RIGHT_MOUTH",
	LeftShoulder:   "LEFT_SHOULDER",
	RightShoulder:  "RIGHT_SHOULDER",
	LeftElbow:      "LEFT_ELBOW",
	RightElbow:     "RIGHT_ELBOW",
	LeftWrist:      "LEFT_WRIST",
	RightWrist:     "RIGHT_WRIST",
	LeftHip:        "LEFT_HIP",
	RightHip:       "RIGHT_HIP",
	LeftKnee:       "LEFT_KNEE",
	RightKnee:      "RIGHT_KNEE",
	LeftAnkle:      "LEFT_ANKLE",
	RightAnkle:     "RIGHT_ANKLE",
	LeftPinky:      "LEFT_PINKY",
	RightPinky:     "RIGHT_PINKY",
	LeftIndex:      "LEFT_INDEX",
	RightIndex:     "RIGHT_INDEX",
	LeftThumb:      "LEFT_THUMB",
	RightThumb:     "RIGHT_THUMB",
	LeftHeel:       "LEFT_HEEL",
	RightHeel:      "RIGHT_HEEL",
	LeftFootIndex:  "LEFT_FOOT_INDEX",
	RightFootIndex: "RIGHT_FOOT_INDEX",
}

// KeypointTypes returns every landmark in declaration order.
func KeypointTypes() []KeypointType {
	types := make([]KeypointType, numKeypointTypes)
	for i := range types {
		types[i] = KeypointType(i)
	}
	return types
}

// Valid reports whether t is one of the declared landmarks.
func (t KeypointType) Valid() bool {
	return t >= 0 && t < numKeypointTypes
}

func (t KeypointType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("KeypointType(%d)", int(t))
	}
	return keypointNames[t]
}

// ParseKeypointType returns the landmark with the given name, e.g. "LEFT_KNEE".
func ParseKeypointType(name string) (KeypointType, error) {
	for i, n := range keypointNames {
		if n == name {
			return KeypointType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown keypoint type %q", name)
}

func (t KeypointType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid keypoint type %d", int(t))
	}
	return []byte(keypointNames[t]), nil
}

func (t *KeypointType) UnmarshalText(text []byte) error {
	parsed, err := ParseKeypointType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Keypoint is a single detected landmark. Confidence is a likelihood in [0,1]
// but is not range checked.
type Keypoint struct {
	Position   geometry.Point3D `json:"position"`
	Confidence float64          `json:"confidence"`
	Type       KeypointType     `json:"type"`
}
