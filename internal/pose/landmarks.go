package pose

import "github.com/banshee-data/sprint.report/internal/geometry"

// Landmark is one entry of a 33-point BlazePose style landmark list, as
// emitted by MediaPipe and ML Kit pose detectors.
type Landmark struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// landmarkTypes maps BlazePose indices to keypoint types. The inner and outer
// eye points are dropped so each type appears at most once.
var landmarkTypes = map[int]KeypointType{
	0:  Nose,
	2:  LeftEye,
	5:  RightEye,
	7:  LeftEar,
	8:  RightEar,
	9:  LeftMouth,
	10: RightMouth,
	11: LeftShoulder,
	12: RightShoulder,
	13: LeftElbow,
	14: RightElbow,
	15: LeftWrist,
	16: RightWrist,
	17: LeftPinky,
	18: RightPinky,
	19: LeftIndex,
	20: RightIndex,
	21: LeftThumb,
	22: RightThumb,
	23: LeftHip,
	24: RightHip,
	25: LeftKnee,
	26: RightKnee,
	27: LeftAnkle,
	28: RightAnkle,
	29: LeftHeel,
	30: RightHeel,
	31: LeftFootIndex,
	32: RightFootIndex,
}

// FromLandmarks converts a detector landmark list into a Frame. Unknown
// indices are skipped. The frame confidence is the lowest keypoint
// visibility, or 0 when nothing mapped.
func FromLandmarks(marks []Landmark, timestamp int64) Frame {
	f := Frame{Timestamp: timestamp}
	for _, m := range marks {
		t, ok := landmarkTypes[m.Index]
		if !ok {
			continue
		}
		f.Keypoints = append(f.Keypoints, Keypoint{
			Position:   geometry.Point3D{X: m.X, Y: m.Y, Z: m.Z},
			Confidence: m.Visibility,
			Type:       t,
		})
	}
	for i, kp := range f.Keypoints {
		if i == 0 || kp.Confidence < f.Confidence {
			f.Confidence = kp.Confidence
		}
	}
	return f
}
