// Package testutil provides shared test helpers and pose fixtures for the
// session, storage and HTTP packages.
package testutil

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/banshee-data/sprint.report/internal/geometry"
	"github.com/banshee-data/sprint.report/internal/pose"
)

// FrameInterval is the capture spacing used by SprintSequence, in ms.
const FrameInterval = 100

// SprintStride is how far the hips move between SprintSequence frames. At
// FrameInterval it gives a hip velocity of exactly the 3.5 units/s target.
const SprintStride = 0.4

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// NewJSONRequest builds a test request with body encoded as JSON.
func NewJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeBody decodes a recorder's JSON body into v.
func DecodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
}

func kp(x, y, conf float64, t pose.KeypointType) pose.Keypoint {
	return pose.Keypoint{Position: geometry.Point3D{X: x, Y: y}, Confidence: conf, Type: t}
}

// SprintFrame is a side-on sprinter with both knees at 120 degrees, mirrored
// arms and the hip centre at (hipX, 90).
func SprintFrame(ts int64, hipX float64) pose.Frame {
	ankleDX := 10 * math.Sin(120*math.Pi/180)
	ankleY := 100 - 10*math.Cos(120*math.Pi/180)

	return pose.Frame{
		Keypoints: []pose.Keypoint{
			kp(hipX, 40, 0.95, pose.Nose),
			kp(hipX-10, 60, 0.9, pose.LeftShoulder),
			kp(hipX+10, 60, 0.9, pose.RightShoulder),
			kp(hipX-15, 75, 0.9, pose.LeftElbow),
			kp(hipX+15, 75, 0.9, pose.RightElbow),
			kp(hipX-20, 90, 0.9, pose.LeftWrist),
			kp(hipX+20, 90, 0.9, pose.RightWrist),
			kp(hipX-5, 90, 0.9, pose.LeftHip),
			kp(hipX+5, 90, 0.9, pose.RightHip),
			kp(hipX-5, 100, 0.9, pose.LeftKnee),
			kp(hipX+5, 100, 0.9, pose.RightKnee),
			kp(hipX-5+ankleDX, ankleY, 0.9, pose.LeftAnkle),
			kp(hipX+5+ankleDX, ankleY, 0.9, pose.RightAnkle),
		},
		Confidence: 0.9,
		Timestamp:  ts,
	}
}

// SprintSequence returns n SprintFrames starting at ts0, FrameInterval apart,
// with the hips advancing SprintStride per frame.
func SprintSequence(ts0 int64, n int) []pose.Frame {
	frames := make([]pose.Frame, n)
	for i := range frames {
		frames[i] = SprintFrame(ts0+int64(i*FrameInterval), 100+float64(i)*SprintStride)
	}
	return frames
}

// LowConfidenceFrame is a SprintFrame the detector was unsure about.
func LowConfidenceFrame(ts int64) pose.Frame {
	f := SprintFrame(ts, 100)
	f.Confidence = 0.2
	return f
}
