package biomech

import (
	"math"
	"sync"
	"testing"

	"github.com/banshee-data/sprint.report/internal/geometry"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/sprint"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kp(x, y, conf float64, t pose.KeypointType) pose.Keypoint {
	return pose.Keypoint{Position: geometry.Point3D{X: x, Y: y}, Confidence: conf, Type: t}
}

// standingFrame is a front-facing skeleton with straight, mirrored limbs.
func standingFrame(ts int64) pose.Frame {
	return pose.Frame{
		Keypoints: []pose.Keypoint{
			kp(100, 50, 0.9, pose.Nose),
			kp(80, 80, 0.8, pose.LeftShoulder),
			kp(120, 80, 0.8, pose.RightShoulder),
			kp(70, 120, 0.7, pose.LeftElbow),
			kp(130, 120, 0.7, pose.RightElbow),
			kp(60, 160, 0.6, pose.LeftWrist),
			kp(140, 160, 0.6, pose.RightWrist),
			kp(85, 200, 0.8, pose.LeftHip),
			kp(115, 200, 0.8, pose.RightHip),
			kp(80, 280, 0.7, pose.LeftKnee),
			kp(120, 280, 0.7, pose.RightKnee),
			kp(75, 360, 0.6, pose.LeftAnkle),
			kp(125, 360, 0.6, pose.RightAnkle),
		},
		Confidence: 0.8,
		Timestamp:  ts,
	}
}

// legAt returns hip, knee, ankle keypoints of one side with the given knee
// angle, knee placed at (x, 100).
func legAt(x, degrees float64, hip, knee, ankle pose.KeypointType) []pose.Keypoint {
	rad := degrees * math.Pi / 180
	return []pose.Keypoint{
		kp(x, 90, 0.9, hip),
		kp(x, 100, 0.9, knee),
		kp(x+10*math.Sin(rad), 100-10*math.Cos(rad), 0.9, ankle),
	}
}

func TestAnalyze_WithoutPrevious(t *testing.T) {
	t.Parallel()
	e := NewEngine()

	m := e.Analyze(standingFrame(123456789), nil)

	assert.Greater(t, m.KneeAngle, 0.0)
	assert.Equal(t, 0.0, m.HipVelocity)
	assert.Equal(t, 0.0, m.ArmSymmetry, "mirrored arms")
	assert.InDelta(t, 20.0, m.OverallScore, 1e-9)
	assert.Equal(t, int64(123456789), m.Timestamp)
}

func TestAnalyze_TimestampIsCaptureTime(t *testing.T) {
	t.Parallel()
	var e Engine

	prev := standingFrame(1000)
	m := e.Analyze(standingFrame(2500), &prev)
	assert.Equal(t, int64(2500), m.Timestamp)
}

func TestAnalyze_StraightLegs(t *testing.T) {
	t.Parallel()

	m := NewEngine().Analyze(standingFrame(1), nil)
	assert.InDelta(t, 180.0, m.KneeAngle, 1e-5)
	assert.Equal(t, sprint.TooHigh, m.KneeAngleFeedback())
}

func TestKneeAngle(t *testing.T) {
	t.Parallel()

	left := legAt(0, 110, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle)
	right := legAt(50, 130, pose.RightHip, pose.RightKnee, pose.RightAnkle)

	both := pose.Frame{Keypoints: append(append([]pose.Keypoint{}, left...), right...)}
	assert.InDelta(t, 120.0, KneeAngle(both), 1e-9, "average of both sides")

	onlyLeft := pose.Frame{Keypoints: left}
	assert.InDelta(t, 110.0, KneeAngle(onlyLeft), 1e-9)

	onlyRight := pose.Frame{Keypoints: right}
	assert.InDelta(t, 130.0, KneeAngle(onlyRight), 1e-9)

	// a side missing its ankle does not contribute
	partial := pose.Frame{Keypoints: append(append([]pose.Keypoint{}, left...), right[:2]...)}
	assert.InDelta(t, 110.0, KneeAngle(partial), 1e-9)

	assert.Equal(t, 0.0, KneeAngle(pose.Frame{}))
}

func TestHipVelocity_NoPrevious(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, HipVelocity(standingFrame(1000), nil))
}

func TestHipVelocity_MovedHips(t *testing.T) {
	t.Parallel()

	prev := standingFrame(123456789)
	cur := pose.Frame{
		Keypoints: []pose.Keypoint{
			kp(100, 50, 0.9, pose.Nose),
			kp(95, 200, 0.8, pose.LeftHip),
			kp(125, 200, 0.8, pose.RightHip),
		},
		Confidence: 0.8,
		Timestamp:  123456889,
	}

	assert.InDelta(t, 100.0, HipVelocity(cur, &prev), 1e-9)
	assert.Equal(t, HipVelocity(cur, &prev), HipVelocity(cur, &prev))
}

func TestHipVelocity_IdenticalHips(t *testing.T) {
	t.Parallel()

	for _, dt := range []int64{1, 33, 100, 5000} {
		prev := standingFrame(10_000)
		cur := standingFrame(10_000 + dt)
		assert.Equal(t, 0.0, HipVelocity(cur, &prev), "dt=%d", dt)
	}
}

func TestHipVelocity_NonPositiveDelta(t *testing.T) {
	t.Parallel()

	prev := standingFrame(2000)
	cur := pose.Frame{Keypoints: []pose.Keypoint{kp(500, 200, 1, pose.LeftHip)}, Timestamp: 2000}
	assert.Equal(t, 0.0, HipVelocity(cur, &prev), "equal timestamps")

	cur.Timestamp = 1900
	v := HipVelocity(cur, &prev)
	assert.Equal(t, 0.0, v, "current before previous")
	assert.False(t, math.IsInf(v, 0))
}

func TestHipVelocity_SingleHipFallback(t *testing.T) {
	t.Parallel()

	prev := pose.Frame{Keypoints: []pose.Keypoint{kp(0, 0, 1, pose.LeftHip)}, Timestamp: 0}
	cur := pose.Frame{Keypoints: []pose.Keypoint{kp(3, 4, 1, pose.RightHip)}, Timestamp: 500}
	assert.InDelta(t, 10.0, HipVelocity(cur, &prev), 1e-12)

	noHips := pose.Frame{Keypoints: []pose.Keypoint{kp(0, 0, 1, pose.Nose)}, Timestamp: 1000}
	assert.Equal(t, 0.0, HipVelocity(noHips, &prev))
	assert.Equal(t, 0.0, HipVelocity(cur, &noHips))
}

func TestArmSymmetry(t *testing.T) {
	t.Parallel()

	symmetric := pose.Frame{Keypoints: []pose.Keypoint{
		kp(80, 80, 0.8, pose.LeftShoulder),
		kp(120, 80, 0.8, pose.RightShoulder),
		kp(70, 120, 0.7, pose.LeftElbow),
		kp(130, 120, 0.7, pose.RightElbow),
		kp(60, 160, 0.6, pose.LeftWrist),
		kp(140, 160, 0.6, pose.RightWrist),
	}}
	assert.Less(t, ArmSymmetry(symmetric), 10.0)

	asymmetric := pose.Frame{Keypoints: []pose.Keypoint{
		kp(80, 80, 0.8, pose.LeftShoulder),
		kp(120, 80, 0.8, pose.RightShoulder),
		kp(70, 120, 0.7, pose.LeftElbow),
		kp(150, 100, 0.7, pose.RightElbow),
		kp(60, 160, 0.6, pose.LeftWrist),
		kp(180, 80, 0.6, pose.RightWrist),
	}}
	assert.Greater(t, ArmSymmetry(asymmetric), 20.0)
	assert.Less(t, ArmSymmetry(asymmetric), 180.0)
}

func TestArmSymmetry_IncompleteArm(t *testing.T) {
	t.Parallel()

	f := standingFrame(1)
	// drop the right wrist
	var kps []pose.Keypoint
	for _, k := range f.Keypoints {
		if k.Type != pose.RightWrist {
			kps = append(kps, k)
		}
	}
	f.Keypoints = kps

	got := ArmSymmetry(f)
	assert.Equal(t, float64(sprint.SymmetryUnmeasurable), got)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, sprint.TooHigh, sprint.FeedbackFor(sprint.ArmSymmetry, got))
}

func TestAnalyze_HeadAndShouldersOnly(t *testing.T) {
	t.Parallel()

	f := pose.Frame{
		Keypoints: []pose.Keypoint{
			kp(100, 50, 0.9, pose.Nose),
			kp(80, 80, 0.8, pose.LeftShoulder),
			kp(120, 80, 0.8, pose.RightShoulder),
		},
		Confidence: 0.8,
		Timestamp:  42,
	}

	want := sprint.Metrics{
		KneeAngle:    0,
		HipVelocity:  0,
		ArmSymmetry:  sprint.SymmetryUnmeasurable,
		OverallScore: 0,
		Timestamp:    42,
	}
	got := NewEngine().Analyze(f, nil)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Analyze() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_MovingSprinter(t *testing.T) {
	t.Parallel()

	frame := func(ts int64, shift float64) pose.Frame {
		kps := append(
			legAt(0+shift, 120, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle),
			legAt(20+shift, 120, pose.RightHip, pose.RightKnee, pose.RightAnkle)...,
		)
		kps = append(kps,
			kp(0+shift, 40, 0.9, pose.LeftShoulder),
			kp(0+shift, 55, 0.9, pose.LeftElbow),
			kp(10+shift, 55, 0.9, pose.LeftWrist),
			kp(20+shift, 40, 0.9, pose.RightShoulder),
			kp(20+shift, 55, 0.9, pose.RightElbow),
			kp(30+shift, 55, 0.9, pose.RightWrist),
		)
		return pose.Frame{Keypoints: kps, Confidence: 0.9, Timestamp: ts}
	}

	prev := frame(0, 0)
	cur := frame(200, 1) // 1 unit in 200ms = 5 units/s
	m := NewEngine().Analyze(cur, &prev)

	assert.InDelta(t, 120.0, m.KneeAngle, 1e-9)
	assert.InDelta(t, 5.0, m.HipVelocity, 1e-9)
	assert.InDelta(t, 0.0, m.ArmSymmetry, 1e-9)
	assert.InDelta(t, 100.0, m.OverallScore, 1e-9)
	assert.Equal(t, sprint.Assessment{KneeAngle: sprint.Optimal, HipVelocity: sprint.Optimal, ArmSymmetry: sprint.Optimal}, m.Assess())
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	prev := standingFrame(100)
	cur := standingFrame(133)
	cur.Keypoints[7].Position.X += 3.3

	e := NewEngine()
	first := e.Analyze(cur, &prev)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, e.Analyze(cur, &prev))
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	prev := standingFrame(0)
	cur := standingFrame(100)
	cur.Keypoints[8].Position.X += 20
	want := e.Analyze(cur, &prev)

	var wg sync.WaitGroup
	results := make([]sprint.Metrics, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Analyze(cur, &prev)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
