package sprint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric Metric
		value  float64
		want   Feedback
	}{
		{KneeAngle, 0, TooLow},
		{KneeAngle, 100, TooLow},
		{KneeAngle, 109.99, TooLow},
		{KneeAngle, 110, Good},
		{KneeAngle, 117.99, Good},
		{KneeAngle, 118, Optimal},
		{KneeAngle, 120, Optimal},
		{KneeAngle, 122, Optimal},
		{KneeAngle, 122.01, Good},
		{KneeAngle, 125, Good},
		{KneeAngle, 130, Good},
		{KneeAngle, 130.01, TooHigh},
		{KneeAngle, 140, TooHigh},

		{HipVelocity, 0, TooLow},
		{HipVelocity, 1.5, TooLow},
		{HipVelocity, 2.0, Good},
		{HipVelocity, 2.5, Good},
		{HipVelocity, 3.49, Good},
		{HipVelocity, 3.5, Optimal},
		{HipVelocity, 100, Optimal},

		{ArmSymmetry, 0, Optimal},
		{ArmSymmetry, 3, Optimal},
		{ArmSymmetry, 5, Optimal},
		{ArmSymmetry, 8, Good},
		{ArmSymmetry, 10, Good},
		{ArmSymmetry, 12, Acceptable},
		{ArmSymmetry, 15, Acceptable},
		{ArmSymmetry, 15.01, TooHigh},
		{ArmSymmetry, 20, TooHigh},
		{ArmSymmetry, SymmetryUnmeasurable, TooHigh},
	}

	for _, tt := range tests {
		got := FeedbackFor(tt.metric, tt.value)
		assert.Equal(t, tt.want, got, "%s=%v", tt.metric, tt.value)
	}

	assert.Equal(t, Acceptable, FeedbackFor(Metric("cadence"), 1))
}

func TestMetrics_FeedbackMethods(t *testing.T) {
	t.Parallel()

	m := Metrics{KneeAngle: 120, HipVelocity: 3.0, ArmSymmetry: 5, OverallScore: 85, Timestamp: 123456789}
	assert.Equal(t, Optimal, m.KneeAngleFeedback())
	assert.Equal(t, Good, m.HipVelocityFeedback())
	assert.Equal(t, Optimal, m.ArmSymmetryFeedback())

	assert.Equal(t, Assessment{KneeAngle: Optimal, HipVelocity: Good, ArmSymmetry: Optimal}, m.Assess())
}

func TestThresholdConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 110.0, KneeAngleMin)
	assert.Equal(t, 130.0, KneeAngleMax)
	assert.Equal(t, 120.0, KneeAngleOptimal)
	assert.Equal(t, 118.0, KneeAngleOptimalLow)
	assert.Equal(t, 122.0, KneeAngleOptimalHigh)
	assert.Equal(t, 2.0, HipVelocityMin)
	assert.Equal(t, 3.5, HipVelocityTarget)
	assert.Equal(t, 5.0, ArmSymmetryExcellent)
	assert.Equal(t, 10.0, ArmSymmetryGood)
	assert.Equal(t, 15.0, ArmSymmetryAcceptable)

	assert.Greater(t, float64(SymmetryUnmeasurable), ArmSymmetryAcceptable*1000)
	assert.True(t, IsUnmeasurable(SymmetryUnmeasurable))
	assert.False(t, IsUnmeasurable(179.9))
}

func TestFeedback_Text(t *testing.T) {
	t.Parallel()

	a := Assessment{KneeAngle: TooLow, HipVelocity: Optimal, ArmSymmetry: Acceptable}
	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"knee_angle":"TOO_LOW","hip_velocity":"OPTIMAL","arm_symmetry":"ACCEPTABLE"}`, string(out))

	var back Assessment
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, a, back)

	assert.Error(t, json.Unmarshal([]byte(`{"knee_angle":"MEH"}`), &back))
	assert.Equal(t, "Feedback(9)", Feedback(9).String())
	assert.Equal(t, 2, Assessment{KneeAngle: TooHigh, HipVelocity: TooLow, ArmSymmetry: Good}.OutOfRange())
}
