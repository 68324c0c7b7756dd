// Package sprint defines the sprint-form metrics record, its fixed
// thresholds, and the classification of metric values into feedback levels.
package sprint

import "math"

// Knee angle thresholds (degrees).
const (
	KneeAngleMin         = 110.0
	KneeAngleMax         = 130.0
	KneeAngleOptimal     = 120.0
	KneeAngleOptimalLow  = 118.0
	KneeAngleOptimalHigh = 122.0
)

// Hip velocity thresholds (distance units per second).
const (
	HipVelocityMin    = 2.0
	HipVelocityTarget = 3.5
)

// Arm symmetry thresholds (degrees of deviation between arms).
const (
	ArmSymmetryExcellent  = 5.0
	ArmSymmetryGood       = 10.0
	ArmSymmetryAcceptable = 15.0
)

// SymmetryUnmeasurable is reported as ArmSymmetry when either arm is not
// fully visible. It is finite so it stays safe in arithmetic, and far above
// every symmetry threshold so it classifies as TooHigh and scores 0.
const SymmetryUnmeasurable = 1e9

// IsUnmeasurable reports whether an arm symmetry value is the sentinel rather
// than a measured deviation.
func IsUnmeasurable(symmetry float64) bool {
	return symmetry >= SymmetryUnmeasurable || math.IsNaN(symmetry)
}

// Metrics is the result of analyzing one frame (and optionally its
// predecessor). Timestamp is the capture time of the analyzed frame in unix
// milliseconds.
type Metrics struct {
	KneeAngle    float64 `json:"knee_angle"`
	HipVelocity  float64 `json:"hip_velocity"`
	ArmSymmetry  float64 `json:"arm_symmetry"`
	OverallScore float64 `json:"overall_score"`
	Timestamp    int64   `json:"timestamp"`
}

func (m Metrics) KneeAngleFeedback() Feedback   { return FeedbackFor(KneeAngle, m.KneeAngle) }
func (m Metrics) HipVelocityFeedback() Feedback { return FeedbackFor(HipVelocity, m.HipVelocity) }
func (m Metrics) ArmSymmetryFeedback() Feedback { return FeedbackFor(ArmSymmetry, m.ArmSymmetry) }

// Assess classifies all three metrics.
func (m Metrics) Assess() Assessment {
	return Assessment{
		KneeAngle:   m.KneeAngleFeedback(),
		HipVelocity: m.HipVelocityFeedback(),
		ArmSymmetry: m.ArmSymmetryFeedback(),
	}
}
