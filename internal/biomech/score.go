package biomech

import (
	"math"

	"github.com/banshee-data/sprint.report/internal/sprint"
)

// OverallScore is the weighted sum of the three sub-scores. It is not
// clamped; with each sub-score in [0,100] it lands in [0,100].
func OverallScore(kneeAngle, hipVelocity, armSymmetry float64) float64 {
	return KneeScore(kneeAngle)*KneeWeight +
		VelocityScore(hipVelocity)*VelocityWeight +
		SymmetryScore(armSymmetry)*SymmetryWeight
}

// KneeScore: 100 in the optimal band, 80 in the acceptable band, then
// falling 2 points per degree away from the optimal angle.
func KneeScore(angle float64) float64 {
	switch {
	case angle >= sprint.KneeAngleOptimalLow && angle <= sprint.KneeAngleOptimalHigh:
		return 100
	case angle >= sprint.KneeAngleMin && angle <= sprint.KneeAngleMax:
		return 80
	default:
		return math.Max(0, 100-math.Abs(angle-sprint.KneeAngleOptimal)*2)
	}
}

// VelocityScore: 100 at or above target, a linear share of the target above
// the minimum, 0 below it.
func VelocityScore(velocity float64) float64 {
	switch {
	case velocity >= sprint.HipVelocityTarget:
		return 100
	case velocity >= sprint.HipVelocityMin:
		return velocity / sprint.HipVelocityTarget * 100
	default:
		return 0
	}
}

// SymmetryScore steps down through the symmetry bands and then loses 2
// points per degree beyond the acceptable limit.
func SymmetryScore(asymmetry float64) float64 {
	switch {
	case asymmetry <= sprint.ArmSymmetryExcellent:
		return 100
	case asymmetry <= sprint.ArmSymmetryGood:
		return 80
	case asymmetry <= sprint.ArmSymmetryAcceptable:
		return 60
	default:
		return math.Max(0, 60-(asymmetry-sprint.ArmSymmetryAcceptable)*2)
	}
}
