package sprint

// Score bands used by DefaultRecommender to rank an analysis.
const (
	CriticalScoreBelow = 40.0
	MediumScoreBelow   = 80.0
)

// DefaultRecommender emits one hint per metric that is not optimal, in the
// order knee angle, hip velocity, arm symmetry.
type DefaultRecommender struct{}

func (DefaultRecommender) Recommend(m Metrics, a Assessment) ([]string, Priority) {
	var recs []string

	switch a.KneeAngle {
	case TooLow:
		recs = append(recs, "Knee is over-flexed: open the knee angle toward 120 degrees.")
	case TooHigh:
		recs = append(recs, "Leg is too straight: keep more knee flexion, aim for 118-122 degrees.")
	case Good:
		recs = append(recs, "Knee angle is close: fine-tune toward 118-122 degrees.")
	}

	switch a.HipVelocity {
	case TooLow:
		recs = append(recs, "Hip speed is low: drive from the hips and raise stride frequency.")
	case Good:
		recs = append(recs, "Hip speed is building: push on toward the target pace.")
	}

	switch {
	case IsUnmeasurable(m.ArmSymmetry):
		recs = append(recs, "Arms not fully visible: keep both shoulders, elbows and wrists in frame.")
	case a.ArmSymmetry == TooHigh:
		recs = append(recs, "Arm swing is uneven: match the elbow angle on both sides.")
	case a.ArmSymmetry == Acceptable:
		recs = append(recs, "Arm swing is slightly uneven: mirror the elbow angle between arms.")
	case a.ArmSymmetry == Good:
		recs = append(recs, "Arm swing is nearly symmetric: keep relaxed shoulders.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Form is on target: hold it.")
	}

	return recs, priorityFor(m, a)
}

func priorityFor(m Metrics, a Assessment) Priority {
	out := a.OutOfRange()
	switch {
	case m.OverallScore < CriticalScoreBelow || out >= 2:
		return PriorityCritical
	case out == 1:
		return PriorityHigh
	case m.OverallScore < MediumScoreBelow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
