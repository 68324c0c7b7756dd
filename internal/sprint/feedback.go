package sprint

import "fmt"

// Feedback is the classification of a single metric value.
type Feedback int

const (
	Optimal Feedback = iota
	Good
	Acceptable
	TooLow
	TooHigh
)

var feedbackNames = [...]string{
	Optimal:    "OPTIMAL",
	Good:       "GOOD",
	Acceptable: "ACCEPTABLE",
	TooLow:     "TOO_LOW",
	TooHigh:    "TOO_HIGH",
}

func (f Feedback) String() string {
	if f < 0 || int(f) >= len(feedbackNames) {
		return fmt.Sprintf("Feedback(%d)", int(f))
	}
	return feedbackNames[f]
}

// OutOfRange reports whether the value fell outside the acceptable band.
func (f Feedback) OutOfRange() bool {
	return f == TooLow || f == TooHigh
}

func (f Feedback) MarshalText() ([]byte, error) {
	if f < 0 || int(f) >= len(feedbackNames) {
		return nil, fmt.Errorf("invalid feedback %d", int(f))
	}
	return []byte(feedbackNames[f]), nil
}

func (f *Feedback) UnmarshalText(text []byte) error {
	for i, n := range feedbackNames {
		if n == string(text) {
			*f = Feedback(i)
			return nil
		}
	}
	return fmt.Errorf("unknown feedback %q", text)
}

// Metric names one of the classified sprint metrics.
type Metric string

const (
	KneeAngle   Metric = "knee_angle"
	HipVelocity Metric = "hip_velocity"
	ArmSymmetry Metric = "arm_symmetry"
)

// FeedbackFor classifies value against the fixed thresholds of metric.
// Unknown metrics classify as Acceptable.
func FeedbackFor(metric Metric, value float64) Feedback {
	switch metric {
	case KneeAngle:
		switch {
		case value < KneeAngleMin:
			return TooLow
		case value > KneeAngleMax:
			return TooHigh
		case value >= KneeAngleOptimalLow && value <= KneeAngleOptimalHigh:
			return Optimal
		default:
			return Good
		}
	case HipVelocity:
		switch {
		case value < HipVelocityMin:
			return TooLow
		case value >= HipVelocityTarget:
			return Optimal
		default:
			return Good
		}
	case ArmSymmetry:
		switch {
		case value <= ArmSymmetryExcellent:
			return Optimal
		case value <= ArmSymmetryGood:
			return Good
		case value <= ArmSymmetryAcceptable:
			return Acceptable
		default:
			return TooHigh
		}
	}
	return Acceptable
}

// Assessment bundles the feedback for each metric of one Metrics record.
type Assessment struct {
	KneeAngle   Feedback `json:"knee_angle"`
	HipVelocity Feedback `json:"hip_velocity"`
	ArmSymmetry Feedback `json:"arm_symmetry"`
}

// OutOfRange counts the metrics classified TooLow or TooHigh.
func (a Assessment) OutOfRange() int {
	n := 0
	for _, f := range []Feedback{a.KneeAngle, a.HipVelocity, a.ArmSymmetry} {
		if f.OutOfRange() {
			n++
		}
	}
	return n
}
