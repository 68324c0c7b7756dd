package session

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/sprint.report/internal/sprint"
)

// Summary aggregates a run of metrics.
type Summary struct {
	Frames          int            `json:"frames"`
	MeanScore       float64        `json:"mean_score"`
	StdDevScore     float64        `json:"stddev_score"`
	MinScore        float64        `json:"min_score"`
	MaxScore        float64        `json:"max_score"`
	MeanKneeAngle   float64        `json:"mean_knee_angle"`
	MeanHipVelocity float64        `json:"mean_hip_velocity"`
	MeanArmSymmetry float64        `json:"mean_arm_symmetry"`
	Measurable      float64        `json:"symmetry_measurable_ratio"`
	Best            sprint.Metrics `json:"best"`
}

// Summarize computes score statistics over ms. Arm symmetry is averaged over
// measurable frames only; with none, MeanArmSymmetry is the unmeasurable
// sentinel.
func Summarize(ms []sprint.Metrics) Summary {
	n := len(ms)
	if n == 0 {
		return Summary{}
	}

	scores := make([]float64, n)
	knees := make([]float64, n)
	velocities := make([]float64, n)
	var symmetries []float64
	best := 0
	for i, m := range ms {
		scores[i] = m.OverallScore
		knees[i] = m.KneeAngle
		velocities[i] = m.HipVelocity
		if !sprint.IsUnmeasurable(m.ArmSymmetry) {
			symmetries = append(symmetries, m.ArmSymmetry)
		}
		if m.OverallScore > ms[best].OverallScore {
			best = i
		}
	}

	s := Summary{
		Frames:          n,
		MinScore:        floats.Min(scores),
		MaxScore:        floats.Max(scores),
		MeanKneeAngle:   stat.Mean(knees, nil),
		MeanHipVelocity: stat.Mean(velocities, nil),
		MeanArmSymmetry: sprint.SymmetryUnmeasurable,
		Measurable:      float64(len(symmetries)) / float64(n),
		Best:            ms[best],
	}
	if n > 1 {
		s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	} else {
		s.MeanScore = scores[0]
	}
	if len(symmetries) > 0 {
		s.MeanArmSymmetry = stat.Mean(symmetries, nil)
	}
	return s
}

// MetricsOf extracts the metrics from a run of analyses.
func MetricsOf(as []sprint.Analysis) []sprint.Metrics {
	out := make([]sprint.Metrics, len(as))
	for i, a := range as {
		out[i] = a.Metrics
	}
	return out
}
