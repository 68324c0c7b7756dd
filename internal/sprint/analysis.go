package sprint

import (
	"fmt"
	"strings"
)

// Priority ranks how urgently an analysis needs attention.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = [...]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(priorityNames) {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(priorityNames[p]), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(name string) (Priority, error) {
	for i, n := range priorityNames {
		if strings.EqualFold(n, name) {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", name)
}

// Analysis wraps one Metrics record with its feedback and the advice derived
// from it.
type Analysis struct {
	Metrics         Metrics    `json:"metrics"`
	Feedback        Assessment `json:"feedback"`
	Recommendations []string   `json:"recommendations"`
	Priority        Priority   `json:"priority"`
}

// Recommender turns metrics and their feedback into advisory text and a
// priority. It is presentation policy and may be replaced by callers.
type Recommender interface {
	Recommend(m Metrics, a Assessment) ([]string, Priority)
}

// Analyze classifies m and applies r. A nil r uses DefaultRecommender.
func Analyze(m Metrics, r Recommender) Analysis {
	if r == nil {
		r = DefaultRecommender{}
	}
	a := m.Assess()
	recs, p := r.Recommend(m, a)
	if recs == nil {
		recs = []string{}
	}
	return Analysis{
		Metrics:         m,
		Feedback:        a,
		Recommendations: recs,
		Priority:        p,
	}
}
