package kinematics

import "math"

// Metric measures how far apart two servo solutions are.
type Metric interface {
	Distance(from, to ServoAngles) float64
}

type flexibleMetric struct {
	f func(from, to ServoAngles) float64
}

func (m *flexibleMetric) Distance(from, to ServoAngles) float64 {
	return m.f(from, to)
}

// NewMaxJumpMetric returns the largest single-leg angle change among legs valid in both
// solutions. It is what a servo driver cares about between consecutive ticks.
func NewMaxJumpMetric() Metric {
	return &flexibleMetric{func(from, to ServoAngles) float64 {
		jump := 0.
		for _, d := range angleDeltas(from, to) {
			jump = math.Max(jump, math.Abs(d))
		}
		return jump
	}}
}

func angleDeltas(from, to ServoAngles) []float64 {
	deltas := make([]float64, 0, len(from))
	for i := range from {
		if from[i].Valid() && to[i].Valid() {
			deltas = append(deltas, to[i].Angle-from[i].Angle)
		}
	}
	return deltas
}
