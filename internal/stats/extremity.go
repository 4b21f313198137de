package stats

import "math"

// ExtremityMonitor tracks the running minimum and maximum of a stream
// of float64 values. An empty monitor reports +Inf/-Inf bounds; use
// HasData to distinguish "no values seen yet" from real extremes.
// Values must not be NaN; callers filter invalid samples upstream.
type ExtremityMonitor struct {
	min float64
	max float64
}

// NewExtremityMonitor returns an empty monitor.
func NewExtremityMonitor() *ExtremityMonitor {
	m := &ExtremityMonitor{}
	m.Reset()
	return m
}

// Reset clears the monitor back to the no-data state.
func (m *ExtremityMonitor) Reset() {
	m.min = math.Inf(1)
	m.max = math.Inf(-1)
}

// Update folds a new value into the running bounds.
func (m *ExtremityMonitor) Update(value float64) {
	if value < m.min {
		m.min = value
	}
	if value > m.max {
		m.max = value
	}
}

// HasData reports whether any value has been seen.
func (m *ExtremityMonitor) HasData() bool {
	return !math.IsInf(m.min, 1) && !math.IsInf(m.max, -1)
}

// Min returns the smallest value seen, or +Inf when empty.
func (m *ExtremityMonitor) Min() float64 {
	return m.min
}

// Max returns the largest value seen, or -Inf when empty.
func (m *ExtremityMonitor) Max() float64 {
	return m.max
}

// SetMin forcibly assigns the lower bound.
func (m *ExtremityMonitor) SetMin(value float64) {
	m.min = value
}

// SetMax forcibly assigns the upper bound.
func (m *ExtremityMonitor) SetMax(value float64) {
	m.max = value
}

// Set forcibly assigns both bounds, used when copying monitor state.
func (m *ExtremityMonitor) Set(min, max float64) {
	m.min = min
	m.max = max
}
