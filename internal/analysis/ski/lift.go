package ski

import (
	"github.com/alpinetrail/tracks-backend-go/internal/models"
	"github.com/alpinetrail/tracks-backend-go/internal/stats"
)

const (
	// Consecutive stagnant points near the run base before the
	// interval durations start counting as chairlift waiting.
	liftQueuePointThreshold = 3

	// How far above the track's minimum altitude still counts as
	// "near the lower base" (meters).
	baseAltitudeMargin = 15.0

	// Speed below which a point is treated as stagnant in a lift
	// queue (m/s).
	stagnantSpeedThreshold = stats.DefaultMovingSpeedThreshold
)

// LiftWaitMonitor is the state machine behind the chairlift waiting
// heuristic. It watches consecutive points; once enough stagnant
// points accumulate near the lower base of the track, inter-sample
// durations accrue into the accumulator's chairlift waiting time
// until movement resets the counter. The counter itself lives in the
// accumulator so that merging tracks also merges heuristic state.
type LiftWaitMonitor struct {
	stats *stats.TrackStatistics
	last  *models.TrackPoint
}

// NewLiftWaitMonitor returns a monitor feeding the given accumulator.
func NewLiftWaitMonitor(s *stats.TrackStatistics) *LiftWaitMonitor {
	return &LiftWaitMonitor{stats: s}
}

// Observe feeds one point through the state machine. Points must
// arrive in time order.
func (m *LiftWaitMonitor) Observe(p *models.TrackPoint) {
	defer func() { m.last = p }()

	if m.last == nil {
		return
	}

	if m.stagnantNearBase(p) {
		m.stats.IncrementEndOfRunCounter()
		if m.stats.EndOfRunCounter() >= liftQueuePointThreshold {
			m.stats.AddChairliftWaitingTime(p.Time.Sub(m.last.Time))
		}
		return
	}

	m.stats.ResetEndOfRunCounter()
}

func (m *LiftWaitMonitor) stagnantNearBase(p *models.TrackPoint) bool {
	if !p.HasSpeed() || *p.Speed >= stagnantSpeedThreshold {
		return false
	}
	// Without altitude data the base check cannot reject the point.
	if !p.HasAltitude() || !m.stats.HasAltitudeMin() {
		return true
	}
	return *p.Altitude <= m.stats.MinAltitude()+baseAltitudeMargin
}
