package ski

import (
	"time"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// RecentWindow bounds the trailing slice of points considered for
// near-real-time duration updates.
const RecentWindow = 20 * time.Second

// DailyAggregator rolls qualifying segment durations up by calendar
// date over a buffered, time-ordered point sequence. Dates are
// evaluated in the aggregator's time zone, so the same buffer can
// yield different totals for observers in different zones.
type DailyAggregator struct {
	points []models.TrackPoint
	loc    *time.Location
	now    func() time.Time
}

// NewDailyAggregator returns an aggregator over the given points.
// A nil location falls back to the system's local zone.
func NewDailyAggregator(points []models.TrackPoint, loc *time.Location) *DailyAggregator {
	return NewDailyAggregatorWithClock(points, loc, time.Now)
}

// NewDailyAggregatorWithClock is the deterministic form: the clock is
// only consulted by the no-argument TotalSkiingDuration.
func NewDailyAggregatorWithClock(points []models.TrackPoint, loc *time.Location, now func() time.Time) *DailyAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &DailyAggregator{points: points, loc: loc, now: now}
}

// TotalSkiingDuration sums qualifying segment durations for "today",
// taken from the injected clock in the aggregator's zone. The result
// therefore depends on when and where it is asked.
func (a *DailyAggregator) TotalSkiingDuration() time.Duration {
	return a.TotalSkiingDurationOn(a.now().In(a.loc))
}

// TotalSkiingDurationOn sums qualifying segment durations for the
// calendar date of the given instant (evaluated in the aggregator's
// zone). A segment contributes in full when it classifies as skiing
// and its later endpoint falls on the target date; a segment spanning
// midnight is attributed to the day it ends on.
func (a *DailyAggregator) TotalSkiingDurationOn(date time.Time) time.Duration {
	var total time.Duration

	for i := 1; i < len(a.points); i++ {
		previous := &a.points[i-1]
		current := &a.points[i]

		if IsSkiingSegment(previous, current) && a.sameDate(current.Time, date) {
			total += current.Time.Sub(previous.Time)
		}
	}

	return total
}

// RecentPoints selects the points within the trailing RecentWindow
// ending at the reference point's time, bounding the working set for
// incremental duration updates.
func (a *DailyAggregator) RecentPoints(ref *models.TrackPoint) []models.TrackPoint {
	var recent []models.TrackPoint
	for i := range a.points {
		diff := ref.Time.Sub(a.points[i].Time)
		if diff >= 0 && diff <= RecentWindow {
			recent = append(recent, a.points[i])
		}
	}
	return recent
}

func (a *DailyAggregator) sameDate(instant, date time.Time) bool {
	y1, m1, d1 := instant.In(a.loc).Date()
	y2, m2, d2 := date.In(a.loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
