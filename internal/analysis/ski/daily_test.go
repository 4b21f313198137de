package ski

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// buildRun appends a qualifying descent pair starting at the given
// time: drop meters of altitude over the given duration.
func buildRun(points []models.TrackPoint, start time.Time, topAltitude, drop float64, d time.Duration) []models.TrackPoint {
	points = append(points, pointAt(start, fp(topAltitude)))
	points = append(points, pointAt(start.Add(d), fp(topAltitude-drop)))
	return points
}

func TestDailyAggregator(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("sums qualifying pairs on the target date", func(t *testing.T) {
		var points []models.TrackPoint
		points = buildRun(points, day.Add(9*time.Hour), 2200, 150, 4*time.Minute)
		points = buildRun(points, day.Add(10*time.Hour), 2200, 120, 3*time.Minute)
		points = buildRun(points, day.Add(11*time.Hour), 2200, 180, 5*time.Minute)

		agg := NewDailyAggregator(points, time.UTC)

		got := agg.TotalSkiingDurationOn(day.Add(12 * time.Hour))
		// The lift rides back to the top climb more than 10 m over
		// more than 50 s, so those pairs qualify as well.
		want := 4*time.Minute + 56*time.Minute + 3*time.Minute +
			57*time.Minute + 5*time.Minute
		assert.Equal(t, want, got)
	})

	t.Run("three consecutive qualifying pairs sum exactly", func(t *testing.T) {
		start := day.Add(9 * time.Hour)
		points := []models.TrackPoint{
			pointAt(start, fp(2200)),
			pointAt(start.Add(4*time.Minute), fp(2050)),
			pointAt(start.Add(7*time.Minute), fp(1930)),
			pointAt(start.Add(12*time.Minute), fp(1750)),
		}

		agg := NewDailyAggregator(points, time.UTC)

		got := agg.TotalSkiingDurationOn(start)
		assert.Equal(t, 12*time.Minute, got)
	})

	t.Run("pair spanning midnight counts for the day it ends on", func(t *testing.T) {
		points := []models.TrackPoint{
			pointAt(day.Add(24*time.Hour-2*time.Minute), fp(2200)),
			pointAt(day.Add(24*time.Hour+2*time.Minute), fp(2180)),
		}

		agg := NewDailyAggregator(points, time.UTC)

		assert.Zero(t, agg.TotalSkiingDurationOn(day))
		assert.Equal(t, 4*time.Minute, agg.TotalSkiingDurationOn(day.Add(24*time.Hour)))
	})

	t.Run("result depends on the aggregator time zone", func(t *testing.T) {
		// 23:30 UTC on the 15th is already the 16th in UTC+2.
		points := []models.TrackPoint{
			pointAt(day.Add(23*time.Hour+28*time.Minute), fp(2200)),
			pointAt(day.Add(23*time.Hour+30*time.Minute), fp(2180)),
		}
		plusTwo := time.FixedZone("UTC+2", 2*3600)

		utcAgg := NewDailyAggregator(points, time.UTC)
		zoneAgg := NewDailyAggregator(points, plusTwo)

		assert.Equal(t, 2*time.Minute, utcAgg.TotalSkiingDurationOn(day))
		assert.Zero(t, zoneAgg.TotalSkiingDurationOn(day))
		assert.Equal(t, 2*time.Minute, zoneAgg.TotalSkiingDurationOn(day.Add(24*time.Hour)))
	})

	t.Run("no-argument query uses the injected clock", func(t *testing.T) {
		start := day.Add(9 * time.Hour)
		points := []models.TrackPoint{
			pointAt(start, fp(2200)),
			pointAt(start.Add(4*time.Minute), fp(2050)),
		}
		frozen := func() time.Time { return day.Add(15 * time.Hour) }

		agg := NewDailyAggregatorWithClock(points, time.UTC, frozen)

		assert.Equal(t, 4*time.Minute, agg.TotalSkiingDuration())

		nextDay := func() time.Time { return day.Add(39 * time.Hour) }
		agg = NewDailyAggregatorWithClock(points, time.UTC, nextDay)
		assert.Zero(t, agg.TotalSkiingDuration())
	})

	t.Run("empty buffer yields zero", func(t *testing.T) {
		agg := NewDailyAggregator(nil, time.UTC)
		assert.Zero(t, agg.TotalSkiingDurationOn(day))
	})
}

func TestRecentPoints(t *testing.T) {
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	points := []models.TrackPoint{
		pointAt(base, fp(2000)),
		pointAt(base.Add(10*time.Second), fp(2000)),
		pointAt(base.Add(25*time.Second), fp(2000)),
		pointAt(base.Add(40*time.Second), fp(2000)),
	}

	agg := NewDailyAggregator(points, time.UTC)

	t.Run("keeps only the trailing twenty seconds", func(t *testing.T) {
		ref := points[3] // t+40s
		recent := agg.RecentPoints(&ref)

		require.Len(t, recent, 2)
		assert.Equal(t, base.Add(25*time.Second), recent[0].Time)
		assert.Equal(t, base.Add(40*time.Second), recent[1].Time)
	})

	t.Run("points after the reference are excluded", func(t *testing.T) {
		ref := points[1] // t+10s
		recent := agg.RecentPoints(&ref)

		require.Len(t, recent, 2)
		assert.Equal(t, base, recent[0].Time)
		assert.Equal(t, base.Add(10*time.Second), recent[1].Time)
	})
}
