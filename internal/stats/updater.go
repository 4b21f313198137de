package stats

import (
	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// Speed below which a point is considered stationary (m/s). GPS
// jitter on a resting receiver reports up to roughly this much.
const DefaultMovingSpeedThreshold = 0.5

// Updater folds an ordered stream of track points into a live
// TrackStatistics instance. Distance between consecutive points is
// computed by an external collaborator and passed in; the updater
// owns every other per-sample derivation (time advance, moving time,
// altitude gain/loss, slope, max speed, average heart rate).
type Updater struct {
	stats *TrackStatistics
	last  *models.TrackPoint

	movingSpeedThreshold float64

	// Running instantaneous max; TrackStatistics.MaxSpeed folds in
	// the average moving speed on read, so the raw value lives here.
	maxSpeed float64

	// Duration-weighted running heart rate mean.
	hrWeightedSum float64
	hrWeight      float64
}

// NewUpdater returns an updater feeding the given accumulator.
func NewUpdater(stats *TrackStatistics) *Updater {
	return &Updater{
		stats:                stats,
		movingSpeedThreshold: DefaultMovingSpeedThreshold,
	}
}

// Statistics returns the accumulator being fed.
func (u *Updater) Statistics() *TrackStatistics {
	return u.stats
}

// Process folds one point into the statistics. distanceFromPrev is
// the externally computed distance in meters from the previously
// processed point; it is ignored for the first point. Points must
// arrive in non-decreasing time order.
func (u *Updater) Process(p *models.TrackPoint, distanceFromPrev float64) {
	if !u.stats.IsInitialized() {
		u.stats.SetStartTime(p.Time)
	} else {
		u.stats.SetStopTime(p.Time)
	}
	u.stats.SetTotalTime(p.Time.Sub(u.stats.StartTime()))

	if u.last != nil {
		u.stats.AddTotalDistance(distanceFromPrev)

		moving := p.HasSpeed() && *p.Speed >= u.movingSpeedThreshold
		if moving {
			u.stats.AddMovingTimeBetween(p, u.last)
		}
		u.stats.SetIdle(!moving)

		if p.HasAltitude() && u.last.HasAltitude() {
			delta := *p.Altitude - *u.last.Altitude
			if delta > 0 {
				u.stats.AddTotalAltitudeGain(delta)
			} else if delta < 0 {
				u.stats.AddTotalAltitudeLoss(-delta)
			}
			if distanceFromPrev > 0 {
				slope := delta / distanceFromPrev * 100
				u.stats.SetSlopePercent(&slope)
			}
		}

		if p.HasHeartRate() {
			dt := p.Time.Sub(u.last.Time).Seconds()
			if dt > 0 {
				u.hrWeightedSum += *p.HeartRate * dt
				u.hrWeight += dt
				avg := u.hrWeightedSum / u.hrWeight
				u.stats.SetAverageHeartRate(&avg)
			}
		}
	} else if p.HasHeartRate() {
		u.stats.SetAverageHeartRate(p.HeartRate)
	}

	u.stats.UpdateAltitudeExtremities(p.Altitude)

	if p.HasSpeed() && *p.Speed > u.maxSpeed {
		u.maxSpeed = *p.Speed
		u.stats.SetMaxSpeed(u.maxSpeed)
	}

	u.last = p
}
