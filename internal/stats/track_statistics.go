package stats

import (
	"fmt"
	"time"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// TrackStatistics is the mergeable aggregate accumulator for one
// track (or one slice of a track). It is filled incrementally as
// time-ordered points arrive and can be combined with another
// instance covering a disjoint time window via Merge.
//
// Not safe for concurrent mutation; callers synchronize externally.
type TrackStatistics struct {
	// Min and max altitude (meters) seen on this track.
	altitudeExtremities *ExtremityMonitor

	// Zero time means "not set yet".
	startTime time.Time
	stopTime  time.Time

	totalDistance float64 // meters
	// Updated when new points are received, may be stale.
	totalTime time.Duration
	// Based on when we believe the user is traveling.
	movingTime time.Duration
	// The maximum instantaneous speed (m/s) that we believe is valid.
	maxSpeed float64

	totalAltitudeGain *float64 // meters, nil until first contribution
	totalAltitudeLoss *float64 // meters, nil until first contribution

	// The average heart rate (BPM) seen on this track, nil until set.
	avgHeartRate *float64

	isIdle bool

	// Slope % between the latest point and the previous point.
	slopePercent *float64

	// Total time spent waiting for a chairlift.
	chairliftWaitingTime time.Duration
	// Consecutive stagnant points near the run base; once the lift
	// monitor's threshold is reached, parsed time accrues as waiting
	// time until the counter is reset again.
	endOfRunCounter int
}

// NewTrackStatistics returns an empty accumulator.
func NewTrackStatistics() *TrackStatistics {
	s := &TrackStatistics{altitudeExtremities: NewExtremityMonitor()}
	s.Reset()
	return s
}

// Copy returns an independent copy of the accumulator.
func (s *TrackStatistics) Copy() *TrackStatistics {
	c := NewTrackStatistics()
	c.startTime = s.startTime
	c.stopTime = s.stopTime
	c.totalDistance = s.totalDistance
	c.totalTime = s.totalTime
	c.movingTime = s.movingTime
	c.maxSpeed = s.maxSpeed
	c.altitudeExtremities.Set(s.altitudeExtremities.Min(), s.altitudeExtremities.Max())
	c.totalAltitudeGain = copyOpt(s.totalAltitudeGain)
	c.totalAltitudeLoss = copyOpt(s.totalAltitudeLoss)
	c.avgHeartRate = copyOpt(s.avgHeartRate)
	c.isIdle = s.isIdle
	c.slopePercent = copyOpt(s.slopePercent)
	c.chairliftWaitingTime = s.chairliftWaitingTime
	c.endOfRunCounter = s.endOfRunCounter
	return c
}

// Reset clears all fields back to the empty state.
func (s *TrackStatistics) Reset() {
	s.startTime = time.Time{}
	s.stopTime = time.Time{}

	s.totalDistance = 0
	s.totalTime = 0
	s.movingTime = 0
	s.maxSpeed = 0
	s.altitudeExtremities.Reset()
	s.totalAltitudeGain = nil
	s.totalAltitudeLoss = nil
	s.avgHeartRate = nil
	s.slopePercent = nil

	s.chairliftWaitingTime = 0
	s.endOfRunCounter = 0

	s.isIdle = false
}

// ResetAt clears the accumulator and seeds start and stop time.
func (s *TrackStatistics) ResetAt(startTime time.Time) {
	s.Reset()
	s.SetStartTime(startTime)
}

// IsInitialized reports whether a start time has been set.
func (s *TrackStatistics) IsInitialized() bool {
	return !s.startTime.IsZero()
}

// StartTime returns the track start time (zero when unset).
func (s *TrackStatistics) StartTime() time.Time {
	return s.startTime
}

// SetStartTime sets the start time and forces the stop time to the
// same instant. Should only be called on start.
func (s *TrackStatistics) SetStartTime(t time.Time) {
	s.startTime = t
	s.SetStopTime(t)
}

// StopTime returns the track stop time (zero when unset).
func (s *TrackStatistics) StopTime() time.Time {
	return s.stopTime
}

// SetStopTime advances the stop time. Time must be monotonically
// increasing, but events at the same instant are tolerated (BLE and
// GPS sensors may report simultaneously). A stop time before the
// start time is an upstream ordering violation and panics.
func (s *TrackStatistics) SetStopTime(t time.Time) {
	if t.Before(s.startTime) {
		panic(fmt.Sprintf("stopTime cannot be less than startTime: %v %v", s.startTime, t))
	}
	s.stopTime = t
}

// TotalDistance returns the accumulated distance in meters.
func (s *TrackStatistics) TotalDistance() float64 {
	return s.totalDistance
}

// SetTotalDistance overwrites the accumulated distance.
func (s *TrackStatistics) SetTotalDistance(meters float64) {
	s.totalDistance = meters
}

// AddTotalDistance adds meters to the accumulated distance.
func (s *TrackStatistics) AddTotalDistance(meters float64) {
	s.totalDistance += meters
}

// TotalTime returns the total time the track has been active. It is
// only advanced when a new point is added, so it may lag behind the
// wall clock.
func (s *TrackStatistics) TotalTime() time.Duration {
	return s.totalTime
}

// SetTotalTime overwrites the total time.
func (s *TrackStatistics) SetTotalTime(d time.Duration) {
	s.totalTime = d
}

// MovingTime returns the portion of total time spent in motion.
func (s *TrackStatistics) MovingTime() time.Duration {
	return s.movingTime
}

// SetMovingTime overwrites the moving time.
func (s *TrackStatistics) SetMovingTime(d time.Duration) {
	s.movingTime = d
}

// AddMovingTime adds a duration of believed motion. Negative
// durations indicate an upstream ordering violation and panic.
func (s *TrackStatistics) AddMovingTime(d time.Duration) {
	if d < 0 {
		panic("moving time cannot be negative")
	}
	s.movingTime += d
}

// AddMovingTimeBetween adds the time between two consecutive points.
func (s *TrackStatistics) AddMovingTimeBetween(current, previous *models.TrackPoint) {
	s.AddMovingTime(current.Time.Sub(previous.Time))
}

// StoppedTime returns total time minus moving time.
func (s *TrackStatistics) StoppedTime() time.Duration {
	return s.totalTime - s.movingTime
}

// IsIdle reports whether the recorder currently believes the user is idle.
func (s *TrackStatistics) IsIdle() bool {
	return s.isIdle
}

// SetIdle sets the idle flag.
func (s *TrackStatistics) SetIdle(idle bool) {
	s.isIdle = idle
}

// HasAverageHeartRate reports whether any sample supplied heart rate.
func (s *TrackStatistics) HasAverageHeartRate() bool {
	return s.avgHeartRate != nil
}

// AverageHeartRate returns the average heart rate in BPM, nil when no
// sample ever supplied one.
func (s *TrackStatistics) AverageHeartRate() *float64 {
	return s.avgHeartRate
}

// SetAverageHeartRate overwrites the average heart rate. A nil value
// is ignored; weighting across time windows happens only in Merge.
func (s *TrackStatistics) SetAverageHeartRate(bpm *float64) {
	if bpm != nil {
		s.avgHeartRate = copyOpt(bpm)
	}
}

// AverageSpeed returns total distance over total time in m/s. The
// result only accounts for displacement up to the last point folded
// into the statistics. Zero total time yields zero speed.
func (s *TrackStatistics) AverageSpeed() float64 {
	if s.totalTime == 0 {
		return 0
	}
	return s.totalDistance / s.totalTime.Seconds()
}

// AverageMovingSpeed returns total distance over moving time in m/s,
// zero when no moving time has accumulated.
func (s *TrackStatistics) AverageMovingSpeed() float64 {
	if s.movingTime == 0 {
		return 0
	}
	return s.totalDistance / s.movingTime.Seconds()
}

// MaxSpeed returns the greater of the recorded instantaneous maximum
// and the computed average moving speed. The recorded maximum can
// fall behind when the fastest sample was filtered out upstream but
// the implied average still exceeds it.
func (s *TrackStatistics) MaxSpeed() float64 {
	return Max([]float64{s.maxSpeed, s.AverageMovingSpeed()})
}

// SetMaxSpeed overwrites the recorded instantaneous maximum speed.
func (s *TrackStatistics) SetMaxSpeed(mps float64) {
	s.maxSpeed = mps
}

// HasAltitudeMin reports whether a minimum altitude has been seen.
func (s *TrackStatistics) HasAltitudeMin() bool {
	return s.altitudeExtremities.HasData()
}

// MinAltitude returns the minimum altitude in meters (+Inf when no
// altitude data has been seen).
func (s *TrackStatistics) MinAltitude() float64 {
	return s.altitudeExtremities.Min()
}

// SetMinAltitude forcibly assigns the minimum altitude.
func (s *TrackStatistics) SetMinAltitude(meters float64) {
	s.altitudeExtremities.SetMin(meters)
}

// HasAltitudeMax reports whether a maximum altitude has been seen.
func (s *TrackStatistics) HasAltitudeMax() bool {
	return s.altitudeExtremities.HasData()
}

// MaxAltitude returns the maximum altitude in meters (-Inf when no
// altitude data has been seen). Computed from the smoothed altitude,
// so it can be less than the latest raw reading.
func (s *TrackStatistics) MaxAltitude() float64 {
	return s.altitudeExtremities.Max()
}

// SetMaxAltitude forcibly assigns the maximum altitude.
func (s *TrackStatistics) SetMaxAltitude(meters float64) {
	s.altitudeExtremities.SetMax(meters)
}

// UpdateAltitudeExtremities folds an altitude reading into the
// min/max monitor. A nil altitude is a no-op.
func (s *TrackStatistics) UpdateAltitudeExtremities(altitude *float64) {
	if altitude != nil {
		s.altitudeExtremities.Update(*altitude)
	}
}

// HasTotalAltitudeGain reports whether any sample contributed gain.
func (s *TrackStatistics) HasTotalAltitudeGain() bool {
	return s.totalAltitudeGain != nil
}

// TotalAltitudeGain returns accumulated altitude gain in meters, nil
// when no contributing sample supplied altitude.
func (s *TrackStatistics) TotalAltitudeGain() *float64 {
	return s.totalAltitudeGain
}

// SetTotalAltitudeGain overwrites the accumulated gain (nil clears it).
func (s *TrackStatistics) SetTotalAltitudeGain(meters *float64) {
	s.totalAltitudeGain = copyOpt(meters)
}

// AddTotalAltitudeGain lazily initializes the accumulator to zero on
// first call, then adds.
func (s *TrackStatistics) AddTotalAltitudeGain(meters float64) {
	if s.totalAltitudeGain == nil {
		s.totalAltitudeGain = new(float64)
	}
	*s.totalAltitudeGain += meters
}

// HasTotalAltitudeLoss reports whether any sample contributed loss.
func (s *TrackStatistics) HasTotalAltitudeLoss() bool {
	return s.totalAltitudeLoss != nil
}

// TotalAltitudeLoss returns accumulated altitude loss in meters, nil
// when no contributing sample supplied altitude.
func (s *TrackStatistics) TotalAltitudeLoss() *float64 {
	return s.totalAltitudeLoss
}

// SetTotalAltitudeLoss overwrites the accumulated loss (nil clears it).
func (s *TrackStatistics) SetTotalAltitudeLoss(meters *float64) {
	s.totalAltitudeLoss = copyOpt(meters)
}

// AddTotalAltitudeLoss lazily initializes the accumulator to zero on
// first call, then adds.
func (s *TrackStatistics) AddTotalAltitudeLoss(meters float64) {
	if s.totalAltitudeLoss == nil {
		s.totalAltitudeLoss = new(float64)
	}
	*s.totalAltitudeLoss += meters
}

// HasSlope reports whether a per-segment slope has been computed.
func (s *TrackStatistics) HasSlope() bool {
	return s.slopePercent != nil
}

// SlopePercent returns the slope percent between the latest point and
// the previous one, nil when not yet computed.
func (s *TrackStatistics) SlopePercent() *float64 {
	return s.slopePercent
}

// SetSlopePercent overwrites the per-segment slope (nil clears it).
func (s *TrackStatistics) SetSlopePercent(percent *float64) {
	s.slopePercent = copyOpt(percent)
}

// ChairliftWaitingTime returns the total time spent waiting for a
// chairlift, for display alongside the other aggregates.
func (s *TrackStatistics) ChairliftWaitingTime() time.Duration {
	return s.chairliftWaitingTime
}

// SetChairliftWaitingTime overwrites the accumulated waiting time.
func (s *TrackStatistics) SetChairliftWaitingTime(d time.Duration) {
	s.chairliftWaitingTime = d
}

// AddChairliftWaitingTime adds to the accumulated waiting time.
func (s *TrackStatistics) AddChairliftWaitingTime(d time.Duration) {
	s.chairliftWaitingTime += d
}

// EndOfRunCounter returns the stagnant-point counter driven by the
// lift wait heuristic.
func (s *TrackStatistics) EndOfRunCounter() int {
	return s.endOfRunCounter
}

// IncrementEndOfRunCounter bumps the stagnant-point counter.
func (s *TrackStatistics) IncrementEndOfRunCounter() {
	s.endOfRunCounter++
}

// ResetEndOfRunCounter clears the stagnant-point counter.
func (s *TrackStatistics) ResetEndOfRunCounter() {
	s.endOfRunCounter = 0
}

// Merge combines these statistics with those from another accumulator.
// The two must cover time periods that do not intersect; this is a
// caller contract and is not checked.
func (s *TrackStatistics) Merge(other *TrackStatistics) {
	if s.startTime.IsZero() {
		s.startTime = other.startTime
	} else if !other.startTime.IsZero() && other.startTime.Before(s.startTime) {
		s.startTime = other.startTime
	}
	if s.stopTime.IsZero() {
		s.stopTime = other.stopTime
	} else if !other.stopTime.IsZero() && other.stopTime.After(s.stopTime) {
		s.stopTime = other.stopTime
	}

	if s.avgHeartRate == nil {
		s.avgHeartRate = copyOpt(other.avgHeartRate)
	} else if other.avgHeartRate != nil {
		// Total times are the averaging weights, so this must happen
		// before total time is updated. With both windows empty the
		// weighted mean degrades to the plain mean of the two rates.
		merged := WeightedMean(
			[]float64{*s.avgHeartRate, *other.avgHeartRate},
			[]float64{s.totalTime.Seconds(), other.totalTime.Seconds()},
		)
		s.avgHeartRate = &merged
	}

	s.totalDistance += other.totalDistance
	s.totalTime += other.totalTime
	s.movingTime += other.movingTime
	s.maxSpeed = Max([]float64{s.maxSpeed, other.maxSpeed})
	if other.altitudeExtremities.HasData() {
		s.altitudeExtremities.Update(other.altitudeExtremities.Min())
		s.altitudeExtremities.Update(other.altitudeExtremities.Max())
	}
	if s.totalAltitudeGain == nil {
		s.totalAltitudeGain = copyOpt(other.totalAltitudeGain)
	} else if other.totalAltitudeGain != nil {
		*s.totalAltitudeGain += *other.totalAltitudeGain
	}
	if s.totalAltitudeLoss == nil {
		s.totalAltitudeLoss = copyOpt(other.totalAltitudeLoss)
	} else if other.totalAltitudeLoss != nil {
		*s.totalAltitudeLoss += *other.totalAltitudeLoss
	}

	s.chairliftWaitingTime += other.chairliftWaitingTime
	s.endOfRunCounter += other.endOfRunCounter
}

// Equal reports whether two accumulators render identically: equality
// is defined over the full descriptive string of every displayed
// field rather than field-by-field identity.
func (s *TrackStatistics) Equal(other *TrackStatistics) bool {
	if other == nil {
		return false
	}
	return s.String() == other.String()
}

func (s *TrackStatistics) String() string {
	return fmt.Sprintf("TrackStatistics { Start Time: %s; Stop Time: %s"+
		"; Total Distance: %g; Total Time: %s; Moving Time: %s; Max Speed: %g"+
		"; Min Altitude: %g; Max Altitude: %g; Altitude Gain: %s; Altitude Loss: %s"+
		"; Slope%%: %s }",
		fmtTime(s.startTime), fmtTime(s.stopTime),
		s.totalDistance, s.totalTime, s.movingTime, s.MaxSpeed(),
		s.MinAltitude(), s.MaxAltitude(),
		fmtOpt(s.totalAltitudeGain), fmtOpt(s.totalAltitudeLoss),
		fmtOpt(s.slopePercent))
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%g", *v)
}

func copyOpt(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
