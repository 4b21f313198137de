package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alpinetrail/tracks-backend-go/internal/analysis/ski"
	"github.com/alpinetrail/tracks-backend-go/internal/models"
	"github.com/alpinetrail/tracks-backend-go/internal/spatial"
	"github.com/alpinetrail/tracks-backend-go/internal/stats"
)

// ErrTrackNotFound is returned when a track id does not exist.
var ErrTrackNotFound = errors.New("track not found")

// ErrTrackFinished is returned when appending points to a finished track.
var ErrTrackFinished = errors.New("track is finished")

// recording holds the live state of one track: its buffered points,
// the statistics accumulator, and the per-sample integrators feeding it.
type recording struct {
	track   models.Track
	points  []models.TrackPoint
	stats   *stats.TrackStatistics
	updater *stats.Updater
	lift    *ski.LiftWaitMonitor

	nextPointID int64
}

// TrackService owns the in-memory track store and drives the
// statistics pipeline as points arrive. All methods are safe for
// concurrent use; the statistics core itself is not, so every
// mutation runs under the service lock.
type TrackService struct {
	mu     sync.RWMutex
	tracks map[int64]*recording
	nextID int64

	loc *time.Location
	now func() time.Time
}

// NewTrackService creates a track service. A nil location falls back
// to the system's local zone; a nil clock falls back to time.Now.
func NewTrackService(loc *time.Location, now func() time.Time) *TrackService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TrackService{
		tracks: make(map[int64]*recording),
		loc:    loc,
		now:    now,
	}
}

// CreateTrack registers a new recording session.
func (s *TrackService) CreateTrack(in models.TrackInput) (models.Track, error) {
	activity := in.Activity
	if activity == "" {
		activity = models.ActivityOther
	}
	switch activity {
	case models.ActivitySki, models.ActivityHike, models.ActivityRun, models.ActivityBike, models.ActivityOther:
	default:
		return models.Track{}, fmt.Errorf("unknown activity %q", in.Activity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	track := models.Track{
		ID:        s.nextID,
		Name:      in.Name,
		Activity:  activity,
		CreatedAt: s.now(),
	}
	st := stats.NewTrackStatistics()
	s.tracks[track.ID] = &recording{
		track:   track,
		stats:   st,
		updater: stats.NewUpdater(st),
		lift:    ski.NewLiftWaitMonitor(st),
	}

	return track, nil
}

// AppendPoints folds a batch of time-ordered points into a track.
// Points that precede the track's latest point violate the monotonic
// time contract and reject the whole batch before any mutation.
func (s *TrackService) AppendPoints(trackID int64, inputs []models.TrackPointInput) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return 0, ErrTrackNotFound
	}
	if rec.track.Finished {
		return 0, ErrTrackFinished
	}

	// Validate ordering up front so the accumulator never sees an
	// out-of-order point (which it treats as a programmer error).
	last := rec.lastPointTime()
	for i := range inputs {
		if inputs[i].Time.Before(last) {
			return 0, fmt.Errorf("point %d out of order: %v before %v", i, inputs[i].Time, last)
		}
		last = inputs[i].Time
	}

	for i := range inputs {
		rec.nextPointID++
		p := inputs[i].Point(rec.nextPointID)

		var distance float64
		if n := len(rec.points); n > 0 {
			if d, ok := spatial.PointDistance(&rec.points[n-1], &p); ok {
				distance = d
			}
		}

		rec.points = append(rec.points, p)
		rec.updater.Process(&rec.points[len(rec.points)-1], distance)
		rec.lift.Observe(&rec.points[len(rec.points)-1])
	}

	return len(inputs), nil
}

// FinishTrack marks a recording as ended. Further appends fail.
func (s *TrackService) FinishTrack(trackID int64) (models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return models.Track{}, ErrTrackNotFound
	}
	rec.track.Finished = true
	return rec.track, nil
}

// GetTrack returns track metadata.
func (s *TrackService) GetTrack(trackID int64) (models.Track, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return models.Track{}, ErrTrackNotFound
	}
	return rec.track, nil
}

// ListTracks returns all tracks ordered by id.
func (s *TrackService) ListTracks() []models.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Track, 0, len(s.tracks))
	for _, rec := range s.tracks {
		out = append(out, rec.track)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Points returns a copy of a track's buffered points.
func (s *TrackService) Points(trackID int64) ([]models.TrackPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return nil, ErrTrackNotFound
	}
	points := make([]models.TrackPoint, len(rec.points))
	copy(points, rec.points)
	return points, nil
}

// Statistics returns the current statistics read model for a track.
func (s *TrackService) Statistics(trackID int64) (models.StatisticsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return models.StatisticsSummary{}, ErrTrackNotFound
	}
	return Summarize(rec.stats), nil
}

// StatisticsCopy returns an independent copy of a track's accumulator,
// for merging across tracks without holding the service lock.
func (s *TrackService) StatisticsCopy(trackID int64) (*stats.TrackStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tracks[trackID]
	if !ok {
		return nil, ErrTrackNotFound
	}
	return rec.stats.Copy(), nil
}

// SkiingDurationOn returns the qualifying skiing duration of a track
// for the calendar date of the given instant.
func (s *TrackService) SkiingDurationOn(trackID int64, date time.Time) (time.Duration, error) {
	points, err := s.Points(trackID)
	if err != nil {
		return 0, err
	}
	agg := ski.NewDailyAggregatorWithClock(points, s.loc, s.now)
	return agg.TotalSkiingDurationOn(date), nil
}

// SkiingDurationToday returns the qualifying skiing duration of a
// track for "today" on the service clock.
func (s *TrackService) SkiingDurationToday(trackID int64) (time.Duration, error) {
	points, err := s.Points(trackID)
	if err != nil {
		return 0, err
	}
	agg := ski.NewDailyAggregatorWithClock(points, s.loc, s.now)
	return agg.TotalSkiingDuration(), nil
}

func (r *recording) lastPointTime() time.Time {
	if len(r.points) == 0 {
		return time.Time{}
	}
	return r.points[len(r.points)-1].Time
}

// Summarize converts an accumulator into the wire-facing read model.
func Summarize(st *stats.TrackStatistics) models.StatisticsSummary {
	sum := models.StatisticsSummary{
		TotalDistanceMeters:     st.TotalDistance(),
		TotalTimeSeconds:        st.TotalTime().Seconds(),
		MovingTimeSeconds:       st.MovingTime().Seconds(),
		StoppedTimeSeconds:      st.StoppedTime().Seconds(),
		AverageSpeedMps:         st.AverageSpeed(),
		AverageMovingSpeedMps:   st.AverageMovingSpeed(),
		MaxSpeedMps:             st.MaxSpeed(),
		Idle:                    st.IsIdle(),
		ChairliftWaitingSeconds: st.ChairliftWaitingTime().Seconds(),
	}

	if st.IsInitialized() {
		start := st.StartTime()
		sum.StartTime = &start
	}
	if !st.StopTime().IsZero() {
		stop := st.StopTime()
		sum.StopTime = &stop
	}
	if st.HasAltitudeMin() {
		min := st.MinAltitude()
		sum.MinAltitudeMeters = &min
	}
	if st.HasAltitudeMax() {
		max := st.MaxAltitude()
		sum.MaxAltitudeMeters = &max
	}
	sum.AltitudeGainMeters = st.TotalAltitudeGain()
	sum.AltitudeLossMeters = st.TotalAltitudeLoss()
	sum.AverageHeartRateBpm = st.AverageHeartRate()
	sum.SlopePercent = st.SlopePercent()

	return sum
}
