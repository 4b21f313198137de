package service

import (
	"fmt"
	"time"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
	"github.com/alpinetrail/tracks-backend-go/internal/stats"
)

// StatsService exposes statistics merged across recorded tracks.
// Tracks recorded at different times cover disjoint windows, which is
// exactly the contract TrackStatistics.Merge requires.
type StatsService struct {
	tracks *TrackService
}

// NewStatsService creates a stats service over the track store.
func NewStatsService(tracks *TrackService) *StatsService {
	return &StatsService{tracks: tracks}
}

// Location returns the time zone used for calendar-date rollups.
func (s *StatsService) Location() *time.Location {
	return s.tracks.loc
}

// AggregatedByActivity merges per-track statistics within each
// activity category, mirroring the aggregated statistics screen of
// the mobile app.
func (s *StatsService) AggregatedByActivity() ([]models.AggregatedSummary, error) {
	grouped := make(map[string]*models.AggregatedSummary)
	merged := make(map[string]*stats.TrackStatistics)
	var order []string

	for _, track := range s.tracks.ListTracks() {
		st, err := s.tracks.StatisticsCopy(track.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read statistics for track %d: %w", track.ID, err)
		}

		if acc, ok := merged[track.Activity]; ok {
			acc.Merge(st)
			grouped[track.Activity].TrackCount++
		} else {
			merged[track.Activity] = st
			grouped[track.Activity] = &models.AggregatedSummary{
				Activity:   track.Activity,
				TrackCount: 1,
			}
			order = append(order, track.Activity)
		}
	}

	out := make([]models.AggregatedSummary, 0, len(order))
	for _, activity := range order {
		summary := grouped[activity]
		summary.Stats = Summarize(merged[activity])
		out = append(out, *summary)
	}
	return out, nil
}

// TotalSkiingDurationOn sums qualifying skiing durations across all
// SKI tracks for the calendar date of the given instant.
func (s *StatsService) TotalSkiingDurationOn(date time.Time) (time.Duration, error) {
	var total time.Duration
	for _, track := range s.tracks.ListTracks() {
		if track.Activity != models.ActivitySki {
			continue
		}
		d, err := s.tracks.SkiingDurationOn(track.ID, date)
		if err != nil {
			return 0, fmt.Errorf("failed to roll up track %d: %w", track.ID, err)
		}
		total += d
	}
	return total, nil
}

// TotalSkiingDurationToday sums qualifying skiing durations across
// all SKI tracks for "today" on the service clock.
func (s *StatsService) TotalSkiingDurationToday() (time.Duration, error) {
	var total time.Duration
	for _, track := range s.tracks.ListTracks() {
		if track.Activity != models.ActivitySki {
			continue
		}
		d, err := s.tracks.SkiingDurationToday(track.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to roll up track %d: %w", track.ID, err)
		}
		total += d
	}
	return total, nil
}
