package models

import "time"

// Activity category constants
const (
	ActivitySki   = "SKI"
	ActivityHike  = "HIKE"
	ActivityRun   = "RUN"
	ActivityBike  = "BIKE"
	ActivityOther = "OTHER"
)

// Track represents one recorded activity session.
type Track struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Activity string `json:"activity"` // SKI, HIKE, RUN, BIKE, OTHER

	CreatedAt time.Time `json:"created_at"`

	// Recording state
	Finished bool `json:"finished"`
}

// TrackInput is the request shape for creating a track.
type TrackInput struct {
	Name     string `json:"name" binding:"required"`
	Activity string `json:"activity"`
}

// StatisticsSummary is the read model exposed for a track's statistics.
// Optional aggregates are pointers: nil means no contributing sample
// ever supplied that channel.
type StatisticsSummary struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	StopTime  *time.Time `json:"stop_time,omitempty"`

	TotalDistanceMeters float64 `json:"total_distance_meters"`
	TotalTimeSeconds    float64 `json:"total_time_seconds"`
	MovingTimeSeconds   float64 `json:"moving_time_seconds"`
	StoppedTimeSeconds  float64 `json:"stopped_time_seconds"`

	AverageSpeedMps       float64 `json:"average_speed_mps"`
	AverageMovingSpeedMps float64 `json:"average_moving_speed_mps"`
	MaxSpeedMps           float64 `json:"max_speed_mps"`

	MinAltitudeMeters  *float64 `json:"min_altitude_meters,omitempty"`
	MaxAltitudeMeters  *float64 `json:"max_altitude_meters,omitempty"`
	AltitudeGainMeters *float64 `json:"altitude_gain_meters,omitempty"`
	AltitudeLossMeters *float64 `json:"altitude_loss_meters,omitempty"`

	AverageHeartRateBpm *float64 `json:"average_heart_rate_bpm,omitempty"`
	SlopePercent        *float64 `json:"slope_percent,omitempty"`

	Idle bool `json:"idle"`

	ChairliftWaitingSeconds float64 `json:"chairlift_waiting_seconds"`
}

// AggregatedSummary is the read model for statistics merged across tracks.
type AggregatedSummary struct {
	Activity   string            `json:"activity"`
	TrackCount int               `json:"track_count"`
	Stats      StatisticsSummary `json:"stats"`
}
