package ski

import (
	"math"
	"time"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// Hand-tuned thresholds for detecting skiing between two points.
const (
	// Minimum absolute altitude change across the segment (meters).
	AltitudeChangeThreshold = 10.0

	// Minimum elapsed time across the segment.
	MinSegmentDuration = 50 * time.Second

	// SpeedThreshold (m/s) is tunable but deliberately not part of
	// the decision: the average-speed gate was never enabled in the
	// field-tested behavior. Do not wire it in without revisiting the
	// classification against real slope recordings.
	SpeedThreshold = 5.0
)

// IsSkiingSegment classifies the interval between two time-ordered
// points as a skiing segment. Pure function, no side effects. Points
// without altitude data never qualify.
func IsSkiingSegment(start, end *models.TrackPoint) bool {
	if !start.HasAltitude() || !end.HasAltitude() {
		return false
	}

	altitudeChange := math.Abs(*start.Altitude - *end.Altitude)
	if altitudeChange < AltitudeChangeThreshold {
		// Altitude change not significant, likely not skiing.
		return false
	}

	return end.Time.Sub(start.Time) >= MinSegmentDuration
}
