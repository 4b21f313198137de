package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/alpinetrail/tracks-backend-go/internal/models"
)

// EarthRadiusMeters is Earth's mean radius in meters.
const EarthRadiusMeters = 6371000.0

// GreatCircleDistance calculates the great-circle distance between
// two points in meters.
func GreatCircleDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PointDistance returns the distance in meters between two track
// points, or false when either point lacks a location fix.
func PointDistance(a, b *models.TrackPoint) (float64, bool) {
	if !a.HasLocation() || !b.HasLocation() {
		return 0, false
	}
	return GreatCircleDistance(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude), true
}
