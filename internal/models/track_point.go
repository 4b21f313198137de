package models

import "time"

// TrackPoint represents one timestamped GPS/sensor sample. Points are
// produced by an external acquisition layer and arrive in time order;
// the statistics code only reads them. Optional sensor channels are
// pointers: nil means the sensor supplied no value for this sample.
type TrackPoint struct {
	ID   int64     `json:"id"`
	Time time.Time `json:"time"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Altitude  *float64 `json:"altitude,omitempty"`  // meters
	Speed     *float64 `json:"speed,omitempty"`     // m/s, instantaneous
	HeartRate *float64 `json:"heartRate,omitempty"` // BPM
}

// HasLocation reports whether the point carries a lat/lon fix.
func (p *TrackPoint) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// HasAltitude reports whether the point carries an altitude reading.
func (p *TrackPoint) HasAltitude() bool {
	return p.Altitude != nil
}

// HasSpeed reports whether the point carries an instantaneous speed.
func (p *TrackPoint) HasSpeed() bool {
	return p.Speed != nil
}

// HasHeartRate reports whether the point carries a heart rate reading.
func (p *TrackPoint) HasHeartRate() bool {
	return p.HeartRate != nil
}

// TrackPointInput is the request shape for appending points to a track.
type TrackPointInput struct {
	Time      time.Time `json:"time" binding:"required"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Altitude  *float64  `json:"altitude"`
	Speed     *float64  `json:"speed"`
	HeartRate *float64  `json:"heartRate"`
}

// Point converts the input to a TrackPoint with the given id.
func (in *TrackPointInput) Point(id int64) TrackPoint {
	return TrackPoint{
		ID:        id,
		Time:      in.Time,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Altitude:  in.Altitude,
		Speed:     in.Speed,
		HeartRate: in.HeartRate,
	}
}
