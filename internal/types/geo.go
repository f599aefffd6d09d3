package types

// GeoPoint is a resolved location with a human-readable label.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// BoundingBox is a lat/lon rectangle used to scope a live-traffic query.
type BoundingBox struct {
	LatMin float64 `json:"lat_min"`
	LonMin float64 `json:"lon_min"`
	LatMax float64 `json:"lat_max"`
	LonMax float64 `json:"lon_max"`
}

// AircraftState is the slice of an upstream state vector this service
// actually consumes. BaroAltitudeM is nil when the upstream reports null.
type AircraftState struct {
	Callsign      string   `json:"callsign"`
	BaroAltitudeM *float64 `json:"baro_altitude_m"`
}
