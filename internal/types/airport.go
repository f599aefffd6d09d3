package types

// AirportRecord is one row of the OpenFlights airports table, immutable
// after load. IATA/ICAO may be empty since not every row carries a code.
type AirportRecord struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	City       string  `json:"city"`
	Country    string  `json:"country"`
	IATA       string  `json:"iata"`
	ICAO       string  `json:"icao"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeFt float64 `json:"altitude_ft"`
	TzOffset   string  `json:"tz_offset"`
	DST        string  `json:"dst"`
	TzName     string  `json:"tz_name"`
	Type       string  `json:"type"`
	Source     string  `json:"source"`
}
