package location

import (
	"math"

	"github.com/jpereira/go-travel-assistant/internal/types"
)

// DefaultPaddingDeg is the angular padding around a center point,
// roughly 160 km north-south.
const DefaultPaddingDeg = 1.5

// DefaultMinLonCos floors the cosine divisor so the east-west stretch
// never exceeds 5x near the poles.
const DefaultMinLonCos = 0.2

// BoundingBoxAround builds a lat/lon rectangle around center. The
// longitude padding is widened by 1/cos(lat) so the box stays roughly
// isotropic in physical distance at high latitude. All edges are rounded
// to 4 decimal places.
func BoundingBoxAround(center types.GeoPoint, paddingDeg, minLonCos float64) types.BoundingBox {
	lonPad := paddingDeg / math.Max(math.Cos(math.Abs(center.Latitude)*math.Pi/180), minLonCos)

	return types.BoundingBox{
		LatMin: round4(center.Latitude - paddingDeg),
		LonMin: round4(center.Longitude - lonPad),
		LatMax: round4(center.Latitude + paddingDeg),
		LonMax: round4(center.Longitude + lonPad),
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
