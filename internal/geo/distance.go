package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

const earthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude" yaml:"latitude"`
	Lon float64 `json:"longitude" yaml:"longitude"`
}

// Landmark is the reference point every outlet distance is measured from.
var Landmark = Coordinate{Lat: 38.8719, Lon: -77.0563}

// LandmarkName labels Landmark on the marker layer.
const LandmarkName = "The Pentagon"

// DistanceKm returns the great-circle distance between a and b using the
// haversine formula. Inputs are not validated.
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Point converts c to a WGS84 go-geom point (X = lon, Y = lat).
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat}).SetSRID(4326)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
