package geo

import (
	"github.com/golang/geo/s2"
)

// PathLength returns the great-circle length of the polyline through coords, in km.
func PathLength(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}
	latLngs := make([]s2.LatLng, len(coords))
	for i, c := range coords {
		latLngs[i] = s2.LatLngFromDegrees(c.Lat, c.Lon)
	}
	polyline := s2.PolylineFromLatLngs(latLngs)
	return polyline.Length().Radians() * earthRadiusKM
}
