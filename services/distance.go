package services

import (
	"github.com/golang/geo/s2"
)

const earthRadiusKM = 6371.0

// Distance returns the great-circle distance in kilometers between two points
// given in degrees. s2 computes the central angle with the haversine formula.
func Distance(latOne, lngOne, latTwo, lngTwo float64) float64 {
	a := s2.LatLngFromDegrees(latOne, lngOne)
	b := s2.LatLngFromDegrees(latTwo, lngTwo)
	return a.Distance(b).Radians() * earthRadiusKM
}
