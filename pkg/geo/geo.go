package geo

import "math"

// EarthRadiusKm is the mean radius of the Earth in kilometers.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometers between
// two latitude/longitude points, computed with the haversine formula.
// It is exposed on its own because both the discovery engine (radius
// filtering, distance sort) and clients rendering "x km away" labels
// need it.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
