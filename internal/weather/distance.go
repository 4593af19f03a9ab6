package weather

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6372.8

// MaxRadiusKm is the largest search radius accepted, the Earth's equatorial
// circumference.
const MaxRadiusKm = 40075.0

// Haversine returns the great-circle distance in km between two points
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(a, 1)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Distance returns the great-circle distance in km between two stations.
func Distance(from, to Station) float64 {
	return Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
