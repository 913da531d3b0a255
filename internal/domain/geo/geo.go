package geo

import "math"

// EarthRadiusMeters is the mean radius of Earth used for distance scaling.
const EarthRadiusMeters = 6_371_000.0

// MetersPerDegree returns the local scale factors at the given latitude:
// meters per degree of longitude and meters per degree of latitude.
// Longitude shrinks with the cosine of the latitude; latitude is treated as
// constant (spherical model).
func MetersPerDegree(latDeg float64) (mLng, mLat float64) {
	mLat = EarthRadiusMeters * math.Pi / 180
	mLng = mLat * math.Cos(latDeg*math.Pi/180)
	if mLng < 0 {
		mLng = 0
	}
	return mLng, mLat
}

// Haversine returns the great-circle distance in meters between two points
// specified by longitude and latitude in degrees.
func Haversine(lng1, lat1, lng2, lat2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lng, lat float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
