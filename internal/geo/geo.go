package geo

import "math"

// EarthRadius is the mean Earth radius used for great-circle distances, in meters.
const EarthRadius = 6371000

// Distance calculates the great-circle distance in meters between two
// lat/lon pairs using the haversine formula
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLatRad := (lat2 - lat1) * math.Pi / 180
	deltaLonRad := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLatRad/2)*math.Sin(deltaLatRad/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLonRad/2)*math.Sin(deltaLonRad/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// Equal reports whether two coordinate pairs are exactly the same
func Equal(lat1, lon1, lat2, lon2 float64) bool {
	return lat1 == lat2 && lon1 == lon2
}

// Grade returns the slope in percent for a rise over a horizontal run.
// A non-positive run yields 0.
func Grade(rise, run float64) float64 {
	if run <= 0 {
		return 0
	}
	return rise / run * 100
}

// SpeedKmh converts a distance in meters covered in elapsed seconds to km/h
func SpeedKmh(meters, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return (meters / 1000) / (seconds / 3600)
}
