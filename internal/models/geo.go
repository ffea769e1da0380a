package models

// ValidCoordinates reports whether a latitude/longitude pair is on Earth.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
