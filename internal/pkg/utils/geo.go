package utils

// ValidateCoordinates checks that a WGS84 point is within range.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
