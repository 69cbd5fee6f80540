package models

// Common constants used across the application
const (
	// UnknownValue is the fallback value when data is unavailable or calculation fails
	UnknownValue = "UNKNOWN"

	// EarthRadiusMeters is the mean Earth radius used for haversine distances.
	EarthRadiusMeters = 6371000.0
)
