package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Upstream codes are numeric, but some legacy IDs carry letters and dots.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Detect injection-looking input in raw upstream queries
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)
)

// ValidateID validates that an ID is safe to forward upstream
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateQuery validates a raw "act=...&p1=..." query string
func ValidateQuery(query string) error {
	if query == "" {
		return errors.New("query cannot be empty")
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ParseLocationParams parses and validates a lat/lon pair given as strings.
// The returned map is keyed by parameter name and empty when both are valid.
func ParseLocationParams(latStr, lonStr string) (float64, float64, map[string][]string) {
	fieldErrors := make(map[string][]string)

	lat, err := parseCoordinate(latStr)
	if err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	} else if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	lon, err := parseCoordinate(lonStr)
	if err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	} else if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	return lat, lon, fieldErrors
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return v, nil
}
