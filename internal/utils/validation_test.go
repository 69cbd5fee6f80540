package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "numeric route code",
			id:      "2045",
			wantErr: false,
		},
		{
			name:    "legacy ID with dots and hyphens",
			id:      "A10-1.2",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("1", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with script tag",
			id:      "2045<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err, "ValidateID should return error for invalid ID")
				assert.Contains(t, err.Error(), tt.errMsg, "Error message should contain expected text")
			} else {
				assert.NoError(t, err, "ValidateID should not return error for valid ID")
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	assert.NoError(t, ValidateQuery("act=getStopArrivals&p1=10001"))
	assert.Error(t, ValidateQuery(""))
	assert.Error(t, ValidateQuery(strings.Repeat("a", 201)))
	assert.Error(t, ValidateQuery("act=getStops&p1=1;--"))
	assert.Error(t, ValidateQuery("act=<script>"))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateLatitude(37.97))
	assert.NoError(t, ValidateLatitude(-90))
	assert.Error(t, ValidateLatitude(90.0001))
	assert.NoError(t, ValidateLongitude(180))
	assert.Error(t, ValidateLongitude(-180.5))
}

func TestParseLocationParams(t *testing.T) {
	tests := []struct {
		name       string
		lat, lon   string
		wantFields []string
	}{
		{name: "valid", lat: "37.9755", lon: "23.7348"},
		{name: "missing lat", lat: "", lon: "23.7", wantFields: []string{"lat"}},
		{name: "garbled lon", lat: "37.9", lon: "east", wantFields: []string{"lon"}},
		{name: "out of range", lat: "100", lon: "200", wantFields: []string{"lat", "lon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, fieldErrors := ParseLocationParams(tt.lat, tt.lon)
			assert.Len(t, fieldErrors, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fieldErrors, f)
			}
			if len(tt.wantFields) == 0 {
				assert.InDelta(t, 37.9755, lat, 1e-9)
				assert.InDelta(t, 23.7348, lon, 1e-9)
			}
		})
	}
}
