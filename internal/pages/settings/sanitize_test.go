// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/invitation/internal/platform/apperr"
)

/*
TestSanitize_DropsUnknownKeys verifies that only allowlisted keys survive.
*/
func TestSanitize_DropsUnknownKeys(t *testing.T) {
	payload := map[string]any{
		FieldGroomNameEN: "JOHN",
		FieldVenueName:   "Grand Hall",
		"id":             42,
		"page_id":        "someone-else",
		"created_at":     "2020-01-01T00:00:00Z",
		"is_admin":       true,

		FieldPhotoImagePublicURL: "https://cdn.example.com/forged.jpg",
	}

	sanitized, err := Sanitize(payload)
	require.NoError(t, err)

	assert.Equal(t, Fields{FieldGroomNameEN: "JOHN", FieldVenueName: "Grand Hall"}, sanitized)
}

/*
TestSanitize_Normalization covers the per-kind value rules.
*/
func TestSanitize_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		input any
		want  any
		kept  bool
	}{
		{"empty_date_becomes_null", FieldWeddingDate, "", nil, true},
		{"date_kept", FieldWeddingDate, "2025-01-01", "2025-01-01", true},
		{"iso_timestamp_truncated", FieldWeddingDate, "2025-01-01T00:00:00.000Z", "2025-01-01", true},
		{"explicit_null_date", FieldWeddingDate, nil, nil, true},
		{"numeric_string", FieldVenueLat, "37.5665", 37.5665, true},
		{"json_number", FieldVenueLng, json.Number("126.978"), 126.978, true},
		{"empty_number_becomes_null", FieldBgmVol, "", nil, true},
		{"bool_toggle", FieldRSVP, true, ToggleOn, true},
		{"string_toggle", FieldComments, "OFF", ToggleOff, true},
		{"not_null_toggle_null_dropped", FieldBgmAutoplay, nil, nil, false},
		{"not_null_toggle_empty_dropped", FieldBgmAutoplay, "", nil, false},
		{"nullable_toggle_null_kept", FieldCalendar, nil, nil, true},
		{"text_number_rendered", FieldWeddingHour, float64(14), "14", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sanitized, err := Sanitize(map[string]any{tt.key: tt.input})
			require.NoError(t, err)

			value, ok := sanitized[tt.key]
			assert.Equal(t, tt.kept, ok)
			if tt.kept {
				assert.Equal(t, tt.want, value)
			}
		})
	}
}

/*
TestSanitize_RejectsMalformedValues verifies that allowlisted keys with the
wrong shape are reported rather than stored.
*/
func TestSanitize_RejectsMalformedValues(t *testing.T) {
	_, err := Sanitize(map[string]any{
		FieldWeddingDate: "next spring",
		FieldVenueLat:    "north",
		FieldRSVP:        "maybe",
		FieldVenueName:   map[string]any{"nested": true},
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 4)
}

/*
TestSanitize_Idempotent verifies Sanitize(Sanitize(x)) == Sanitize(x).
*/
func TestSanitize_Idempotent(t *testing.T) {
	payload := map[string]any{
		FieldGroomNameKR: "김민수",
		FieldWeddingDate: "",
		FieldVenueLat:    "37.5",
		FieldBgmVol:      json.Number("0.4"),
		FieldGalleryZoom: false,
		FieldBgmAutoplay: "on",
		FieldWeddingHour: float64(11),
		"unknown":        "dropped",
	}

	once, err := Sanitize(payload)
	require.NoError(t, err)

	twice, err := Sanitize(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

/*
TestDefaultSettings verifies the single default factory.
*/
func TestDefaultSettings(t *testing.T) {
	defaults := DefaultSettings(nil)

	assert.Equal(t, DefaultGalleryType, defaults[FieldGalleryType])
	for _, toggle := range defaultToggles {
		assert.Equal(t, ToggleOff, defaults[toggle], toggle)
	}
	assert.False(t, defaults.Has(FieldWeddingDate))

	seeded := DefaultSettings(&AccountSeed{WeddingDate: "2025-05-17", GroomNameEN: "JOHN"})
	assert.Equal(t, "2025-05-17", seeded[FieldWeddingDate])
	assert.Equal(t, "JOHN", seeded[FieldGroomNameEN])
	assert.False(t, seeded.Has(FieldBrideNameEN))
}
