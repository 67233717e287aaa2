// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import "maps"

// Fields is a partial settings record keyed by column name.
//
// Values are canonical after [Sanitize]: strings for text and toggle
// columns, float64 for numeric columns, "YYYY-MM-DD" strings for dates,
// and nil for an explicit null.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Has reports whether key is present, even with a nil value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Text returns the string value of key, or "" when absent, nil or not a string.
func (f Fields) Text(key string) string {
	value, _ := f[key].(string)
	return value
}

// IsUnset reports whether key holds no meaningful value: absent, nil or "".
func (f Fields) IsUnset(key string) bool {
	value, ok := f[key]
	if !ok || value == nil {
		return true
	}
	text, isText := value.(string)
	return isText && text == ""
}

// # Field Names

// Content fields.
const (
	FieldGroomNameKR           = "groom_name_kr"
	FieldBrideNameKR           = "bride_name_kr"
	FieldGroomNameEN           = "groom_name_en"
	FieldBrideNameEN           = "bride_name_en"
	FieldWeddingDate           = "wedding_date"
	FieldWeddingHour           = "wedding_hour"
	FieldWeddingMinute         = "wedding_minute"
	FieldVenueName             = "venue_name"
	FieldVenueAddress          = "venue_address"
	FieldVenueLat              = "venue_lat"
	FieldVenueLng              = "venue_lng"
	FieldVenuePhone            = "venue_phone"
	FieldTransportLocationName = "transport_location_name"
	FieldGreetingTitle         = "greeting_title"
	FieldGreetingMessage       = "greeting_message"
)

// Presentation fields.
const (
	FieldPhotoImageURL        = "photo_section_image_url"
	FieldPhotoImagePath       = "photo_section_image_path"
	FieldPhotoImagePublicURL  = "photo_section_image_public_url"
	FieldPhotoOverlayPosition = "photo_section_overlay_position"
	FieldPhotoOverlayColor    = "photo_section_overlay_color"
	FieldPhotoLocale          = "photo_section_locale"
	FieldHighlightShape       = "highlight_shape"
	FieldHighlightColor       = "highlight_color"
	FieldHighlightTextColor   = "highlight_text_color"
	FieldPageType             = "page_type"
	FieldFontFamily           = "font_family"
)

// Feature toggles.
const (
	FieldGalleryType     = "gallery_type"
	FieldGalleryZoom     = "gallery_zoom"
	FieldGalleryPosition = "gallery_position"
	FieldBgmURL          = "bgm_url"
	FieldBgmType         = "bgm_type"
	FieldBgmVol          = "bgm_vol"
	FieldBgmAutoplay     = "bgm_autoplay"
	FieldRSVP            = "rsvp"
	FieldComments        = "comments"
	FieldInfo            = "info"
	FieldAccount         = "account"
	FieldCalendar        = "calendar"
	FieldLocation        = "location"
)

// Toggle values.
const (
	ToggleOn  = "on"
	ToggleOff = "off"
)

// fieldKind selects how a value is normalized and stored.
type fieldKind uint8

const (
	kindText fieldKind = iota
	kindDate
	kindNumber
	kindToggle
)

type fieldSpec struct {
	name string
	kind fieldKind
	// notNull fields never accept an explicit null; see [Sanitize].
	notNull bool
}

// mutableFields is the write allowlist, in column order.
var mutableFields = []fieldSpec{
	{name: FieldGroomNameKR},
	{name: FieldBrideNameKR},
	{name: FieldGroomNameEN},
	{name: FieldBrideNameEN},
	{name: FieldWeddingDate, kind: kindDate},
	{name: FieldWeddingHour},
	{name: FieldWeddingMinute},
	{name: FieldVenueName},
	{name: FieldVenueAddress},
	{name: FieldVenueLat, kind: kindNumber},
	{name: FieldVenueLng, kind: kindNumber},
	{name: FieldVenuePhone},
	{name: FieldTransportLocationName},
	{name: FieldGreetingTitle},
	{name: FieldGreetingMessage},

	{name: FieldPhotoImageURL},
	{name: FieldPhotoImagePath},
	{name: FieldPhotoOverlayPosition},
	{name: FieldPhotoOverlayColor},
	{name: FieldPhotoLocale},
	{name: FieldHighlightShape},
	{name: FieldHighlightColor},
	{name: FieldHighlightTextColor},
	{name: FieldPageType},
	{name: FieldFontFamily},

	{name: FieldGalleryType},
	{name: FieldGalleryZoom, kind: kindToggle},
	{name: FieldGalleryPosition},
	{name: FieldBgmURL},
	{name: FieldBgmType},
	{name: FieldBgmVol, kind: kindNumber},
	{name: FieldBgmAutoplay, kind: kindToggle, notNull: true},
	{name: FieldRSVP, kind: kindToggle},
	{name: FieldComments, kind: kindToggle},
	{name: FieldInfo, kind: kindToggle},
	{name: FieldAccount, kind: kindToggle},
	{name: FieldCalendar, kind: kindToggle},
	{name: FieldLocation, kind: kindToggle},
}

// allowlist indexes mutableFields by name.
var allowlist = func() map[string]fieldSpec {
	index := make(map[string]fieldSpec, len(mutableFields))
	for _, spec := range mutableFields {
		index[spec.name] = spec
	}
	return index
}()

// seedFields are the only fields the approval-time seed may write.
var seedFields = []string{FieldWeddingDate, FieldGroomNameEN, FieldBrideNameEN}

// IsDateField reports whether name is stored in a DATE column.
func IsDateField(name string) bool {
	spec, ok := allowlist[name]
	return ok && spec.kind == kindDate
}
