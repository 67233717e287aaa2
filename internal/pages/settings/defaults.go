// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

// DefaultGalleryType is the gallery layout of a freshly bootstrapped page.
const DefaultGalleryType = "thumbnail"

// defaultToggles are the feature toggles a new page starts with. All "off":
// a customer opts into each widget explicitly.
var defaultToggles = []string{
	FieldGalleryZoom,
	FieldBgmAutoplay,
	FieldRSVP,
	FieldComments,
	FieldInfo,
	FieldAccount,
	FieldCalendar,
	FieldLocation,
}

// DefaultSettings builds the record written when a page is first read.
//
// It is the only place defaults are spelled out; bootstrap and any reset
// path must go through it. seed may be nil when no account is linked.
func DefaultSettings(seed *AccountSeed) Fields {
	fields := Fields{FieldGalleryType: DefaultGalleryType}
	for _, toggle := range defaultToggles {
		fields[toggle] = ToggleOff
	}

	if seed != nil {
		for key, value := range seed.Fields() {
			fields[key] = value
		}
	}

	return fields
}
