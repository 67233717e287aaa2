// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PageSettingsTable represents the 'page_settings' table.
//
// Only the bookkeeping columns are named here; the mutable content columns
// share their names with the JSON field names of the settings allowlist.
type PageSettingsTable struct {
	Table       string
	ID          string
	PageID      string
	WeddingDate string
	BgmAutoplay string
	CreatedAt   string
	UpdatedAt   string
}

// PageSettings is the schema definition for page_settings.
var PageSettings = PageSettingsTable{
	Table:       "page_settings",
	ID:          "id",
	PageID:      "page_id",
	WeddingDate: "wedding_date",
	BgmAutoplay: "bgm_autoplay",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}
