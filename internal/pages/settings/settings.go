// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings owns the per-page settings record of a wedding invitation.

It resolves which page a request addresses, bootstraps a default record on
first read, filters writes through a fixed allowlist, keeps the NOT NULL
background-music toggle populated across partial updates, seeds wedding
details once at account approval, and replaces the two ordered child lists
(transport directions and info notices).
*/
package settings

import (
	"encoding/json"
	"fmt"
	"time"
)

// # Domain Entities

// PageSettings is one page's settings row.
//
// Mutable columns live in Fields so that partial writes and the allowlist
// stay a single mechanism; bookkeeping columns are typed.
type PageSettings struct {
	PageID    string
	Fields    Fields
	CreatedAt time.Time
	UpdatedAt time.Time

	// PublicImageURL is derived on read; it is never stored.
	PublicImageURL string
}

// Clone returns a copy that does not share its Fields map with s.
func (s *PageSettings) Clone() *PageSettings {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Fields = s.Fields.Clone()
	return &clone
}

// MarshalJSON renders the record as one flat object, the shape the page
// builder front-end reads.
func (s PageSettings) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(s.Fields)+4)
	for key, value := range s.Fields {
		flat[key] = value
	}

	flat["page_id"] = s.PageID
	flat[FieldPhotoImagePublicURL] = s.PublicImageURL
	if !s.CreatedAt.IsZero() {
		flat["created_at"] = s.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !s.UpdatedAt.IsZero() {
		flat["updated_at"] = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat shape written by MarshalJSON. Keys outside
// the allowlist are ignored and the derived URL is left for the caller.
func (s *PageSettings) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	decoded := PageSettings{Fields: make(Fields, len(mutableFields))}
	decoded.PageID, _ = flat["page_id"].(string)

	for _, key := range []string{"created_at", "updated_at"} {
		raw, _ := flat[key].(string)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("settings: invalid %s: %w", key, err)
		}
		if key == "created_at" {
			decoded.CreatedAt = parsed
		} else {
			decoded.UpdatedAt = parsed
		}
	}

	for _, spec := range mutableFields {
		if value, ok := flat[spec.name]; ok {
			decoded.Fields[spec.name] = value
		}
	}

	*s = decoded
	return nil
}

// ListKind names one of the ordered child lists of a page.
type ListKind string

const (
	ListTransport ListKind = "transport"
	ListInfo      ListKind = "info"
)

// Valid reports whether k is a known list kind.
func (k ListKind) Valid() bool {
	return k == ListTransport || k == ListInfo
}

// ListItem is one row of an ordered child list.
type ListItem struct {
	ID           string `json:"id" db:"id"`
	PageID       string `json:"page_id" db:"page_id"`
	Title        string `json:"title" db:"title"`
	Description  string `json:"description" db:"description"`
	DisplayOrder int    `json:"display_order" db:"display_order"`
}

// AccountSeed is the slice of an account record used to seed settings.
type AccountSeed struct {
	// WeddingDate is "YYYY-MM-DD" or "".
	WeddingDate string
	GroomNameEN string
	BrideNameEN string
}

// Fields returns the non-empty seed values keyed by settings column.
func (seed AccountSeed) Fields() Fields {
	fields := Fields{}
	if seed.WeddingDate != "" {
		fields[FieldWeddingDate] = seed.WeddingDate
	}
	if seed.GroomNameEN != "" {
		fields[FieldGroomNameEN] = seed.GroomNameEN
	}
	if seed.BrideNameEN != "" {
		fields[FieldBrideNameEN] = seed.BrideNameEN
	}
	return fields
}

// SeedResult is the outcome of [Service.SeedOnApproval].
type SeedResult struct {
	Settings *PageSettings `json:"settings"`
	// Noop is true when every seed field was already set and nothing was written.
	Noop bool `json:"noop"`
	// Written lists the fields that were filled.
	Written []string `json:"written,omitempty"`
}
