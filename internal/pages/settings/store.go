// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"time"
)

// # Storage Contracts

// Repository persists settings rows.
//
// Implementations return [dberr.ErrNotFound] for a missing row and an error
// matching [dberr.ErrDuplicate] when Insert loses the unique page_id race.
type Repository interface {
	// Get returns the row for pageID.
	Get(context context.Context, pageID string) (*PageSettings, error)

	// Insert creates the row for pageID with the given fields. It never
	// overwrites: an existing row is reported as a duplicate.
	Insert(context context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error)

	// Upsert writes only the supplied fields plus updated_at = now, creating
	// the row when absent, and returns the persisted row.
	Upsert(context context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error)

	// Delete removes the row for pageID. A missing row is not an error.
	Delete(context context.Context, pageID string) error
}

// ListRepository persists the ordered child lists.
type ListRepository interface {
	// Items returns the list ordered by display_order, then insertion.
	Items(context context.Context, pageID string, kind ListKind) ([]ListItem, error)

	// DeleteItems removes every item of the list.
	DeleteItems(context context.Context, pageID string, kind ListKind) error

	// InsertItems appends items; DisplayOrder and ID are already set.
	InsertItems(context context.Context, pageID string, kind ListKind, items []ListItem) error

	// InTx runs fn against a repository bound to one unit of work. When fn
	// returns an error nothing it did is kept.
	InTx(context context.Context, fn func(tx ListRepository) error) error
}

// # Collaborators

// SeedSource reads the account fields a new settings row is seeded from.
// It returns (nil, nil) when no account is linked to pageID.
type SeedSource interface {
	SeedForPage(context context.Context, pageID string) (*AccountSeed, error)
}

// PageResolver maps a public handle and optional YYMMDD token to a page id.
type PageResolver interface {
	Resolve(context context.Context, handle, dateToken string) (string, error)
}
