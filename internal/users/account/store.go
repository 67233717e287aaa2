// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"time"
)

// Repository defines the data access contract for account records.
//
// Lookups return [dberr.ErrNotFound] when nothing matches.
type Repository interface {
	// FindPageByHandle returns the page id of the most recently updated
	// account of tenant with the given handle and a bound page. When
	// weddingDate is non-nil only accounts with that wedding date match.
	FindPageByHandle(context context.Context, tenant Tenant, handle string, weddingDate *time.Time) (string, error)

	// FindByID returns an account of either tenant.
	FindByID(context context.Context, id string) (*Account, error)

	// FindByPageID returns the account of either tenant bound to pageID.
	FindByPageID(context context.Context, pageID string) (*Account, error)

	// Approve marks the account approved and binds pageID unless a page is
	// already bound. It returns the updated account.
	Approve(context context.Context, tenant Tenant, id, pageID string, now time.Time) (*Account, error)

	// Delete removes the account row.
	Delete(context context.Context, tenant Tenant, id string) error
}
