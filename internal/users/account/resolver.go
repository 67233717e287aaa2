// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/taibuivan/invitation/internal/pages/settings"
	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/ctxutil"
	"github.com/taibuivan/invitation/internal/platform/dberr"
	"github.com/taibuivan/invitation/internal/platform/validate"
	"github.com/taibuivan/invitation/pkg/slug"
)

// maxHandleLength bounds handles accepted for resolution.
const maxHandleLength = 100

// Resolver is the read side of accounts used by the settings service: it
// maps public handles to pages and reads seed values for a page.
type Resolver struct {
	repo Repository
}

// NewResolver creates a new [Resolver].
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Compile-time checks.
var (
	_ settings.PageResolver = (*Resolver)(nil)
	_ settings.SeedSource   = (*Resolver)(nil)
)

/*
Resolve maps a handle and optional YYMMDD token to a page id.

Description: Customers are searched before partners. Within each table an
exact (handle, wedding_date) match is preferred over a bare handle match,
so two couples sharing a handle are told apart by their date. An unmatched
handle is Not-Found: handles are tenant-controlled and are never treated as
page ids.

Returns:
  - string: The page id
  - error: VALIDATION_ERROR for a malformed handle or token, NOT_FOUND when
    nothing matches, or a store failure
*/
func (resolver *Resolver) Resolve(context context.Context, handle, dateToken string) (string, error) {
	normalized := slug.Handle(handle)

	validator := &validate.Validator{}
	validator.Required("userUrl", handle).
		MaxLen("userUrl", handle, maxHandleLength).
		DateToken("date", dateToken)
	if handle != "" {
		validator.Handle("userUrl", normalized)
	}
	if err := validator.Err(); err != nil {
		return "", err
	}

	weddingDate, err := parseDateToken(dateToken)
	if err != nil {
		return "", err
	}

	for _, tenant := range lookupOrder {
		if weddingDate != nil {
			pageID, err := resolver.repo.FindPageByHandle(context, tenant, normalized, weddingDate)
			if err == nil {
				return pageID, nil
			}
			if !errors.Is(err, dberr.ErrNotFound) {
				return "", err
			}
		}

		pageID, err := resolver.repo.FindPageByHandle(context, tenant, normalized, nil)
		if err == nil {
			return pageID, nil
		}
		if !errors.Is(err, dberr.ErrNotFound) {
			return "", err
		}
	}

	ctxutil.GetLogger(context).Info("page_handle_unresolved",
		slog.String("user_url", normalized),
		slog.String("date", dateToken),
	)
	return "", apperr.NotFound("Page")
}

// parseDateToken reads YYMMDD as a 21st-century calendar date.
// An empty token yields nil.
func parseDateToken(token string) (*time.Time, error) {
	if token == "" {
		return nil, nil
	}

	year, _ := strconv.Atoi(token[0:2])
	month, _ := strconv.Atoi(token[2:4])
	day, _ := strconv.Atoi(token[4:6])

	date := time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it.
	if date.Month() != time.Month(month) || date.Day() != day {
		return nil, validate.RequiredError("date", "Must be a valid calendar date (YYMMDD)")
	}

	return &date, nil
}

/*
SeedForPage reads the wedding fields of the account bound to pageID.

Returns (nil, nil) when no account is bound, which bootstraps an unseeded page.
*/
func (resolver *Resolver) SeedForPage(context context.Context, pageID string) (*settings.AccountSeed, error) {
	account, err := resolver.repo.FindByPageID(context, pageID)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	seed := account.Seed()
	return &seed, nil
}
