// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/invitation/internal/pages/settings"
	"github.com/taibuivan/invitation/internal/platform/apperr"
	"github.com/taibuivan/invitation/internal/platform/ctxutil"
	"github.com/taibuivan/invitation/internal/platform/dberr"
	"github.com/taibuivan/invitation/internal/platform/metrics"
	"github.com/taibuivan/invitation/pkg/uuid"
)

// PageSettings is the part of the settings service accounts drive.
// [*settings.Service] implements it.
type PageSettings interface {
	SeedOnApproval(context context.Context, pageID string, incoming settings.Fields) (*settings.SeedResult, error)
	DeleteLists(context context.Context, pageID string) error
	Delete(context context.Context, pageID string) error
}

// Teardown step names, as reported in [TeardownResult] and metrics.
const (
	stepChildLists   = "child_lists"
	stepPageSettings = "page_settings"
	stepAccount      = "account"
)

// # Service Layer

// Service orchestrates operator actions on accounts.
type Service struct {
	repo     Repository
	settings PageSettings
	now      func() time.Time
}

// NewService constructs a new [Service]. A nil clock defaults to time.Now.
func NewService(repo Repository, pageSettings PageSettings, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, settings: pageSettings, now: clock}
}

/*
Approve marks an account approved and seeds its page.

Description: An account without a page gets a freshly minted page id. The
seed only fills wedding fields that are still unset on the page, so
approving twice, or approving after the couple edited their page, never
overwrites their details.

Returns:
  - *ApprovalResult: The approved account and the seed outcome
  - error: NOT_FOUND for an unknown account, or a store failure
*/
func (service *Service) Approve(context context.Context, accountID string) (*ApprovalResult, error) {
	account, err := service.find(context, accountID)
	if err != nil {
		return nil, err
	}

	pageID := uuid.New()
	if account.PageID != nil && *account.PageID != "" {
		pageID = *account.PageID
	}

	approved, err := service.repo.Approve(context, account.Tenant, account.ID, pageID, service.now())
	if err != nil {
		return nil, fmt.Errorf("account_service_approve_failed: %w", err)
	}
	approved.Tenant = account.Tenant

	// The repository keeps an existing binding; seed the page actually bound.
	if approved.PageID != nil {
		pageID = *approved.PageID
	}

	seed, err := service.settings.SeedOnApproval(context, pageID, approved.Seed().Fields())
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("account_approved",
		slog.String("account_id", approved.ID),
		slog.String("tenant", string(approved.Tenant)),
		slog.String("page_id", pageID),
		slog.Bool("seed_noop", seed.Noop),
	)

	return &ApprovalResult{Account: approved, Seed: seed}, nil
}

/*
Teardown deletes an account and everything its page owns.

Description: The steps are not atomic. Each one (child lists, settings row,
account row) is attempted regardless of earlier failures; failures are
logged and counted, never failing the call.
*/
func (service *Service) Teardown(context context.Context, accountID string) (*TeardownResult, error) {
	account, err := service.find(context, accountID)
	if err != nil {
		return nil, err
	}

	result := &TeardownResult{AccountID: account.ID, FailedSteps: []string{}}
	logger := ctxutil.GetLogger(context)

	attempt := func(step string, run func() error) {
		if err := run(); err != nil {
			result.FailedSteps = append(result.FailedSteps, step)
			metrics.TeardownStepFailuresTotal.WithLabelValues(step).Inc()
			logger.Error("account_teardown_step_failed",
				slog.String("account_id", account.ID),
				slog.String("step", step),
				slog.Any("error", err),
			)
		}
	}

	if account.PageID != nil && *account.PageID != "" {
		pageID := *account.PageID
		result.PageID = pageID

		attempt(stepChildLists, func() error { return service.settings.DeleteLists(context, pageID) })
		attempt(stepPageSettings, func() error { return service.settings.Delete(context, pageID) })
	}
	attempt(stepAccount, func() error { return service.repo.Delete(context, account.Tenant, account.ID) })

	logger.Info("account_teardown_finished",
		slog.String("account_id", account.ID),
		slog.Int("failed_steps", len(result.FailedSteps)),
	)

	return result, nil
}

func (service *Service) find(context context.Context, accountID string) (*Account, error) {
	account, err := service.repo.FindByID(context, accountID)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFound("Account")
	}
	if err != nil {
		return nil, fmt.Errorf("account_service_find_failed: %w", err)
	}
	return account, nil
}
