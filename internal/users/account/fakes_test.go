// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/invitation/internal/pages/settings"
	"github.com/taibuivan/invitation/internal/platform/dberr"
)

// memoryRepository is an in-process [Repository].
type memoryRepository struct {
	mu       sync.Mutex
	accounts []*Account
	lookups  int
	failWith error
}

func (repository *memoryRepository) add(tenant Tenant, account Account) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	account.Tenant = tenant
	repository.accounts = append(repository.accounts, &account)
}

func (repository *memoryRepository) FindPageByHandle(_ context.Context, tenant Tenant, handle string, weddingDate *time.Time) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.lookups++
	if repository.failWith != nil {
		return "", repository.failWith
	}

	var best *Account
	for _, account := range repository.accounts {
		if account.Tenant != tenant || strings.ToLower(account.UserURL) != handle || account.PageID == nil {
			continue
		}
		if weddingDate != nil && (account.WeddingDate == nil || *account.WeddingDate != weddingDate.Format("2006-01-02")) {
			continue
		}
		if best == nil || account.UpdatedAt.After(best.UpdatedAt) {
			best = account
		}
	}

	if best == nil {
		return "", dberr.ErrNotFound
	}
	return *best.PageID, nil
}

func (repository *memoryRepository) find(match func(*Account) bool) (*Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, tenant := range lookupOrder {
		for _, account := range repository.accounts {
			if account.Tenant == tenant && match(account) {
				clone := *account
				return &clone, nil
			}
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Account, error) {
	return repository.find(func(account *Account) bool { return account.ID == id })
}

func (repository *memoryRepository) FindByPageID(_ context.Context, pageID string) (*Account, error) {
	return repository.find(func(account *Account) bool { return account.PageID != nil && *account.PageID == pageID })
}

func (repository *memoryRepository) Approve(_ context.Context, tenant Tenant, id, pageID string, now time.Time) (*Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, account := range repository.accounts {
		if account.Tenant == tenant && account.ID == id {
			account.ApprovalStatus = StatusApproved
			if account.PageID == nil {
				bound := pageID
				account.PageID = &bound
			}
			account.ApprovedAt = &now
			account.UpdatedAt = now
			clone := *account
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) Delete(_ context.Context, tenant Tenant, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.failWith != nil {
		return repository.failWith
	}
	for i, account := range repository.accounts {
		if account.Tenant == tenant && account.ID == id {
			repository.accounts = append(repository.accounts[:i], repository.accounts[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

// fakePageSettings records what the account service asked of settings.
type fakePageSettings struct {
	seeded     map[string]settings.Fields
	deleted    []string
	failLists  error
	failDelete error
	seedNoop   bool
}

func newFakePageSettings() *fakePageSettings {
	return &fakePageSettings{seeded: map[string]settings.Fields{}}
}

func (fake *fakePageSettings) SeedOnApproval(_ context.Context, pageID string, incoming settings.Fields) (*settings.SeedResult, error) {
	fake.seeded[pageID] = incoming
	return &settings.SeedResult{Noop: fake.seedNoop}, nil
}

func (fake *fakePageSettings) DeleteLists(_ context.Context, pageID string) error {
	if fake.failLists != nil {
		return fake.failLists
	}
	fake.deleted = append(fake.deleted, "lists:"+pageID)
	return nil
}

func (fake *fakePageSettings) Delete(_ context.Context, pageID string) error {
	if fake.failDelete != nil {
		return fake.failDelete
	}
	fake.deleted = append(fake.deleted, "settings:"+pageID)
	return nil
}

var errStoreDown = errors.New("store unavailable")
