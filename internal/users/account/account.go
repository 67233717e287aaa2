// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages the account records that own invitation pages.

Accounts are created by the sign-up flow (outside this service). Here they
are resolved from public handles, approved by operators (which binds a page
and seeds its settings) and torn down.

# Tenants

Two account classes share one shape: customers in 'accounts' and partner
tenants in 'partner_accounts'. Lookups always try customers first.
*/
package account

import (
	"time"

	"github.com/taibuivan/invitation/internal/pages/settings"
	"github.com/taibuivan/invitation/pkg/pointer"
)

// # Domain Entities

// Tenant names the table an account lives in.
type Tenant string

const (
	TenantCustomer Tenant = "customer"
	TenantPartner  Tenant = "partner"
)

// lookupOrder is the order handles and ids are searched in.
var lookupOrder = []Tenant{TenantCustomer, TenantPartner}

// ApprovalStatus is the review state of an account.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Account is one row of an account table.
type Account struct {
	ID             string         `json:"id" db:"id"`
	PageID         *string        `json:"page_id" db:"page_id"`
	UserURL        string         `json:"user_url" db:"user_url"`
	WeddingDate    *string        `json:"wedding_date" db:"wedding_date"`
	GroomNameEN    *string        `json:"groom_name_en" db:"groom_name_en"`
	BrideNameEN    *string        `json:"bride_name_en" db:"bride_name_en"`
	ApprovalStatus ApprovalStatus `json:"approval_status" db:"approval_status"`
	RoleName       string         `json:"role" db:"role"`
	ApprovedAt     *time.Time     `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`

	// Tenant is set by the repository from the table the row came from.
	Tenant Tenant `json:"tenant" db:"-"`
}

// Seed returns the wedding fields used to seed page settings.
func (account *Account) Seed() settings.AccountSeed {
	return settings.AccountSeed{
		WeddingDate: pointer.Val(account.WeddingDate),
		GroomNameEN: pointer.Val(account.GroomNameEN),
		BrideNameEN: pointer.Val(account.BrideNameEN),
	}
}

// ApprovalResult is returned by [Service.Approve].
type ApprovalResult struct {
	Account *Account             `json:"account"`
	Seed    *settings.SeedResult `json:"seed"`
}

// TeardownResult is returned by [Service.Teardown].
type TeardownResult struct {
	AccountID string `json:"account_id"`
	PageID    string `json:"page_id,omitempty"`
	// FailedSteps lists the steps that failed. Logged, never sent to clients.
	FailedSteps []string `json:"-"`
}
