// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AccountTable represents an account table.
// 'accounts' (customers) and 'partner_accounts' (partner tenants) share this shape.
type AccountTable struct {
	Table          string
	ID             string
	PageID         string
	UserURL        string
	WeddingDate    string
	GroomNameEN    string
	BrideNameEN    string
	ApprovalStatus string
	Role           string
	ApprovedAt     string
	CreatedAt      string
	UpdatedAt      string
}

// Accounts is the schema definition for accounts.
var Accounts = newAccountTable("accounts")

// PartnerAccounts is the schema definition for partner_accounts.
var PartnerAccounts = newAccountTable("partner_accounts")

func newAccountTable(name string) AccountTable {
	return AccountTable{
		Table:          name,
		ID:             "id",
		PageID:         "page_id",
		UserURL:        "user_url",
		WeddingDate:    "wedding_date",
		GroomNameEN:    "groom_name_en",
		BrideNameEN:    "bride_name_en",
		ApprovalStatus: "approval_status",
		Role:           "role",
		ApprovedAt:     "approved_at",
		CreatedAt:      "created_at",
		UpdatedAt:      "updated_at",
	}
}
