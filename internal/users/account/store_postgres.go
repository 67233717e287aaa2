// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for account records.

# Schema Table Mapping
  - accounts: customer accounts.
  - partner_accounts: partner tenant accounts, same columns.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/invitation/internal/platform/database/schema"
	"github.com/taibuivan/invitation/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx and scany.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for accounts.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func tableFor(tenant Tenant) (schema.AccountTable, error) {
	switch tenant {
	case TenantCustomer:
		return schema.Accounts, nil
	case TenantPartner:
		return schema.PartnerAccounts, nil
	default:
		return schema.AccountTable{}, fmt.Errorf("account: unknown tenant %q", tenant)
	}
}

// accountColumns is the projection of an account row. Dates are read as
// text so they reach the settings seed in "YYYY-MM-DD" form.
func accountColumns(table schema.AccountTable) string {
	return fmt.Sprintf("%s, %s, %s, %s::text AS %s, %s, %s, %s, %s, %s, %s, %s",
		table.ID, table.PageID, table.UserURL,
		table.WeddingDate, table.WeddingDate,
		table.GroomNameEN, table.BrideNameEN, table.ApprovalStatus, table.Role,
		table.ApprovedAt, table.CreatedAt, table.UpdatedAt,
	)
}

/*
FindPageByHandle returns the page bound to a handle in one tenant table.

Parameters:
  - context: context.Context
  - tenant: Tenant
  - handle: string (normalized)
  - weddingDate: *time.Time (nil for a bare handle match)

Returns:
  - string: The page id of the most recently updated match
  - error: dberr.ErrNotFound or a classified store error
*/
func (repository *PostgresRepository) FindPageByHandle(context context.Context, tenant Tenant, handle string, weddingDate *time.Time) (string, error) {
	table, err := tableFor(tenant)
	if err != nil {
		return "", err
	}

	arguments := []any{handle}
	dateFilter := ""
	if weddingDate != nil {
		dateFilter = fmt.Sprintf("AND %s = $2", table.WeddingDate)
		arguments = append(arguments, *weddingDate)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE lower(%s) = $1 %s AND %s IS NOT NULL
		ORDER BY %s DESC, %s DESC
		LIMIT 1`,
		table.PageID,
		table.Table,
		table.UserURL, dateFilter, table.PageID,
		table.UpdatedAt, table.CreatedAt,
	)

	var pageID string
	if err := pgxscan.Get(context, repository.pool, &pageID, query, arguments...); err != nil {
		if pgxscan.NotFound(err) {
			return "", dberr.ErrNotFound
		}
		return "", dberr.Wrap(err, "find_page_by_handle")
	}

	return pageID, nil
}

// FindByID searches customers, then partners.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	return repository.findFirst(context, func(table schema.AccountTable) string { return table.ID }, id)
}

// FindByPageID searches customers, then partners.
func (repository *PostgresRepository) FindByPageID(context context.Context, pageID string) (*Account, error) {
	return repository.findFirst(context, func(table schema.AccountTable) string { return table.PageID }, pageID)
}

func (repository *PostgresRepository) findFirst(context context.Context, column func(schema.AccountTable) string, value string) (*Account, error) {
	for _, tenant := range lookupOrder {
		table, err := tableFor(tenant)
		if err != nil {
			return nil, err
		}

		query := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE %s = $1
			ORDER BY %s DESC
			LIMIT 1`,
			accountColumns(table), table.Table, column(table), table.UpdatedAt,
		)

		account := &Account{}
		err = pgxscan.Get(context, repository.pool, account, query, value)
		if err == nil {
			account.Tenant = tenant
			return account, nil
		}
		if !pgxscan.NotFound(err) {
			return nil, dberr.Wrap(err, "find_account")
		}
	}

	return nil, dberr.ErrNotFound
}

/*
Approve marks an account approved and binds pageID when none is bound.

Description: COALESCE keeps an existing binding so a page id is never
reassigned once created.
*/
func (repository *PostgresRepository) Approve(context context.Context, tenant Tenant, id, pageID string, now time.Time) (*Account, error) {
	table, err := tableFor(tenant)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = COALESCE(%s, $3), %s = $4, %s = $4
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.ApprovalStatus, table.PageID, table.PageID, table.ApprovedAt, table.UpdatedAt,
		table.ID,
		accountColumns(table),
	)

	account := &Account{}
	if err := pgxscan.Get(context, repository.pool, account, query, id, string(StatusApproved), pageID, now); err != nil {
		if pgxscan.NotFound(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, dberr.Wrap(err, "approve_account")
	}

	account.Tenant = tenant
	return account, nil
}

// Delete removes an account row.
func (repository *PostgresRepository) Delete(context context.Context, tenant Tenant, id string) error {
	table, err := tableFor(tenant)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_account")
	}
	if tag.RowsAffected() == 0 {
		return errors.Join(dberr.ErrNotFound, fmt.Errorf("account %s already gone", id))
	}
	return nil
}
