// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings (Postgres) implements the storage layer for settings rows
and their child lists.

# Schema Table Mapping
  - page_settings: one row per page_id (UNIQUE), mutable columns named after the allowlist.
  - transport_items / info_items: ordered child lists keyed by page_id.
*/
package settings

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/invitation/internal/platform/database/schema"
	"github.com/taibuivan/invitation/internal/platform/dberr"
)

// DB is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(context context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, args ...any) pgx.Row
	SendBatch(context context.Context, batch *pgx.Batch) pgx.BatchResults
	Begin(context context.Context) (pgx.Tx, error)
}

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx and scany.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository creates a new Postgres implementation for settings rows.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the projection shared by every read. Dates are read back
// as text so they round-trip in the same "YYYY-MM-DD" form clients send.
var selectColumns = func() string {
	columns := []string{
		schema.PageSettings.PageID,
		schema.PageSettings.CreatedAt,
		schema.PageSettings.UpdatedAt,
	}
	for _, spec := range mutableFields {
		if spec.kind == kindDate {
			columns = append(columns, fmt.Sprintf("%s::text AS %s", spec.name, spec.name))
			continue
		}
		columns = append(columns, spec.name)
	}
	return strings.Join(columns, ", ")
}()

/*
Get retrieves the settings row of a page.

Returns:
  - *PageSettings: The stored row
  - error: dberr.ErrNotFound or a classified store error
*/
func (repository *PostgresRepository) Get(context context.Context, pageID string) (*PageSettings, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		selectColumns, schema.PageSettings.Table, schema.PageSettings.PageID,
	)

	row := map[string]any{}
	if err := pgxscan.Get(context, repository.db, &row, query, pageID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, dberr.Wrap(err, "get_page_settings")
	}

	return settingsFromRow(row), nil
}

/*
Insert creates the row of a page. It relies on UNIQUE(page_id): a concurrent
creator makes this call fail with an error matching dberr.ErrDuplicate.
*/
func (repository *PostgresRepository) Insert(context context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error) {
	columns, args, err := writeColumns(pageID, fields, now)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES (%s)
		RETURNING %s`,
		schema.PageSettings.Table, strings.Join(columns, ", "), schema.PageSettings.CreatedAt,
		placeholders(len(args)+1),
		selectColumns,
	)

	row := map[string]any{}
	if err := pgxscan.Get(context, repository.db, &row, query, append(args, now)...); err != nil {
		return nil, dberr.Wrap(err, "insert_page_settings")
	}

	return settingsFromRow(row), nil
}

/*
Upsert writes the supplied fields keyed on page_id.

Description: Only the columns present in fields (plus updated_at) are
touched on conflict, so two partial writes to different columns both survive.
*/
func (repository *PostgresRepository) Upsert(context context.Context, pageID string, fields Fields, now time.Time) (*PageSettings, error) {
	columns, args, err := writeColumns(pageID, fields, now)
	if err != nil {
		return nil, err
	}

	updates := make([]string, 0, len(columns)-1)
	for _, column := range columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		ON CONFLICT (%s) DO UPDATE SET %s
		RETURNING %s`,
		schema.PageSettings.Table, strings.Join(columns, ", "),
		placeholders(len(args)),
		schema.PageSettings.PageID, strings.Join(updates, ", "),
		selectColumns,
	)

	row := map[string]any{}
	if err := pgxscan.Get(context, repository.db, &row, query, args...); err != nil {
		return nil, dberr.Wrap(err, "upsert_page_settings")
	}

	return settingsFromRow(row), nil
}

// Delete removes the row of a page.
func (repository *PostgresRepository) Delete(context context.Context, pageID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.PageSettings.Table, schema.PageSettings.PageID)

	if _, err := repository.db.Exec(context, query, pageID); err != nil {
		return dberr.Wrap(err, "delete_page_settings")
	}
	return nil
}

// # Helpers

// writeColumns returns page_id, the allowlisted keys of fields in a stable
// order and updated_at, with their arguments. Date strings become time.Time
// so pgx can bind them to the DATE column.
func writeColumns(pageID string, fields Fields, now time.Time) ([]string, []any, error) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if _, ok := allowlist[key]; ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	columns := make([]string, 0, len(keys)+2)
	args := make([]any, 0, len(keys)+2)

	columns = append(columns, schema.PageSettings.PageID)
	args = append(args, pageID)

	for _, key := range keys {
		value := fields[key]
		if text, ok := value.(string); ok && IsDateField(key) {
			date, err := time.Parse(dateLayout, text)
			if err != nil {
				return nil, nil, fmt.Errorf("settings: %s is not a date: %w", key, err)
			}
			value = date
		}
		columns = append(columns, key)
		args = append(args, value)
	}

	columns = append(columns, schema.PageSettings.UpdatedAt)
	args = append(args, now)

	return columns, args, nil
}

// placeholders renders "$1, $2, ..." for count arguments.
func placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// settingsFromRow splits a scanned row into bookkeeping and mutable fields.
func settingsFromRow(row map[string]any) *PageSettings {
	record := &PageSettings{Fields: make(Fields, len(mutableFields))}

	record.PageID, _ = row[schema.PageSettings.PageID].(string)
	record.CreatedAt, _ = row[schema.PageSettings.CreatedAt].(time.Time)
	record.UpdatedAt, _ = row[schema.PageSettings.UpdatedAt].(time.Time)

	for _, spec := range mutableFields {
		record.Fields[spec.name] = row[spec.name]
	}

	return record
}
