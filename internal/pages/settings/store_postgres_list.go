// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/invitation/internal/platform/database/schema"
	"github.com/taibuivan/invitation/internal/platform/dberr"
)

// PostgresListRepository implements [ListRepository] using pgx.
//
// Inside [PostgresListRepository.InTx] the delete step runs under a
// savepoint: a failed delete is rolled back on its own and the insert still
// runs, while a failed insert rolls back the whole transaction so the
// previous list survives.
type PostgresListRepository struct {
	db DB
	// inTx is set on the copy handed to InTx callbacks.
	inTx bool
}

// NewPostgresListRepository creates a new Postgres implementation for child lists.
func NewPostgresListRepository(db DB) *PostgresListRepository {
	return &PostgresListRepository{db: db}
}

func tableFor(kind ListKind) (schema.ListItemTable, error) {
	switch kind {
	case ListTransport:
		return schema.TransportItems, nil
	case ListInfo:
		return schema.InfoItems, nil
	default:
		return schema.ListItemTable{}, fmt.Errorf("settings: unknown list kind %q", kind)
	}
}

// Items returns the list ordered by display_order, ties broken by array position.
func (repository *PostgresListRepository) Items(context context.Context, pageID string, kind ListKind) ([]ListItem, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC`,
		table.ID, table.PageID, table.Title, table.Description, table.DisplayOrder,
		table.Table,
		table.PageID,
		table.DisplayOrder, table.Position,
	)

	items := []ListItem{}
	if err := pgxscan.Select(context, repository.db, &items, query, pageID); err != nil {
		return nil, dberr.Wrap(err, "list_"+string(kind)+"_items")
	}
	return items, nil
}

// DeleteItems removes every item of the list.
func (repository *PostgresListRepository) DeleteItems(context context.Context, pageID string, kind ListKind) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.PageID)

	if !repository.inTx {
		_, err := repository.db.Exec(context, query, pageID)
		return dberr.Wrap(err, "delete_"+string(kind)+"_items")
	}

	// Nested Begin on a pgx.Tx issues SAVEPOINT.
	savepoint, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "savepoint_"+string(kind)+"_items")
	}

	if _, err := savepoint.Exec(context, query, pageID); err != nil {
		_ = savepoint.Rollback(context)
		return dberr.Wrap(err, "delete_"+string(kind)+"_items")
	}

	return dberr.Wrap(savepoint.Commit(context), "release_"+string(kind)+"_items")
}

// InsertItems writes all items in one batch round trip.
func (repository *PostgresListRepository) InsertItems(context context.Context, pageID string, kind ListKind, items []ListItem) error {
	if len(items) == 0 {
		return nil
	}

	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, table.ID, table.PageID, table.Title, table.Description, table.DisplayOrder, table.Position,
	)

	batch := &pgx.Batch{}
	for position, item := range items {
		batch.Queue(query, item.ID, pageID, item.Title, item.Description, item.DisplayOrder, position)
	}

	results := repository.db.SendBatch(context, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return dberr.Wrap(err, "insert_"+string(kind)+"_items")
		}
	}

	return dberr.Wrap(results.Close(), "insert_"+string(kind)+"_items")
}

// InTx runs fn inside one transaction, committing only if fn succeeds.
func (repository *PostgresListRepository) InTx(context context.Context, fn func(tx ListRepository) error) (err error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_list_tx")
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = errors.Join(err, rollbackErr)
			}
		}
	}()

	if err = fn(&PostgresListRepository{db: tx, inTx: true}); err != nil {
		return err
	}

	return dberr.Wrap(tx.Commit(context), "commit_list_tx")
}
