// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/invitation/internal/platform/apperr"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = errors.New("dberr: row not found")

	// ErrDuplicate is returned when an insert hits a unique constraint.
	// Callers that rely on the constraint for get-or-create check for it with [errors.Is].
	ErrDuplicate = errors.New("dberr: duplicate key")
)

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows becomes [ErrNotFound] (callers decide whether absence is an error).
//   - A unique violation becomes [ErrDuplicate] wrapped in a Conflict [apperr.AppError].
//   - Any other Postgres error becomes a Store [apperr.AppError] carrying the
//     server's message, detail, hint and SQLSTATE.
//   - Anything else becomes an Internal [apperr.AppError].
//
// action names the failing operation and is recorded in the cause for logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		cause := fmt.Errorf("%s: %w", action, err)

		if pgErr.Code == uniqueViolation {
			conflict := apperr.Conflict("Record already exists")
			conflict.Cause = fmt.Errorf("%w: %w", ErrDuplicate, cause)
			return conflict
		}

		return apperr.Store(cause, pgErr.Message, pgErr.Detail, pgErr.Hint, pgErr.Code)
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
