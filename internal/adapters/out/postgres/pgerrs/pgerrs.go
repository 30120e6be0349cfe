// Package pgerrs classifies PostgreSQL driver errors for the repositories.
package pgerrs

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"orderengine/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolation      = "23505"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	LockNotAvailable     = "55P03"
	QueryCanceled        = "57014"
	AdminShutdown        = "57P01"
	CannotConnectNow     = "57P03"
)

var transientCodes = map[string]struct{}{
	SerializationFailure: {},
	DeadlockDetected:     {},
	LockNotAvailable:     {},
	QueryCanceled:        {},
	AdminShutdown:        {},
	CannotConnectNow:     {},
}

// Translate wraps failures a retry may fix in errs.TransientStoreError and
// returns everything else unchanged. Cancellation of ctx is never transient.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsTransient(err) {
		return errs.NewTransientStoreError(err)
	}
	return err
}

// IsTransient reports serialization failures, deadlocks, lock and statement
// timeouts and lost connections.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := transientCodes[pgErr.Code]
		return ok
	}

	var netErr net.Error
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &netErr) ||
		pgconn.SafeToRetry(err)
}

// IsUniqueViolation reports a unique index violation, optionally on a specific
// constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
