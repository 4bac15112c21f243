package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "minimarket/internal/errors"
)

// lockForUpdate applies SELECT ... FOR UPDATE on stores that support it.
// SQLite (the test database) has no row-level locks and serializes writers
// itself, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// SQLSTATE codes that indicate lock contention rather than a real failure.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// storeErr maps deadlock and lock-timeout failures to ErrContention so
// callers can retry; anything else becomes an internal error.
func storeErr(err error) *apperrors.AppError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return apperrors.Wrap(apperrors.ErrContention, err)
		}
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// asAppError normalizes an error coming out of a gorm transaction: AppErrors
// pass through untouched, commit-time store failures are classified.
func asAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return storeErr(err)
}
