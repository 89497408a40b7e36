package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskhive/backend/domain"
)

// Postgres error codes surfaced as typed domain failures.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// isIntegrityViolation reports whether err is a commit-time constraint
// failure that callers should treat as a conflict.
func isIntegrityViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case uniqueViolationCode, foreignKeyViolationCode, checkViolationCode, notNullViolationCode:
		return true
	default:
		return false
	}
}

// mapWriteError classifies a failed insert/update so the usecase layer can
// branch on the error code.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if isIntegrityViolation(err) {
		return domain.WrapError(domain.ErrCodeConflict, "integrity violation", err)
	}
	return err
}
