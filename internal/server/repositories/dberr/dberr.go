// Package dberr maps driver and gorm errors onto the sentinels in common.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation from
// SQLite or PostgreSQL.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "duplicate key value violates unique constraint")
}

// Wrap converts err into a sentinel-carrying error. gorm.ErrRecordNotFound
// becomes common.ErrorNotFound, unique violations become common.ErrorConflict,
// anything else is wrapped as a plain db error.
func Wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrorNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", common.ErrorConflict, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
