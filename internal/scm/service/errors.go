package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalidTextRepresentation is Postgres SQLSTATE 22P02, raised when a value
// cannot be parsed as the column's type, e.g. a malformed ID compared against
// a uuid column.
const invalidTextRepresentation = "22P02"

// Error kinds surfaced to the API layer. Handlers map them with errors.Is:
// ErrNotFound -> 404, ErrInvalidInput -> 400, ErrTxFailed -> 500 (retryable).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTxFailed     = errors.New("transaction failed")
)

// notFoundOr wraps a repository read error: a missing row becomes ErrNotFound
// with the given subject, anything else passes through wrapped. A lookup by a
// malformed ID cannot match any row, so 22P02 maps to ErrNotFound as well.
func notFoundOr(err error, subject string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || isMalformedID(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	}
	return fmt.Errorf("%s: %w", subject, err)
}

func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
