package storage

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Schema-boundary error classes. Both stores return these so handlers can map
// them to HTTP statuses without knowing which store is behind them.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("record already exists")
	ErrForeignKey  = errors.New("referenced record does not exist")
	ErrNotNull     = errors.New("required field missing")
	ErrInvalidEnum = errors.New("value outside enumeration")
)

// Postgres error codes for the four rejection classes the schema produces.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgInvalidEnumValue    = "22P02"
)

// translateError maps driver-level errors onto the storage sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		case pgNotNullViolation:
			return fmt.Errorf("%w: %s", ErrNotNull, pgErr.ColumnName)
		case pgInvalidEnumValue:
			return fmt.Errorf("%w: %s", ErrInvalidEnum, pgErr.Message)
		}
	}
	return err
}
