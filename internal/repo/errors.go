package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/SaladDann/SIGECOB/internal/domain"
)

const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// TranslateError maps driver errors onto domain kinds. Errors it does not
// recognise are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgCheckViolation:
			if strings.Contains(pgErr.ConstraintName, "stock") {
				return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, pgErr.Message)
			}
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrPersistence, pgErr.Message)
		}
		return err
	}

	// sqlite and mysql report constraint failures only through the message
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate entry"):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case strings.Contains(msg, "check constraint") && strings.Contains(msg, "stock"):
		return fmt.Errorf("%w: %w", domain.ErrInsufficientStock, err)
	}
	return err
}
