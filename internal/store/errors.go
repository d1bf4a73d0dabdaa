package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// classify maps driver and context failures onto the store error taxonomy.
// Errors that are already one of the store sentinels pass through.
func classify(ctx context.Context, operation string, err error) error {
	if err == nil {
		return nil
	}
	if isClientError(err) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueConstraintError(err) {
		return ErrDuplicateID.WithInternal(err)
	}
	if ctx.Err() != nil || isConnectivityError(err) {
		return ErrStoreUnavailable.WithInternal(fmt.Errorf("store: %s: %w", operation, err))
	}
	return fmt.Errorf("store: %s: %w", operation, err)
}

func isClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateID)
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// isUniqueConstraintError detects primary key violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "duplicate entry")
}

func isConnectivityError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && strings.HasPrefix(pgErr.Code, "08") {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "database is locked") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "sql: database is closed")
}
