// Package repositories provides the PostgreSQL-backed implementations of the
// catalogue's domain repository interfaces.
package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// nullString maps empty strings to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps nil to SQL NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// likePattern builds a case-insensitive substring match argument.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// wrapQueryErr converts a database error, mapping sql.ErrNoRows onto the
// given not-found code.
func wrapQueryErr(err error, notFoundCode errors.ErrorCode, message string) error {
	if err == sql.ErrNoRows {
		return errors.New(notFoundCode, message)
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, message)
}

// placeholder returns the positional parameter token for argument n (1-based).
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// uuidOrNil maps a nil UUID pointer to SQL NULL.
func uuidOrNil(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// requireAffected returns a not-found error when a write touched no rows.
func requireAffected(res sql.Result, notFoundCode errors.ErrorCode, message string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, message)
	}
	if n == 0 {
		return errors.New(notFoundCode, message)
	}
	return nil
}

// prefixedConceptColumns qualifies the concept column list with a table
// alias for joined selects.
func prefixedConceptColumns(alias string) string {
	cols := strings.Split(conceptColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

//Personal.AI order the ending
