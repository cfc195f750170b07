package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes with a fixed operator message.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUndefinedColumn                   = "42703"
	pgCodeUndefinedTable                    = "42P01"
	pgCodeDatatypeMismatch                  = "42804"
	pgCodeInvalidPassword                   = "28P01"
	pgCodeInvalidAuthorizationSpecification = "28000"
)

// Operator messages for known database failures.
const (
	MsgInvalidColumn      = "Invalid column name"
	MsgInvalidTable       = "Invalid table name"
	MsgDatatypeMismatch   = "Datatype mismatch"
	MsgInvalidCredentials = "Invalid username or password"
)

var pgMessages = map[string]string{
	pgCodeUndefinedColumn:                   MsgInvalidColumn,
	pgCodeUndefinedTable:                    MsgInvalidTable,
	pgCodeDatatypeMismatch:                  MsgDatatypeMismatch,
	pgCodeInvalidPassword:                   MsgInvalidCredentials,
	pgCodeInvalidAuthorizationSpecification: MsgInvalidCredentials,
}

// Translation is a database error described in operator terms.
type Translation struct {
	// Code is the driver error code (SQLSTATE or SQLite result code).
	Code string
	// Message is the fixed message for known codes, otherwise the raw driver message.
	Message string
	// Known is true when Code matched the translation table.
	Known bool
	// Raw is the driver's own message.
	Raw string
}

// Translate describes err if it originates from a database driver.
// ok is false for errors that are not database errors.
func Translate(err error) (t Translation, ok bool) {
	if err == nil {
		return Translation{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		t = Translation{Code: pgErr.Code, Raw: pgErr.Message, Message: pgErr.Message}
		if msg, known := pgMessages[pgErr.Code]; known {
			t.Message, t.Known = msg, true
		}
		return t, true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return translateSQLite(liteErr), true
	}

	var drvErr *DriverError
	if errors.As(err, &drvErr) {
		raw := drvErr.Err.Error()
		return Translation{Raw: raw, Message: fmt.Sprintf("%s failed: %s", drvErr.Op, raw)}, true
	}

	return Translation{}, false
}

// DriverError is a failure reported by the database driver while running a
// statement, such as a connection dropped during execute or commit. Server
// errors inside it are still translated by their code.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// driverError wraps err as a *DriverError; nil stays nil.
func driverError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Op: op, Err: err}
}

func translateSQLite(e *sqlite.Error) Translation {
	code := e.Code()
	raw := e.Error()
	t := Translation{Code: fmt.Sprintf("SQLITE_%d", code), Raw: raw, Message: raw}

	// SQLite reports unknown identifiers as a generic SQLITE_ERROR.
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "no such column"):
		t.Message, t.Known = MsgInvalidColumn, true
	case strings.Contains(lower, "no such table"):
		t.Message, t.Known = MsgInvalidTable, true
	case code&0xff == sqlite3.SQLITE_MISMATCH:
		t.Message, t.Known = MsgDatatypeMismatch, true
	case code&0xff == sqlite3.SQLITE_AUTH:
		t.Message, t.Known = MsgInvalidCredentials, true
	}
	return t
}

// ConnectionMessage describes a failed connection attempt. Known database
// codes use the translation table; network failures get troubleshooting
// hints; anything else keeps the raw message.
func ConnectionMessage(err error, target string) string {
	if t, ok := Translate(err); ok {
		return t.Message
	}
	return connectionHint(err, target)
}

func connectionHint(err error, target string) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Sprintf(`connection refused to %s

Possible causes:
  - The database server is not running
  - Wrong host or port in dsn
  - Firewall blocking the connection

Original error: %v`, target, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Sprintf(`cannot resolve host for %s

Possible causes:
  - Hostname in dsn is misspelled
  - DNS is not configured or reachable

Original error: %v`, target, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

Original error: %v`, target, err)

	default:
		return err.Error()
	}
}
