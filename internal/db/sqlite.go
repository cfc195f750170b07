package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/vvka-141/blobloader/internal/config"
	"github.com/vvka-141/blobloader/internal/sqlbuild"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// SQLiteConnector opens the database file named by the profile dsn.
// SQLite has no authentication; the password is ignored.
type SQLiteConnector struct {
	profile *blobloader.Profile
}

// NewSQLiteConnector creates a SQLiteConnector for profile.
func NewSQLiteConnector(profile *blobloader.Profile) *SQLiteConnector {
	return &SQLiteConnector{profile: profile}
}

// Connect opens the database and pins a single connection. A missing file is
// an error rather than silently creating an empty database.
func (c *SQLiteConnector) Connect(ctx context.Context, _ string) (blobloader.Conn, error) {
	path, err := config.ExpandPath(c.profile.DSN)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite database %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return nil, err
	}
	return &sqliteConn{db: db, conn: conn}, nil
}

// sqliteDSN renders path as a file: URI so that "?" and "#" in the path are
// not taken as the start of the query string.
func sqliteDSN(path string) string {
	return "file:" + url.PathEscape(filepath.ToSlash(path)) + "?_pragma=busy_timeout(5000)"
}

// sqliteConn runs the blob statements on one pinned *sql.Conn.
type sqliteConn struct {
	db   *sql.DB
	conn *sql.Conn
}

func (c *sqliteConn) UpdateBlob(ctx context.Context, query string, id int64, data []byte) (int64, error) {
	q, args, err := sqlbuild.Bind(sqlbuild.DialectSQLite, query, map[string]any{
		sqlbuild.ParamID:   id,
		sqlbuild.ParamBlob: data,
	})
	if err != nil {
		return 0, err
	}

	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, driverError("begin", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, driverError("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, driverError("update", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, driverError("commit", err)
	}
	return affected, nil
}

func (c *sqliteConn) SelectBlob(ctx context.Context, query string, id int64) ([]byte, error) {
	q, args, err := sqlbuild.Bind(sqlbuild.DialectSQLite, query, map[string]any{
		sqlbuild.ParamID: id,
	})
	if err != nil {
		return nil, err
	}

	var data []byte
	if err := c.conn.QueryRowContext(ctx, q, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, blobloader.ErrRecordNotFound
		}
		return nil, driverError("select", err)
	}
	return data, nil
}

func (c *sqliteConn) Close(_ context.Context) error {
	return errors.Join(c.conn.Close(), c.db.Close())
}

var (
	_ blobloader.Connector = (*SQLiteConnector)(nil)
	_ blobloader.Conn      = (*sqliteConn)(nil)
)
