package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/blobloader/internal/sqlbuild"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// PostgresConnector connects with the profile user and a password or cloud token.
type PostgresConnector struct {
	profile *blobloader.Profile
}

// NewPostgresConnector creates a PostgresConnector for profile.
func NewPostgresConnector(profile *blobloader.Profile) *PostgresConnector {
	return &PostgresConnector{profile: profile}
}

// Connect opens a single connection. An empty dsn uses the libpq defaults
// (PGHOST, PGPORT, PGDATABASE or localhost).
func (c *PostgresConnector) Connect(ctx context.Context, password string) (blobloader.Conn, error) {
	cfg, err := parseConfig(c.profile)
	if err != nil {
		return nil, err
	}
	cfg.Password = password

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &pgConn{conn: conn}, nil
}

// parseConfig builds the pgx configuration for a profile. The profile user
// always wins over any user in the dsn.
func parseConfig(profile *blobloader.Profile) (*pgx.ConnConfig, error) {
	cfg, err := pgx.ParseConfig(profile.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn for profile %q: %w", profile.Name, err)
	}
	cfg.User = profile.User
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = make(map[string]string)
	}
	if _, set := cfg.RuntimeParams["application_name"]; !set {
		cfg.RuntimeParams["application_name"] = blobloader.ApplicationName + "-" + uuid.NewString()
	}
	return cfg, nil
}

// pgConn runs the blob statements on one *pgx.Conn.
type pgConn struct {
	conn    *pgx.Conn
	onClose func() error
}

func (c *pgConn) UpdateBlob(ctx context.Context, query string, id int64, data []byte) (int64, error) {
	sql, args, err := sqlbuild.Bind(sqlbuild.DialectPostgres, query, map[string]any{
		sqlbuild.ParamID:   id,
		sqlbuild.ParamBlob: data,
	})
	if err != nil {
		return 0, err
	}

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return 0, driverError("begin", err)
	}
	// Rollback after Commit is a no-op.
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, driverError("update", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, driverError("commit", err)
	}
	return tag.RowsAffected(), nil
}

func (c *pgConn) SelectBlob(ctx context.Context, query string, id int64) ([]byte, error) {
	sql, args, err := sqlbuild.Bind(sqlbuild.DialectPostgres, query, map[string]any{
		sqlbuild.ParamID: id,
	})
	if err != nil {
		return nil, err
	}

	var data []byte
	if err := c.conn.QueryRow(ctx, sql, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blobloader.ErrRecordNotFound
		}
		return nil, driverError("select", err)
	}
	return data, nil
}

func (c *pgConn) Close(ctx context.Context) error {
	err := c.conn.Close(ctx)
	if c.onClose != nil {
		err = errors.Join(err, c.onClose())
	}
	return err
}

var (
	_ blobloader.Connector = (*PostgresConnector)(nil)
	_ blobloader.Conn      = (*pgConn)(nil)
)
