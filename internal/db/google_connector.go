package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// GoogleCloudSQLConnector connects to Google Cloud SQL using IAM database
// authentication via the Cloud SQL Go Connector. No password is used.
type GoogleCloudSQLConnector struct {
	profile *blobloader.Profile
}

// NewGoogleCloudSQLConnector creates a connector for the profile's google_instance
// (project:region:instance).
func NewGoogleCloudSQLConnector(profile *blobloader.Profile) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{profile: profile}
}

// Connect dials the instance through a Cloud SQL dialer. The dialer is
// released when the returned Conn is closed.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context, _ string) (blobloader.Conn, error) {
	if c.profile.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires google_instance (project:region:instance)")
	}

	cfg, err := parseConfig(c.profile)
	if err != nil {
		return nil, err
	}

	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	instance := c.profile.GoogleInstance
	cfg.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}
	// The dialer resolves the instance itself.
	cfg.LookupFunc = func(_ context.Context, host string) ([]string, error) {
		return []string{host}, nil
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		dialer.Close()
		return nil, err
	}
	return &pgConn{conn: conn, onClose: dialer.Close}, nil
}

var _ blobloader.Connector = (*GoogleCloudSQLConnector)(nil)
