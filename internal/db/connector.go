// Package db opens database connections for blobloader profiles.
package db

import (
	"fmt"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// NewConnector is a factory function that creates the appropriate Connector
// based on the profile's driver and auth method. It satisfies
// blobloader.ConnectorFactory.
func NewConnector(profile *blobloader.Profile) (blobloader.Connector, error) {
	switch profile.Driver {
	case blobloader.DriverPostgres, "":
		switch profile.AuthMethod {
		case blobloader.AuthMethodPassword, blobloader.AuthMethodAWSIAM, blobloader.AuthMethodAzureEntraID:
			return NewPostgresConnector(profile), nil
		case blobloader.AuthMethodGoogleIAM:
			return NewGoogleCloudSQLConnector(profile), nil
		default:
			return nil, fmt.Errorf("unsupported auth method %v: %w", profile.AuthMethod, blobloader.ErrUnsupportedAuthMethod)
		}
	case blobloader.DriverSQLite:
		return NewSQLiteConnector(profile), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q: %w", profile.Driver, blobloader.ErrInvalidConfig)
	}
}

// Target describes where a profile connects, for messages. Never includes secrets.
func Target(profile *blobloader.Profile) string {
	if profile.IsLocal() {
		return fmt.Sprintf("%s (local default)", profile.Driver)
	}
	if profile.Driver == blobloader.DriverPostgres {
		if cfg, err := parseConfig(profile); err == nil {
			return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
		}
	}
	return profile.DSN
}

var _ blobloader.ConnectorFactory = NewConnector
