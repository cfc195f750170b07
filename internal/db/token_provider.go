package db

import (
	"fmt"
	"os"

	"github.com/vvka-141/blobloader/internal/credentials"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// NewTokenProvider creates the cloud token provider for profiles using
// aws-iam or azure authentication.
func NewTokenProvider(profile *blobloader.Profile) (credentials.TokenProvider, error) {
	switch profile.AuthMethod {
	case blobloader.AuthMethodAWSIAM:
		cfg, err := parseConfig(profile)
		if err != nil {
			return nil, err
		}
		region := profile.AWSRegion
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		endpoint := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		return NewAWSIAMTokenProvider(endpoint, region, profile.User)

	case blobloader.AuthMethodAzureEntraID:
		tenantID := firstNonEmpty(profile.AzureTenantID, os.Getenv("AZURE_TENANT_ID"))
		clientID := firstNonEmpty(profile.AzureClientID, os.Getenv("AZURE_CLIENT_ID"))
		secret := os.Getenv("AZURE_CLIENT_SECRET")
		if tenantID != "" && clientID != "" && secret != "" {
			return NewAzureServicePrincipalProvider(tenantID, clientID, secret)
		}
		return NewAzureDefaultCredentialProvider()

	default:
		return nil, fmt.Errorf("auth method %s does not use tokens: %w", profile.AuthMethod, blobloader.ErrUnsupportedAuthMethod)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
