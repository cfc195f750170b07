package blobloader

import "fmt"

// Driver selects the database backend a profile talks to.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ParseDriver converts a profile value into a Driver. Empty means postgres.
func ParseDriver(s string) (Driver, error) {
	switch s {
	case "", "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unknown driver %q (expected postgres or sqlite): %w", s, ErrInvalidConfig)
	}
}

// AuthMethod represents the authentication mechanism used to connect.
type AuthMethod int

const (
	// AuthMethodPassword uses the profile user with a prompted, piped or stored password.
	AuthMethodPassword AuthMethod = iota
	// AuthMethodAWSIAM uses an RDS IAM auth token as the password.
	AuthMethodAWSIAM
	// AuthMethodAzureEntraID uses an Entra ID access token as the password.
	AuthMethodAzureEntraID
	// AuthMethodGoogleIAM dials through the Cloud SQL connector with IAM authentication.
	AuthMethodGoogleIAM
)

func (a AuthMethod) String() string {
	switch a {
	case AuthMethodPassword:
		return "password"
	case AuthMethodAWSIAM:
		return "aws-iam"
	case AuthMethodAzureEntraID:
		return "azure"
	case AuthMethodGoogleIAM:
		return "google"
	default:
		return "unknown"
	}
}

// ParseAuthMethod converts a profile value into an AuthMethod. Empty means password.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "", "password", "standard":
		return AuthMethodPassword, nil
	case "aws-iam", "aws":
		return AuthMethodAWSIAM, nil
	case "azure", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	case "google", "google-iam":
		return AuthMethodGoogleIAM, nil
	default:
		return 0, fmt.Errorf("auth method %q: %w", s, ErrUnsupportedAuthMethod)
	}
}

// NeedsPassword reports whether the method consumes a password or token.
func (a AuthMethod) NeedsPassword() bool {
	return a != AuthMethodGoogleIAM
}

// Profile is a resolved, validated configuration profile.
// It is immutable once returned by the resolver.
type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	User       string `json:"user" yaml:"user"`
	TableName  string `json:"table_name" yaml:"table_name"`
	IDColumn   string `json:"id_column" yaml:"id_column"`
	BlobColumn string `json:"blob_column" yaml:"blob_column"`
	Schema     string `json:"schema,omitempty" yaml:"schema,omitempty"`
	DSN        string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	Driver     Driver     `json:"driver" yaml:"driver"`
	AuthMethod AuthMethod `json:"-" yaml:"-"`

	AWSRegion      string `json:"aws_region,omitempty" yaml:"aws_region,omitempty"`
	AzureTenantID  string `json:"azure_tenant_id,omitempty" yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `json:"azure_client_id,omitempty" yaml:"azure_client_id,omitempty"`
	GoogleInstance string `json:"google_instance,omitempty" yaml:"google_instance,omitempty"`
}

// SchemaPrefix renders the schema with its trailing separator, or "" when unset.
func (p *Profile) SchemaPrefix() string {
	if p.Schema == "" {
		return ""
	}
	return p.Schema + "."
}

// IdentityKey returns the credential store key for this profile.
func (p *Profile) IdentityKey() string {
	return IdentityKey(p.User, p.DSN)
}

// IsLocal reports whether the profile targets the default/local connection.
func (p *Profile) IsLocal() bool {
	return p.DSN == ""
}

// IdentityKey renders "<user>@<dsn>", substituting LocalDSN for an empty dsn.
func IdentityKey(user, dsn string) string {
	if dsn == "" {
		dsn = LocalDSN
	}
	return user + "@" + dsn
}
