package blobloader

import "context"

// Conn is a single open database connection able to run the two blob statements.
// Queries use :name placeholders; implementations bind them for their driver.
//
// Thread-Safety: NOT safe for concurrent use.
type Conn interface {
	// UpdateBlob executes query with id and data bound, then commits.
	// Returns the number of rows the statement matched.
	UpdateBlob(ctx context.Context, query string, id int64, data []byte) (int64, error)

	// SelectBlob executes query with id bound and returns the blob of the first row.
	// Returns ErrRecordNotFound when no row matches.
	SelectBlob(ctx context.Context, query string, id int64) ([]byte, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Connector opens connections for a profile.
type Connector interface {
	Connect(ctx context.Context, password string) (Conn, error)
}

// ConnectorFactory creates a Connector for a profile.
type ConnectorFactory func(profile *Profile) (Connector, error)

// PasswordSource obtains the password (or token) used to connect.
type PasswordSource interface {
	// Password returns the secret for user@dsn. ok is false when the source has nothing
	// to offer and the next source should be tried.
	Password(ctx context.Context, user, dsn string) (password string, ok bool, err error)
}
