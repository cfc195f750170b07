package blobloader

// Exit codes for semantic error classification.
// The numbering is part of the command-line contract and is relied upon by
// existing scripts, so it does not follow the usual 0/1/2 usage convention.
const (
	ExitSuccess         = 0  // Operation completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitFileError       = 2  // Source file or destination directory missing
	ExitConfigError     = 3  // Configuration file, profile or field missing
	ExitConnectionError = 8  // Failed to connect to database
	ExitOperationError  = 9  // Statement execution, commit or fetch failed
	ExitPanic           = 70 // Internal panic (unexpected crash)
)

const (
	// DefaultConfigFile is the configuration file used when --cfgfile is not given.
	DefaultConfigFile = "~/.blobloader"

	// DefaultConfigKey is the profile used when --cfgkey is not given.
	DefaultConfigKey = "default"

	// DefaultPasswordFile is the credential file used when --passwdfile is not given.
	DefaultPasswordFile = "~/.blobloader_passwd"

	// LocalDSN is the identity sentinel used when a profile has no dsn.
	LocalDSN = "LOCAL"

	// ApplicationName prefixes the application_name reported to PostgreSQL.
	ApplicationName = "blobloader"
)
