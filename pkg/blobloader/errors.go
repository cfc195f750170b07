package blobloader

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := sess.Dump(ctx, 42, "out.bin")
//	if errors.Is(err, blobloader.ErrRecordNotFound) {
//	    // nothing stored under id 42
//	}
var (
	// ErrInvalidConfig indicates the configuration file, profile or a required field is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFileNotFound indicates a source file or destination directory does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates a statement, commit or fetch failed.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrRecordNotFound indicates the select statement matched no row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNotConnected indicates an operation was attempted on a disconnected session.
	ErrNotConnected = errors.New("session not connected")

	// ErrCredentialNotFound indicates the credential file has no entry for the identity.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// Kind classifies a failure for exit code selection.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindFilesystem
	KindConnection
	KindOperation
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration"
	case KindFilesystem:
		return "filesystem"
	case KindConnection:
		return "connection"
	case KindOperation:
		return "operation"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit code for the kind.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfig:
		return ExitConfigError
	case KindFilesystem:
		return ExitFileError
	case KindConnection:
		return ExitConnectionError
	case KindOperation:
		return ExitOperationError
	default:
		return ExitGeneralError
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrInvalidConfig
	case KindFilesystem:
		return ErrFileNotFound
	case KindConnection:
		return ErrConnectionFailed
	case KindOperation:
		return ErrExecutionFailed
	default:
		return nil
	}
}

// Error is a classified failure. Message is the text shown to the operator;
// Err is the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates a classified error with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies err under kind with the given operator message.
func WrapError(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if kind := KindOf(err); kind != KindUnknown {
		return kind.ExitCode()
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig),
		errors.Is(err, ErrCredentialNotFound),
		errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrFileNotFound):
		return ExitFileError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrExecutionFailed), errors.Is(err, ErrRecordNotFound):
		return ExitOperationError
	}

	return ExitGeneralError
}
