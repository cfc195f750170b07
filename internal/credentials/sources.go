package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// ErrNoTerminal is returned by PromptSource when no terminal is attached.
var ErrNoTerminal = errors.New("no terminal available for password prompt (use --batch to read it from stdin)")

// PromptFunc asks the operator for a secret without echoing it.
type PromptFunc func(label string) (string, error)

// PromptSource asks the operator interactively.
type PromptSource struct {
	prompt      PromptFunc
	interactive func() bool
}

// NewPromptSource creates a PromptSource. interactive reports whether a
// terminal is attached.
func NewPromptSource(prompt PromptFunc, interactive func() bool) *PromptSource {
	return &PromptSource{prompt: prompt, interactive: interactive}
}

func (s *PromptSource) Password(_ context.Context, user, dsn string) (string, bool, error) {
	if !s.interactive() {
		return "", false, ErrNoTerminal
	}
	password, err := s.prompt(fmt.Sprintf("Password for %s", blobloader.IdentityKey(user, dsn)))
	if err != nil {
		return "", false, err
	}
	return password, true, nil
}

// ReaderSource reads one line from a reader, normally stdin in batch mode.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource creates a ReaderSource over r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Password(_ context.Context, _, _ string) (string, bool, error) {
	line, err := bufio.NewReader(s.r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", false, fmt.Errorf("failed to read password from stdin: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// StoredSource reads from a credential Store. A missing file or entry is not
// an error; the next source is tried.
type StoredSource struct {
	store  *Store
	logger blobloader.Logger
}

// NewStoredSource creates a StoredSource over store.
func NewStoredSource(store *Store, logger blobloader.Logger) *StoredSource {
	return &StoredSource{store: store, logger: logger}
}

func (s *StoredSource) Password(_ context.Context, user, dsn string) (string, bool, error) {
	password, found, err := s.store.Read(user, dsn)
	if err != nil {
		if errors.Is(err, blobloader.ErrCredentialNotFound) {
			s.logger.Verbose("No stored password for %s", blobloader.IdentityKey(user, dsn))
			return "", false, nil
		}
		return "", false, err
	}
	if found {
		s.logger.Verbose("Using stored password for %s from %s", blobloader.IdentityKey(user, dsn), s.store.Path())
	}
	return password, found, nil
}

// ChainSource tries each source in order and returns the first password found.
type ChainSource []blobloader.PasswordSource

func (c ChainSource) Password(ctx context.Context, user, dsn string) (string, bool, error) {
	for _, src := range c {
		password, ok, err := src.Password(ctx, user, dsn)
		if err != nil {
			return "", false, err
		}
		if ok {
			return password, true, nil
		}
	}
	return "", false, nil
}

// NoPassword is used by auth methods that do not consume a password.
type NoPassword struct{}

func (NoPassword) Password(context.Context, string, string) (string, bool, error) {
	return "", true, nil
}

var (
	_ blobloader.PasswordSource = (*PromptSource)(nil)
	_ blobloader.PasswordSource = (*ReaderSource)(nil)
	_ blobloader.PasswordSource = (*StoredSource)(nil)
	_ blobloader.PasswordSource = ChainSource(nil)
	_ blobloader.PasswordSource = NoPassword{}
)
