package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for blobloader.
type Mode int

const (
	// ModeNonInteractive is used for scripts, pipelines and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv forces non-interactive mode when set to "1".
const NonInteractiveEnv = "BLOBLOADER_NON_INTERACTIVE"

// isTerminal is replaced in tests.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// DetectMode determines whether blobloader may prompt on the terminal.
//
// Returns ModeNonInteractive if:
//   - BLOBLOADER_NON_INTERACTIVE=1 is set
//   - CI is set
//   - stdin or stderr is not a terminal
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}

	if !isTerminal(os.Stdin.Fd()) {
		return ModeNonInteractive
	}
	// The prompt is rendered on stderr, so stdout may be redirected.
	if !isTerminal(os.Stderr.Fd()) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive reports whether running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

