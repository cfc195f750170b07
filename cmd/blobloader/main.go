package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/blobloader/internal/cli"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(blobloader.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(blobloader.ExitCodeForError(err))
	}
}
