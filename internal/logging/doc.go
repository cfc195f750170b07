// Package logging provides concrete implementations of the blobloader.Logger interface.
//
// ConsoleLogger writes to stderr (or any writer) and NullLogger discards
// everything. Both are safe for concurrent use.
package logging
