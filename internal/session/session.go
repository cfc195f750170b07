// Package session owns the database connection for one blobloader command
// and performs the load and dump operations on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/vvka-141/blobloader/internal/db"
	"github.com/vvka-141/blobloader/internal/sqlbuild"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// Session moves between two states: disconnected and connected.
// It holds at most one connection, and each operation keeps at most one
// statement open, released before the operation returns.
//
// Thread-Safety: NOT safe for concurrent use.
type Session struct {
	profile   *blobloader.Profile
	connector blobloader.Connector
	stmts     sqlbuild.Statements
	logger    blobloader.Logger

	conn blobloader.Conn
}

// New creates a disconnected Session for profile.
//
// Panics if any dependency is nil; that is a wiring mistake, not a runtime condition.
func New(profile *blobloader.Profile, connector blobloader.Connector, logger blobloader.Logger) *Session {
	if profile == nil {
		panic("profile cannot be nil")
	}
	if connector == nil {
		panic("connector cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Session{
		profile:   profile,
		connector: connector,
		stmts:     sqlbuild.Build(profile),
		logger:    logger,
	}
}

// Connected reports whether the session holds an open connection.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// Connect opens the connection. Any failure is a KindConnection error whose
// message has been translated for the operator.
func (s *Session) Connect(ctx context.Context, password string) error {
	if s.conn != nil {
		return fmt.Errorf("session already connected")
	}

	target := db.Target(s.profile)
	s.logger.Verbose("Connecting to %s as %s", target, s.profile.User)

	conn, err := s.connector.Connect(ctx, password)
	if err != nil {
		return blobloader.WrapError(blobloader.KindConnection, err, db.ConnectionMessage(err, target))
	}
	s.conn = conn
	return nil
}

// Load stores the content of filename as the blob of row id and commits.
func (s *Session) Load(ctx context.Context, id int64, filename string) error {
	if s.conn == nil {
		return blobloader.ErrNotConnected
	}

	path, err := CheckSource(filename)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	s.logger.Verbose("Read %s from %s", humanize.Bytes(uint64(len(data))), path)
	s.logger.Verbose("Executing: %s", s.stmts.Update)

	affected, err := s.conn.UpdateBlob(ctx, s.stmts.Update, id, data)
	if err != nil {
		return s.operationError("load", err)
	}
	if affected == 0 {
		s.logger.Info("Warning: no record with %s = %d; nothing was updated", s.profile.IDColumn, id)
		return nil
	}

	s.logger.Verbose("Stored %s in %s%s where %s = %d",
		humanize.Bytes(uint64(len(data))), s.profile.SchemaPrefix(), s.profile.TableName, s.profile.IDColumn, id)
	return nil
}

// Dump writes the blob of row id to filename, replacing its content.
// The destination is not touched when no row matches.
func (s *Session) Dump(ctx context.Context, id int64, filename string) error {
	if s.conn == nil {
		return blobloader.ErrNotConnected
	}

	path, err := CheckDestination(filename)
	if err != nil {
		return err
	}

	s.logger.Verbose("Executing: %s", s.stmts.Select)
	data, err := s.conn.SelectBlob(ctx, s.stmts.Select, id)
	if err != nil {
		if errors.Is(err, blobloader.ErrRecordNotFound) {
			return blobloader.WrapError(blobloader.KindOperation, err,
				fmt.Sprintf("No record found with %s = %d", s.profile.IDColumn, id))
		}
		return s.operationError("dump", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.logger.Verbose("Wrote %s to %s", humanize.Bytes(uint64(len(data))), path)
	return nil
}

// Disconnect closes the connection. Close errors are suppressed.
func (s *Session) Disconnect(ctx context.Context) {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(ctx); err != nil {
		s.logger.Verbose("Ignoring error while disconnecting: %v", err)
	}
	s.conn = nil
}

// operationError classifies database errors as KindOperation with the
// translated message. Anything else propagates unchanged.
func (s *Session) operationError(op string, err error) error {
	tr, ok := db.Translate(err)
	if !ok {
		return err
	}
	s.logger.Verbose("%s failed: %s %s", op, tr.Code, tr.Raw)
	return blobloader.WrapError(blobloader.KindOperation, err, tr.Message)
}

// CheckSource resolves filename to an absolute path and verifies it is an
// existing regular file.
func CheckSource(filename string) (string, error) {
	path, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", blobloader.WrapError(blobloader.KindFilesystem, err,
				fmt.Sprintf("File %s does not exist", path))
		}
		return "", err
	}
	if info.IsDir() {
		return "", blobloader.NewError(blobloader.KindFilesystem, "%s is a directory, not a file", path)
	}
	return path, nil
}

// CheckDestination resolves filename to an absolute path and verifies its
// directory exists.
func CheckDestination(filename string) (string, error) {
	path, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", blobloader.WrapError(blobloader.KindFilesystem, err,
				fmt.Sprintf("Directory %s does not exist", dir))
		}
		return "", err
	}
	if !info.IsDir() {
		return "", blobloader.NewError(blobloader.KindFilesystem, "%s is not a directory", dir)
	}
	return path, nil
}
