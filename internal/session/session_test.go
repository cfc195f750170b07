package session

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/blobloader/internal/db"
	"github.com/vvka-141/blobloader/internal/logging"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

type fakeConn struct {
	updateRows int64
	updateErr  error
	blob       []byte
	selectErr  error
	closeErr   error
	closed     bool
}

func (c *fakeConn) UpdateBlob(_ context.Context, _ string, _ int64, data []byte) (int64, error) {
	if c.updateErr != nil {
		return 0, c.updateErr
	}
	c.blob = data
	return c.updateRows, nil
}

func (c *fakeConn) SelectBlob(context.Context, string, int64) ([]byte, error) {
	return c.blob, c.selectErr
}

func (c *fakeConn) Close(context.Context) error {
	c.closed = true
	return c.closeErr
}

type fakeConnector struct {
	conn *fakeConn
	err  error
	got  string
}

func (f *fakeConnector) Connect(_ context.Context, password string) (blobloader.Conn, error) {
	f.got = password
	if f.err != nil {
		return nil, f.err
	}
	return f.conn, nil
}

func testProfile() *blobloader.Profile {
	return &blobloader.Profile{
		Name:       "default",
		User:       "scott",
		TableName:  "documents",
		IDColumn:   "doc_id",
		BlobColumn: "content",
		DSN:        "postgres://localhost/blobs",
		Driver:     blobloader.DriverPostgres,
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_PanicsOnNilDependencies(t *testing.T) {
	logger := logging.NewNullLogger()
	conn := &fakeConnector{}
	assert.Panics(t, func() { New(nil, conn, logger) })
	assert.Panics(t, func() { New(testProfile(), nil, logger) })
	assert.Panics(t, func() { New(testProfile(), conn, nil) })
}

func TestSession_OperationsRequireConnection(t *testing.T) {
	s := New(testProfile(), &fakeConnector{conn: &fakeConn{}}, logging.NewNullLogger())
	ctx := context.Background()

	assert.ErrorIs(t, s.Load(ctx, 1, writeFile(t, "x")), blobloader.ErrNotConnected)
	assert.ErrorIs(t, s.Dump(ctx, 1, filepath.Join(t.TempDir(), "out")), blobloader.ErrNotConnected)
	s.Disconnect(ctx)
	assert.False(t, s.Connected())
}

func TestSession_ConnectFailureIsConnectionKind(t *testing.T) {
	connector := &fakeConnector{err: errors.New("dial tcp: connection refused")}
	s := New(testProfile(), connector, logging.NewNullLogger())

	err := s.Connect(context.Background(), "tiger")
	require.Error(t, err)
	assert.Equal(t, blobloader.KindConnection, blobloader.KindOf(err))
	assert.Equal(t, blobloader.ExitConnectionError, blobloader.ExitCodeForError(err))
	assert.Equal(t, "tiger", connector.got)
	assert.False(t, s.Connected())
}

func TestSession_ConnectTwice(t *testing.T) {
	s := New(testProfile(), &fakeConnector{conn: &fakeConn{}}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))
	assert.Error(t, s.Connect(context.Background(), ""))
}

func TestSession_LoadMissingFile(t *testing.T) {
	conn := &fakeConn{updateRows: 1}
	s := New(testProfile(), &fakeConnector{conn: conn}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	err := s.Load(context.Background(), 1, filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
	assert.Equal(t, blobloader.KindFilesystem, blobloader.KindOf(err))
	assert.Contains(t, err.Error(), "does not exist")
	assert.Nil(t, conn.blob)
}

func TestSession_LoadZeroRowsWarns(t *testing.T) {
	var buf bytes.Buffer
	conn := &fakeConn{updateRows: 0}
	s := New(testProfile(), &fakeConnector{conn: conn}, logging.NewWriterLogger(&buf, false))
	require.NoError(t, s.Connect(context.Background(), ""))

	require.NoError(t, s.Load(context.Background(), 42, writeFile(t, "data")))
	assert.Contains(t, buf.String(), "doc_id = 42")
}

func TestSession_LoadNonDatabaseErrorPropagates(t *testing.T) {
	boom := errors.New("placeholder :blobData has no argument")
	s := New(testProfile(), &fakeConnector{conn: &fakeConn{updateErr: boom}}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	err := s.Load(context.Background(), 1, writeFile(t, "data"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, blobloader.KindUnknown, blobloader.KindOf(err))
}

func TestSession_DriverErrorsAreOperationErrors(t *testing.T) {
	dropped := &db.DriverError{Op: "commit", Err: io.ErrUnexpectedEOF}

	s := New(testProfile(), &fakeConnector{conn: &fakeConn{updateErr: dropped, selectErr: dropped}}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	err := s.Load(context.Background(), 1, writeFile(t, "data"))
	require.Error(t, err)
	assert.Equal(t, blobloader.KindOperation, blobloader.KindOf(err))
	assert.Equal(t, blobloader.ExitOperationError, blobloader.ExitCodeForError(err))
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	err = s.Dump(context.Background(), 1, filepath.Join(t.TempDir(), "out.bin"))
	require.Error(t, err)
	assert.Equal(t, blobloader.ExitOperationError, blobloader.ExitCodeForError(err))
}

func TestSession_DumpMissingDirectory(t *testing.T) {
	s := New(testProfile(), &fakeConnector{conn: &fakeConn{blob: []byte("x")}}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	err := s.Dump(context.Background(), 1, filepath.Join(t.TempDir(), "nope", "out.bin"))
	require.Error(t, err)
	assert.Equal(t, blobloader.KindFilesystem, blobloader.KindOf(err))
}

func TestSession_DumpNoRecordLeavesFileUntouched(t *testing.T) {
	conn := &fakeConn{selectErr: blobloader.ErrRecordNotFound}
	s := New(testProfile(), &fakeConnector{conn: conn}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	out := writeFile(t, "original")
	err := s.Dump(context.Background(), 7, out)
	require.Error(t, err)
	assert.Equal(t, blobloader.KindOperation, blobloader.KindOf(err))
	assert.Equal(t, "No record found with doc_id = 7", err.Error())

	got, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(got))
}

func TestSession_DisconnectSuppressesCloseError(t *testing.T) {
	conn := &fakeConn{closeErr: errors.New("already closed")}
	s := New(testProfile(), &fakeConnector{conn: conn}, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))

	s.Disconnect(context.Background())
	assert.True(t, conn.closed)
	assert.False(t, s.Connected())
}

func newSQLiteSession(t *testing.T) (*Session, *blobloader.Profile) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blobs.db")
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE documents (doc_id INTEGER PRIMARY KEY, content BLOB)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO documents (doc_id) VALUES (1)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	profile := &blobloader.Profile{
		Name:       "lite",
		User:       "u",
		TableName:  "documents",
		IDColumn:   "doc_id",
		BlobColumn: "content",
		DSN:        path,
		Driver:     blobloader.DriverSQLite,
	}
	connector, err := db.NewConnector(profile)
	require.NoError(t, err)
	s := New(profile, connector, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))
	t.Cleanup(func() { s.Disconnect(context.Background()) })
	return s, profile
}

func TestSession_SQLiteRoundTrip(t *testing.T) {
	s, _ := newSQLiteSession(t)
	ctx := context.Background()

	payload := []byte{0x00, 0xff, 0x10, 'b', 'l', 'o', 'b'}
	in := filepath.Join(t.TempDir(), "in.bin")
	require.NoError(t, os.WriteFile(in, payload, 0644))

	require.NoError(t, s.Load(ctx, 1, in))

	out := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, s.Dump(ctx, 1, out))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSession_SQLiteInvalidColumn(t *testing.T) {
	s, profile := newSQLiteSession(t)
	profile.BlobColumn = "missing_col"
	s = New(profile, s.connector, logging.NewNullLogger())
	require.NoError(t, s.Connect(context.Background(), ""))
	defer s.Disconnect(context.Background())

	err := s.Load(context.Background(), 1, writeFile(t, "data"))
	require.Error(t, err)
	assert.Equal(t, blobloader.KindOperation, blobloader.KindOf(err))
	assert.Equal(t, db.MsgInvalidColumn, err.Error())
	assert.Equal(t, blobloader.ExitOperationError, blobloader.ExitCodeForError(err))
}

func TestCheckSource_Directory(t *testing.T) {
	_, err := CheckSource(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, blobloader.KindFilesystem, blobloader.KindOf(err))
}

func TestCheckDestination_ReturnsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path, err := CheckDestination("out.bin")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "out.bin", filepath.Base(path))
}
