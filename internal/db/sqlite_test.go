package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/blobloader/internal/sqlbuild"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

func newSQLiteProfile(t *testing.T) *blobloader.Profile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blobs.db")

	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec(`CREATE TABLE documents (doc_id INTEGER PRIMARY KEY, content BLOB)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO documents (doc_id) VALUES (1), (2)`)
	require.NoError(t, err)

	return &blobloader.Profile{
		Name:       "lite",
		User:       "u",
		TableName:  "documents",
		IDColumn:   "doc_id",
		BlobColumn: "content",
		DSN:        path,
		Driver:     blobloader.DriverSQLite,
	}
}

func TestSQLiteConn_UpdateThenSelect(t *testing.T) {
	ctx := context.Background()
	profile := newSQLiteProfile(t)
	stmts := sqlbuild.Build(profile)

	conn, err := NewSQLiteConnector(profile).Connect(ctx, "ignored")
	require.NoError(t, err)
	defer conn.Close(ctx)

	payload := []byte{0x00, 0xff, 0x10, 'b', 'l', 'o', 'b', 0x00}
	n, err := conn.UpdateBlob(ctx, stmts.Update, 2, payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := conn.SelectBlob(ctx, stmts.Select, 2)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSQLiteConn_SelectMissingRow(t *testing.T) {
	ctx := context.Background()
	profile := newSQLiteProfile(t)

	conn, err := NewSQLiteConnector(profile).Connect(ctx, "")
	require.NoError(t, err)
	defer conn.Close(ctx)

	_, err = conn.SelectBlob(ctx, sqlbuild.SelectStatement(profile), 99)
	assert.True(t, errors.Is(err, blobloader.ErrRecordNotFound))
}

func TestSQLiteConn_UpdateMissingRowMatchesNothing(t *testing.T) {
	ctx := context.Background()
	profile := newSQLiteProfile(t)

	conn, err := NewSQLiteConnector(profile).Connect(ctx, "")
	require.NoError(t, err)
	defer conn.Close(ctx)

	n, err := conn.UpdateBlob(ctx, sqlbuild.UpdateStatement(profile), 99, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSQLiteConn_ErrorsTranslate(t *testing.T) {
	ctx := context.Background()
	profile := newSQLiteProfile(t)

	conn, err := NewSQLiteConnector(profile).Connect(ctx, "")
	require.NoError(t, err)
	defer conn.Close(ctx)

	badTable := *profile
	badTable.TableName = "nope"
	_, err = conn.UpdateBlob(ctx, sqlbuild.UpdateStatement(&badTable), 1, []byte("x"))
	require.Error(t, err)
	tr, ok := Translate(err)
	require.True(t, ok, "expected a database error, got %T: %v", err, err)
	assert.Equal(t, MsgInvalidTable, tr.Message)

	badColumn := *profile
	badColumn.BlobColumn = "nope"
	_, err = conn.SelectBlob(ctx, sqlbuild.SelectStatement(&badColumn), 1)
	require.Error(t, err)
	tr, ok = Translate(err)
	require.True(t, ok)
	assert.Equal(t, MsgInvalidColumn, tr.Message)
}

func TestSQLiteConnector_MissingFile(t *testing.T) {
	profile := &blobloader.Profile{Driver: blobloader.DriverSQLite, DSN: filepath.Join(t.TempDir(), "absent.db")}

	_, err := NewSQLiteConnector(profile).Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestSQLiteConnector_PathWithURIDelimiters(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "odd?name#dir")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "blobs.db")

	raw, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = raw.Exec(`CREATE TABLE documents (doc_id INTEGER PRIMARY KEY, content BLOB)`)
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO documents (doc_id) VALUES (1)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "database must be created at the literal path")

	profile := &blobloader.Profile{
		User:       "u",
		TableName:  "documents",
		IDColumn:   "doc_id",
		BlobColumn: "content",
		DSN:        path,
		Driver:     blobloader.DriverSQLite,
	}
	conn, err := NewSQLiteConnector(profile).Connect(ctx, "")
	require.NoError(t, err)
	defer conn.Close(ctx)

	n, err := conn.UpdateBlob(ctx, sqlbuild.UpdateStatement(profile), 1, []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := conn.SelectBlob(ctx, sqlbuild.SelectStatement(profile), 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}
