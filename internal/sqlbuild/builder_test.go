package sqlbuild

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

func TestUpdateStatement_Unqualified(t *testing.T) {
	p := &blobloader.Profile{User: "u", TableName: "T", IDColumn: "ID", BlobColumn: "D"}
	assert.Equal(t, "UPDATE T SET D=:blobData WHERE ID = :id", UpdateStatement(p))
}

func TestStatements_SchemaPrefix(t *testing.T) {
	tests := []struct {
		name       string
		schema     string
		wantUpdate string
		wantSelect string
	}{
		{
			name:       "no schema",
			wantUpdate: "UPDATE DOCS SET BODY=:blobData WHERE DOC_ID = :id",
			wantSelect: "SELECT BODY FROM DOCS WHERE DOC_ID = :id",
		},
		{
			name:       "with schema",
			schema:     "APP",
			wantUpdate: "UPDATE APP.DOCS SET BODY=:blobData WHERE DOC_ID = :id",
			wantSelect: "SELECT BODY FROM APP.DOCS WHERE DOC_ID = :id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &blobloader.Profile{TableName: "DOCS", IDColumn: "DOC_ID", BlobColumn: "BODY", Schema: tt.schema}
			stmts := Build(p)
			assert.Equal(t, tt.wantUpdate, stmts.Update)
			assert.Equal(t, tt.wantSelect, stmts.Select)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"blobData", "id"}, Placeholders("UPDATE T SET D=:blobData WHERE ID = :id"))
	assert.Equal(t, []string{"id"}, Placeholders("SELECT a::text FROM t WHERE x = ':skip' AND id = :id OR id = :id"))
	assert.Empty(t, Placeholders("SELECT 1"))
}

func TestBind_Postgres(t *testing.T) {
	query, args, err := Bind(DialectPostgres, "UPDATE T SET D=:blobData WHERE ID = :id",
		map[string]any{ParamID: int64(7), ParamBlob: []byte("abc")})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE T SET D=$1 WHERE ID = $2", query)
	require.Len(t, args, 2)
	assert.Equal(t, []byte("abc"), args[0])
	assert.Equal(t, int64(7), args[1])
}

func TestBind_PostgresRepeatedPlaceholder(t *testing.T) {
	query, args, err := Bind(DialectPostgres, "SELECT :id, :id::text, ':id'", map[string]any{"id": 1})
	require.NoError(t, err)

	assert.Equal(t, "SELECT $1, $1::text, ':id'", query)
	assert.Equal(t, []any{1}, args)
}

func TestBind_SQLite(t *testing.T) {
	query, args, err := Bind(DialectSQLite, "SELECT D FROM T WHERE ID = :id", map[string]any{ParamID: int64(3)})
	require.NoError(t, err)

	assert.Equal(t, "SELECT D FROM T WHERE ID = :id", query)
	require.Len(t, args, 1)
	assert.Equal(t, sql.Named("id", int64(3)), args[0])
}

func TestBind_MissingArgument(t *testing.T) {
	_, _, err := Bind(DialectPostgres, "SELECT D FROM T WHERE ID = :id", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":id")
}
