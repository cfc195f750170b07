package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

func printConfig(t *testing.T) string {
	return writeConfig(t, map[string]map[string]string{
		"default": {
			"description": "archived reports",
			"user":        "u",
			"table_name":  "T",
			"id_column":   "ID",
			"blob_column": "D",
		},
		"archive": {
			"user":        "u",
			"table_name":  "T",
			"id_column":   "ID",
			"blob_column": "D",
			"schema":      "S",
		},
	})
}

func TestPrint_Text(t *testing.T) {
	calls := countConnectors(t)
	stdout, _, err := executeCommand(t, "", "print", "--cfgfile", printConfig(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Profile: default")
	assert.Contains(t, stdout, "archived reports")
	assert.Contains(t, stdout, "UPDATE T SET D=:blobData WHERE ID = :id")
	assert.Contains(t, stdout, "SELECT D FROM T WHERE ID = :id")
	assert.NotContains(t, stdout, "schema:")
	assert.Zero(t, *calls)
}

func TestPrint_JSONWithSchema(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "print", "--cfgfile", printConfig(t), "--cfgkey", "archive", "--format", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "UPDATE S.T SET D=:blobData WHERE ID = :id", report["update_statement"])
	assert.Equal(t, "password", report["auth_method"])

	profile, ok := report["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "archive", profile["name"])
	assert.Equal(t, "S", profile["schema"])
}

func TestPrint_YAML(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "print", "--cfgfile", printConfig(t), "--format", "yaml")
	require.NoError(t, err)

	var report struct {
		Profile struct {
			User string `yaml:"user"`
		} `yaml:"profile"`
		Select string `yaml:"select_statement"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "u", report.Profile.User)
	assert.Equal(t, "SELECT D FROM T WHERE ID = :id", report.Select)
}

func TestPrint_UnknownFormat(t *testing.T) {
	_, _, err := executeCommand(t, "", "print", "--cfgfile", printConfig(t), "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestPrint_MissingConfigFile(t *testing.T) {
	_, _, err := executeCommand(t, "", "print", "--cfgfile", "/nonexistent/blobloader.json")
	require.Error(t, err)
	assert.Equal(t, blobloader.ExitConfigError, blobloader.ExitCodeForError(err))
}
