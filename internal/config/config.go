// Package config resolves named blobloader profiles from a configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// keyDelimiter replaces viper's "." so profile names and DSNs may contain dots.
const keyDelimiter = "::"

// defaultFileType is used for files without a recognised extension, such as ~/.blobloader.
const defaultFileType = "json"

var supportedTypes = map[string]bool{
	"json": true,
	"yaml": true,
	"yml":  true,
	"toml": true,
}

// profileFields mirrors one profile entry of the configuration file.
type profileFields struct {
	Description    string `mapstructure:"description"`
	User           string `mapstructure:"user"`
	TableName      string `mapstructure:"table_name"`
	IDColumn       string `mapstructure:"id_column"`
	BlobColumn     string `mapstructure:"blob_column"`
	Schema         string `mapstructure:"schema"`
	DSN            string `mapstructure:"dsn"`
	Driver         string `mapstructure:"driver"`
	AuthMethod     string `mapstructure:"auth_method"`
	AWSRegion      string `mapstructure:"aws_region"`
	AzureTenantID  string `mapstructure:"azure_tenant_id"`
	AzureClientID  string `mapstructure:"azure_client_id"`
	GoogleInstance string `mapstructure:"google_instance"`
}

// ExpandPath expands a leading "~" to the user's home directory and makes
// the result absolute.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return filepath.Abs(path)
}

// Resolve loads the profile named key from the configuration file at path
// and validates it. Every failure is a blobloader.KindConfig error.
func Resolve(path, key string) (*blobloader.Profile, error) {
	absPath, err := ExpandPath(path)
	if err != nil {
		return nil, blobloader.WrapError(blobloader.KindConfig, err, err.Error())
	}

	v, err := load(absPath)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return nil, blobloader.WrapError(blobloader.KindConfig, err,
				fmt.Sprintf("Configuration file %s does not exist", absPath))
		}
		return nil, blobloader.WrapError(blobloader.KindConfig, err,
			fmt.Sprintf("Cannot read configuration file %s: %v", absPath, err))
	}

	sub := v.Sub(key)
	if sub == nil {
		available := "none"
		if names := profileNames(v); len(names) > 0 {
			available = strings.Join(names, ", ")
		}
		return nil, blobloader.NewError(blobloader.KindConfig,
			"Configuration key %q not found in %s (available: %s)", key, absPath, available)
	}

	var fields profileFields
	if err := sub.Unmarshal(&fields); err != nil {
		return nil, blobloader.WrapError(blobloader.KindConfig, err,
			fmt.Sprintf("Configuration key %q in %s is malformed: %v", key, absPath, err))
	}

	return newProfile(key, fields)
}

// profileNames lists the profiles defined in the configuration, sorted.
func profileNames(v *viper.Viper) []string {
	var names []string
	for name, val := range v.AllSettings() {
		if _, ok := val.(map[string]any); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func load(absPath string) (*viper.Viper, error) {
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(absPath)
	v.SetConfigType(fileType(absPath))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

func fileType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if supportedTypes[ext] {
		return ext
	}
	return defaultFileType
}

func newProfile(name string, f profileFields) (*blobloader.Profile, error) {
	var missing []string
	for _, req := range []struct{ field, value string }{
		{"user", f.User},
		{"table_name", f.TableName},
		{"id_column", f.IDColumn},
		{"blob_column", f.BlobColumn},
	} {
		if strings.TrimSpace(req.value) == "" {
			missing = append(missing, req.field)
		}
	}
	if len(missing) > 0 {
		return nil, blobloader.NewError(blobloader.KindConfig,
			"Configuration key %q is missing required field(s): %s", name, strings.Join(missing, ", "))
	}

	driver, err := blobloader.ParseDriver(f.Driver)
	if err != nil {
		return nil, blobloader.WrapError(blobloader.KindConfig, err,
			fmt.Sprintf("Configuration key %q: %v", name, err))
	}
	auth, err := blobloader.ParseAuthMethod(f.AuthMethod)
	if err != nil {
		return nil, blobloader.WrapError(blobloader.KindConfig, err,
			fmt.Sprintf("Configuration key %q: %v", name, err))
	}

	if driver == blobloader.DriverSQLite {
		if f.DSN == "" {
			return nil, blobloader.NewError(blobloader.KindConfig,
				"Configuration key %q: sqlite driver requires dsn (database file path)", name)
		}
		if auth != blobloader.AuthMethodPassword {
			return nil, blobloader.NewError(blobloader.KindConfig,
				"Configuration key %q: auth_method %s is not available for sqlite", name, auth)
		}
	}
	if auth == blobloader.AuthMethodGoogleIAM && f.GoogleInstance == "" {
		return nil, blobloader.NewError(blobloader.KindConfig,
			"Configuration key %q: auth_method google requires google_instance (project:region:instance)", name)
	}

	return &blobloader.Profile{
		Name:           name,
		Description:    f.Description,
		User:           f.User,
		TableName:      f.TableName,
		IDColumn:       f.IDColumn,
		BlobColumn:     f.BlobColumn,
		Schema:         f.Schema,
		DSN:            f.DSN,
		Driver:         driver,
		AuthMethod:     auth,
		AWSRegion:      f.AWSRegion,
		AzureTenantID:  f.AzureTenantID,
		AzureClientID:  f.AzureClientID,
		GoogleInstance: f.GoogleInstance,
	}, nil
}
