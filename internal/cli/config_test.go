package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decorgen/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decorgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
source:
  - src
  - lib
descriptor: [types.yaml]
namespace: App\Decorators
output: generated
php_version: "7.4"
targets:
  - App\Log\Logger
concurrency: 2
log:
  level: debug
server:
  framework: gin
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"src", "lib"}, cfg.Source)
	assert.Equal(t, []string{"types.yaml"}, cfg.Descriptor)
	assert.Equal(t, `App\Decorators`, cfg.Namespace)
	assert.Equal(t, "generated", cfg.Output)
	assert.Equal(t, "7.4", cfg.PHPVersion)
	assert.Equal(t, []string{`App\Log\Logger`}, cfg.Targets)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "gin", cfg.Server.Framework)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, path, cfg.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "echo", cfg.Server.Framework)
	assert.False(t, cfg.IncludeVendor)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("DECORGEN_NAMESPACE", `Env\Decorators`)
	t.Setenv("DECORGEN_SERVER_ADDR", ":9090")
	t.Setenv("DECORGEN_SOURCE", "a, b")

	path := writeConfig(t, "namespace: File\\Decorators\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, `Env\Decorators`, cfg.Namespace)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"a", "b"}, cfg.Source)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	_, err = LoadConfig(writeConfig(t, "source: [unterminated\n"))
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Concurrency: 0, Server: ServerConfig{Framework: "chi"}}

	err := cfg.Validate()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 3)
	assert.True(t, multi.HasCode(errors.ConfigurationErrorCode))
	assert.True(t, multi.HasCode(errors.ValidationErrorCode))
	assert.Equal(t, ".", cfg.Output)

	ok := &Config{Descriptor: []string{"types.yaml"}, Concurrency: 1, PHPVersion: "7.4", Server: ServerConfig{Framework: "Fiber"}}
	assert.NoError(t, ok.Validate())
}

func TestConfig_ValidatePHPVersion(t *testing.T) {
	cfg := &Config{Source: []string{"src"}, Concurrency: 1, PHPVersion: "seven", Server: ServerConfig{Framework: "echo"}}

	err := cfg.Validate()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 1)
	assert.Equal(t, errors.ValidationErrorCode, multi.ErrorCode())
	assert.Equal(t, "php_version", multi.Errors[0].Context()["field"])
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " ", "c,"}))
	assert.Nil(t, splitList(nil))
}
