package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "noabo.db", config.Database.File)
	assert.Equal(t, int64(10*1024*1024), config.Import.MaxSizeBytes)
	assert.Equal(t, "EUR", config.Import.DefaultCurrency)
	assert.Equal(t, ",", config.Export.Delimiter)
	assert.Equal(t, "", config.Rules.File)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	t.Setenv("NOABO_LOG_LEVEL", "debug")
	t.Setenv("NOABO_LOG_FORMAT", "json")
	t.Setenv("NOABO_DATABASE_FILE", "/tmp/test.db")
	t.Setenv("NOABO_EXPORT_DELIMITER", ";")
	t.Setenv("NOABO_IMPORT_DEFAULT_CURRENCY", "CHF")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/test.db", config.Database.File)
	assert.Equal(t, ";", config.Export.Delimiter)
	assert.Equal(t, "CHF", config.Import.DefaultCurrency)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	dir := t.TempDir()
	configYAML := `log:
  level: warn
  format: json
database:
  file: custom.db
import:
  max_size_bytes: 1048576
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configYAML), 0600))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "custom.db", config.Database.File)
	assert.Equal(t, int64(1048576), config.Import.MaxSizeBytes)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "EUR", config.Import.DefaultCurrency)
}

func TestInitializeConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad log level", "NOABO_LOG_LEVEL", "verbose"},
		{"bad log format", "NOABO_LOG_FORMAT", "xml"},
		{"multi-char delimiter", "NOABO_EXPORT_DELIMITER", ";;"},
		{"bad currency", "NOABO_IMPORT_DEFAULT_CURRENCY", "EURO"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvVars(t)
			t.Setenv(tt.key, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	config.Log.Level = "debug"
	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, "debug", logger.GetLevel().String())
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOABO_LOG_LEVEL", "NOABO_LOG_FORMAT", "NOABO_DATABASE_FILE",
		"NOABO_EXPORT_DELIMITER", "NOABO_IMPORT_DEFAULT_CURRENCY",
		"NOABO_IMPORT_MAX_SIZE_BYTES", "NOABO_RULES_FILE",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
