package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withEnv replaces the environment seen by the loader for one test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	original := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = original })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))
	return dir
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	withEnv(t, nil)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	withEnv(t, nil)
	dir := writeConfig(t, `
model: gpt-4o
mode: filesystem
recordsDir: /var/lib/kube-autogpt
retryDelay: 30s
maxRepairAttempts: 3
workerCount: 4
logFormat: json
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, ModeFilesystem, cfg.Mode)
	assert.Equal(t, "/var/lib/kube-autogpt", cfg.RecordsDir)
	assert.Equal(t, 30*time.Second, cfg.RetryDelay)
	assert.Equal(t, int32(3), cfg.MaxRepairAttempts)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, "json", cfg.LogFormat)

	// Untouched keys keep their defaults.
	assert.Equal(t, "kube-autogpt", cfg.FieldManager)
	assert.True(t, cfg.SkipUnchanged)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	withEnv(t, map[string]string{
		EnvModel:   "gpt-4-turbo",
		EnvBaseURL: "http://localhost:11434/v1",
	})
	dir := writeConfig(t, "model: gpt-4o\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", cfg.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.APIBaseURL)
}

func TestLoadConfig_Malformed(t *testing.T) {
	withEnv(t, nil)
	dir := writeConfig(t, "model: [unterminated\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrorTypeParse, cfgErr.ErrorType)
}

func TestLoadConfig_Invalid(t *testing.T) {
	withEnv(t, nil)
	dir := writeConfig(t, "mode: filesystem\nretryDelay: 10ms\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["recordsDir"], "recordsDir is required in filesystem mode")
	assert.True(t, fields["retryDelay"], "retryDelay below the minimum")
}

func TestConfig_APIKey(t *testing.T) {
	withEnv(t, map[string]string{"MY_KEY": "sk-test"})

	cfg := GetDefaultConfig()
	cfg.APIKeyEnv = "MY_KEY"
	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	cfg.APIKeyEnv = "MISSING"
	_, err = cfg.APIKey()
	assert.ErrorContains(t, err, "MISSING")
}
