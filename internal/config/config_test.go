package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers the restore, Unsetenv actually clears the variable.
	for _, key := range []string{
		"WAVIZ_HOST", "WAVIZ_PORT", "WAVIZ_LOG_LEVEL", "WAVIZ_MAX_UPLOAD_BYTES",
		"WAVIZ_TEMP_DIR", "WAVIZ_READ_TIMEOUT", "WAVIZ_WRITE_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 8780, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, int64(20971520), cfg.MaxUploadBytes)
	require.Empty(t, cfg.TempDir)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("WAVIZ_HOST", "127.0.0.1")
	t.Setenv("WAVIZ_PORT", "9999")
	t.Setenv("WAVIZ_LOG_LEVEL", "debug")
	t.Setenv("WAVIZ_MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("WAVIZ_TEMP_DIR", "/tmp/waviz")
	t.Setenv("WAVIZ_READ_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 9999, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	require.Equal(t, "/tmp/waviz", cfg.TempDir)
	require.Equal(t, "5s", cfg.ReadTimeout.String())
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("WAVIZ_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("WAVIZ_PORT", "notanumber")

	_, err := Load()
	require.Error(t, err)
}
