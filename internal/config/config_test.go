package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "STORE_BACKEND", "SEED_PATH", "TIMEZONE", "CSRF_KEY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "America/Bogota", cfg.Location.String())
	assert.Len(t, cfg.CSRFKey, 32)
	assert.True(t, cfg.CSRFKeyEphemeral)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{name: "backend", env: map[string]string{"STORE_BACKEND": "postgres"}, msg: "STORE_BACKEND"},
		{name: "timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, msg: "timezone"},
		{name: "short key", env: map[string]string{"CSRF_KEY": "abcd"}, msg: "CSRF_KEY"},
		{name: "production without key", env: map[string]string{"APP_ENV": "production", "CSRF_KEY": ""}, msg: "required in production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	key := strings.Repeat("ab", 32)
	require.NoError(t, os.WriteFile(path, []byte("STORE_BACKEND=sqlite\nCSRF_KEY="+key+"\n"), 0o600))

	t.Setenv("STORE_BACKEND", "")
	t.Setenv("CSRF_KEY", "")
	require.NoError(t, os.Unsetenv("STORE_BACKEND"))
	require.NoError(t, os.Unsetenv("CSRF_KEY"))

	assert.True(t, LoadDotEnv(path))
	assert.False(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.False(t, cfg.CSRFKeyEphemeral)
}
