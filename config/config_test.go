// file: config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test: defaults apply when nothing is set
func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, "badmintonApp", cfg.SnapshotSlot)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
}

// Test: environment values override defaults
func TestParseOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", " SQLite ")
	t.Setenv("SQLITE_PATH", "/tmp/club.db")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "/tmp/club.db", cfg.SQLitePath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

// Test: driver specific settings are validated
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file", Config{StorageDriver: "file", SnapshotSlot: "s"}, false},
		{"postgres without dsn", Config{StorageDriver: "postgres", SnapshotSlot: "s"}, true},
		{"s3 without bucket", Config{StorageDriver: "s3", SnapshotSlot: "s"}, true},
		{"s3 with bucket", Config{StorageDriver: "s3", SnapshotSlot: "s", S3Bucket: "b"}, false},
		{"unknown driver", Config{StorageDriver: "redis", SnapshotSlot: "s"}, true},
		{"empty slot", Config{StorageDriver: "file"}, true},
		{"production default secret", Config{Env: "production", StorageDriver: "file", SnapshotSlot: "s", SessionSecret: "dev-session-secret"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Test: Load reads a .env file and tolerates a missing one
func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SNAPSHOT_SLOT=fromfile\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SNAPSHOT_SLOT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.SnapshotSlot)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
