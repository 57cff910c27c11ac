package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "UTC", cfg.Evaluation.Timezone)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(mut func(c *Config)) *Config {
		c := Default()
		mut(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "unknown driver",
			config:  with(func(c *Config) { c.Storage.Driver = "mysql" }),
			wantErr: true,
			errMsg:  "storage.driver must be 'sqlite' or 'postgres'",
		},
		{
			name:    "sqlite without path",
			config:  with(func(c *Config) { c.Storage.DBPath = "" }),
			wantErr: true,
			errMsg:  "storage.db_path required",
		},
		{
			name:    "postgres without dsn",
			config:  with(func(c *Config) { c.Storage.Driver = "postgres" }),
			wantErr: true,
			errMsg:  "storage.dsn required",
		},
		{
			name: "postgres with dsn",
			config: with(func(c *Config) {
				c.Storage = StorageConfig{Driver: "postgres", DSN: "postgres://localhost/propfirm"}
			}),
			wantErr: false,
		},
		{
			name:    "bad log level",
			config:  with(func(c *Config) { c.Log.Level = "trace" }),
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			config:  with(func(c *Config) { c.Log.Format = "xml" }),
			wantErr: true,
			errMsg:  "log.format",
		},
		{
			name:    "unknown timezone",
			config:  with(func(c *Config) { c.Evaluation.Timezone = "Mars/Olympus_Mons" }),
			wantErr: true,
			errMsg:  "evaluation.timezone",
		},
		{
			name:    "empty timezone",
			config:  with(func(c *Config) { c.Evaluation.Timezone = "" }),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Log.Format = "json"
			cfg.Metrics.Textfile = "/var/lib/node_exporter/propfirm.prom"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propfirm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "./propfirm.db", cfg.Storage.DBPath)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: oracle\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestZerologLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := LogConfig{Level: tt.level}.ZerologLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Evaluation.Timezone = "America/Chicago"
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
}
