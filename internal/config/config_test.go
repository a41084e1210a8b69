package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test so that config file
// discovery does not pick up files from the repository.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8501, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "index_data", cfg.Data.Dir)
				assert.Equal(t, "_data.xlsx", cfg.Data.FileSuffix)
				assert.True(t, cfg.Data.LegacyLookup)
				assert.Equal(t, "1 year", cfg.Dashboard.DefaultTenure)
				assert.Equal(t, DefaultTickers, cfg.Dashboard.Tickers)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"PREDICTRAM_SERVER_PORT":       "9000",
				"PREDICTRAM_DATA_DIR":          "/srv/data",
				"PREDICTRAM_DASHBOARD_TICKERS": "^NSEI,^BSESN",
				"PREDICTRAM_LOGGING_LEVEL":     "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "/srv/data", cfg.Data.Dir)
				assert.Equal(t, []string{"^NSEI", "^BSESN"}, cfg.Dashboard.Tickers)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file values kept when env is silent",
			file: "server:\n  port: 7000\n  read_timeout: 5s\ndata:\n  dir: sheets\n  legacy_lookup: false\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "sheets", cfg.Data.Dir)
				assert.False(t, cfg.Data.LegacyLookup)
				// untouched keys keep defaults
				assert.Equal(t, "_data.xlsx", cfg.Data.FileSuffix)
			},
		},
		{
			name: "env wins over file",
			file: "server:\n  port: 7000\n",
			env:  map[string]string{"PREDICTRAM_SERVER_PORT": "7100"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7100, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"PREDICTRAM_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid logging output",
			env:     map[string]string{"PREDICTRAM_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "malformed file",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("PREDICTRAM_CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				require.NoError(t, os.WriteFile("config.yaml", []byte(tt.file), 0644))
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFileExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dashboard:\n  default_tenure: 5 years\n"), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5 years", cfg.Dashboard.DefaultTenure)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultTickersKeepDuplicates(t *testing.T) {
	seen := map[string]int{}
	for _, tk := range Default().Dashboard.Tickers {
		seen[tk]++
	}
	assert.Equal(t, 2, seen["^NSEI"])
	assert.Equal(t, 2, seen["^NSEBANK"])
}

func TestDataConfigPaths(t *testing.T) {
	d := Default().Data

	assert.Equal(t, filepath.Join("dir", "^NSEI_data.xlsx"), d.CanonicalPath("dir", "^NSEI"))
	assert.Equal(t, filepath.Join("dir", "^NSEI.xlsx"), d.LegacyPath("dir", "^NSEI"))

	d.LegacyLookup = false
	assert.Empty(t, d.LegacyPath("dir", "^NSEI"))

	abs, err := d.ResolveDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8501}
	assert.Equal(t, "127.0.0.1:8501", s.Addr())
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8501, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "production", cfg.Telemetry.Environment)
	assert.Equal(t, "1 year", cfg.Dashboard.DefaultTenure)
	assert.Equal(t, DefaultTickers, cfg.Dashboard.Tickers)
}
