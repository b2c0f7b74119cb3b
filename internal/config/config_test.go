package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
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
			name: "offline defaults",
			env:  map[string]string{"ENSAIO_SHEETS_OFFLINE": "true"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, "Interface MR", cfg.Sheets.MRSheet)
				assert.Equal(t, "Interface DP", cfg.Sheets.DPSheet)
				assert.Equal(t, "credenciais.json", cfg.Sheets.CredentialsFile)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 3, cfg.Logging.MaxBackups)
				assert.Equal(t, 28, cfg.Logging.MaxAgeDays)
				assert.True(t, cfg.Sheets.Offline)
			},
		},
		{
			name:    "spreadsheet id required when online",
			wantErr: true,
		},
		{
			name: "file overlays defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
sheets:
  spreadsheet_id: sheet-from-file
  dp_sheet: Ensaio DP
logging:
  output: both
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "sheet-from-file", cfg.Sheets.SpreadsheetID)
				assert.Equal(t, "Ensaio DP", cfg.Sheets.DPSheet)
				assert.Equal(t, "Interface MR", cfg.Sheets.MRSheet)
				assert.Equal(t, "both", cfg.Logging.Output)
			},
		},
		{
			name: "environment wins over file",
			file: "sheets:\n  spreadsheet_id: from-file\nserver:\n  port: 9090\n",
			env: map[string]string{
				"ENSAIO_SHEETS_SPREADSHEET_ID":     "from-env",
				"ENSAIO_SECURITY_ALLOWED_ORIGINS": "http://a.local,http://b.local",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Sheets.SpreadsheetID)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"ENSAIO_SERVER_PORT": "70000", "ENSAIO_SHEETS_OFFLINE": "true"},
			wantErr: true,
		},
		{
			name:    "invalid logging output",
			env:     map[string]string{"ENSAIO_LOGGING_OUTPUT": "syslog", "ENSAIO_SHEETS_OFFLINE": "true"},
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			env:     map[string]string{"ENSAIO_LOGGING_FORMAT": "xml", "ENSAIO_SHEETS_OFFLINE": "true"},
			wantErr: true,
		},
		{
			name: "text logging format",
			env:  map[string]string{"ENSAIO_LOGGING_FORMAT": "text", "ENSAIO_SHEETS_OFFLINE": "true"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"ENSAIO_SERVER_READ_TIMEOUT": "soon", "ENSAIO_SHEETS_OFFLINE": "true"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENSAIO_CONFIG", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENSAIO_CONFIG", "")
	t.Setenv("ENSAIO_SERVER_PORT", "9000")

	cfg, err := Load("",
		func(c *Config) { c.Sheets.Offline = true },
		func(c *Config) { c.Server.Port = 9191 },
	)
	require.NoError(t, err)
	assert.True(t, cfg.Sheets.Offline)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadOverrideIsValidated(t *testing.T) {
	t.Setenv("ENSAIO_CONFIG", "")
	_, err := Load("", func(c *Config) {
		c.Sheets.Offline = true
		c.Server.Port = -1
	})
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValidOffline(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Sheets.Offline = true
	assert.NoError(t, cfg.Validate())
}

func TestPathsResolve(t *testing.T) {
	paths := &Paths{ExecutableDir: filepath.Join("opt", "ensaio")}

	abs, err := filepath.Abs("x.json")
	require.NoError(t, err)
	assert.Equal(t, abs, paths.Resolve(abs))
	assert.Equal(t, "", paths.Resolve(""))
	assert.Equal(t, filepath.Join("opt", "ensaio", "missing-credentials.json"), paths.Resolve("missing-credentials.json"))
	assert.Equal(t, "config_test.go", paths.Resolve("config_test.go"))
}
