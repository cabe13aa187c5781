package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8631", cfg.GetServerAddr())
	assert.Equal(t, "localhost:631", cfg.GetSpoolerAddr())
	assert.Equal(t, 30*time.Second, cfg.Spooler.RequestTimeout)
	assert.Equal(t, "/usr/bin:/bin", cfg.Resolver.ProgramPath)
	assert.Equal(t, "/usr/lib/cups/filter:/usr/lib64/cups/filter", cfg.Resolver.FilterPath)
	assert.Equal(t, 9100, cfg.Discovery.Socket.Port)
	assert.True(t, cfg.Discovery.USB.Enabled)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsDebugEnabled())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
spooler:
  host: cups.example.com
  port: 8631
  user: admin
resolver:
  package_map_file: /etc/printer-service/packages.toml
ppd:
  locale: fr_CA
discovery:
  socket:
    enabled: true
    hosts: ["10.0.0.5", "10.0.0.6"]
app:
  environment: production
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cups.example.com:8631", cfg.GetSpoolerAddr())
	assert.Equal(t, "admin", cfg.Spooler.User)
	assert.Equal(t, "/etc/printer-service/packages.toml", cfg.Resolver.PackageMapFile)
	assert.Equal(t, "fr_CA", cfg.PPD.Locale)
	assert.Equal(t, []string{"10.0.0.5", "10.0.0.6"}, cfg.Discovery.Socket.Hosts)
	assert.True(t, cfg.IsProduction())
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("PRINTER_SERVICE_SPOOLER_HOST", "print-server")
	t.Setenv("PRINTER_SERVICE_LOGGING_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "spooler:\n  host: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "print-server", cfg.Spooler.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad environment", "app:\n  environment: qa\n", "app.environment"},
		{"bad level", "logging:\n  level: verbose\n", "logging.level"},
		{"bad format", "logging:\n  format: xml\n", "logging.format"},
		{"bad spooler port", "spooler:\n  port: 70000\n", "spooler.port"},
		{"socket without port", "discovery:\n  socket:\n    enabled: true\n    port: 0\n", "discovery.socket.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
