package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file with the given content in a temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func missing(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func Test_LoadFiles_Defaults(t *testing.T) {
	// when
	cfg, err := LoadFiles(missing(t, "config.yaml"), missing(t, ".env"))
	// then
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.HTTPServer.Port)
	assert.Equal(t, 1<<20, cfg.HTTPServer.MaxHeaderBytes)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.Timeout.ReadHeader)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.PProf.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Shutdown.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Traces.OtlpHttp.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Telemetry.Traces.OtlpHttp.Timeout)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DefaultAPIKey, cfg.Auth.APIKey)
	assert.True(t, cfg.UsesDefaultAPIKey())
}

func Test_LoadFiles_YAML(t *testing.T) {
	// given
	yamlFile := writeFile(t, "config.yaml", `
server:
  port: 8081
  timeout:
    read: 3s
log:
  level: debug
auth:
  apikey: from-yaml
app:
  env: development
metrics:
  enabled: false
`)
	// when
	cfg, err := LoadFiles(yamlFile, missing(t, ".env"))
	// then
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTPServer.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout.Write, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-yaml", cfg.Auth.APIKey)
	assert.False(t, cfg.UsesDefaultAPIKey())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Metrics.Enabled)
}

func Test_LoadFiles_Precedence(t *testing.T) {
	// given
	yamlFile := writeFile(t, "config.yaml", "auth:\n  apikey: from-yaml\nserver:\n  port: 8081\n")
	envFile := writeFile(t, ".env", "PRODUCT_SVC_AUTH_APIKEY=from-dotenv\nPRODUCT_SVC_SERVER_PORT=8082\n")
	t.Setenv("PRODUCT_SVC_AUTH_APIKEY", "from-env")
	// when
	cfg, err := LoadFiles(yamlFile, envFile)
	// then
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.APIKey, "process env has the highest priority")
	assert.Equal(t, 8082, cfg.HTTPServer.Port, ".env overrides yaml")
}

func Test_LoadFiles_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "port out of range", yaml: "server:\n  port: 70000\n", wantErr: "invalid HTTP server port"},
		{name: "zero port", yaml: "server:\n  port: 0\n", wantErr: "invalid HTTP server port"},
		{name: "zero read timeout", yaml: "server:\n  timeout:\n    read: 0s\n", wantErr: "read timeout"},
		{name: "pprof without address", yaml: "pprof:\n  enabled: true\n  addr: \"\"\n", wantErr: "pprof"},
		{name: "no shutdown timeout", yaml: "shutdown:\n  timeout: 0s\n", wantErr: "shutdown timeout"},
		{name: "tracing without endpoint", yaml: "telemetry:\n  enabled: true\n  traces:\n    otlphttp:\n      endpoint: \"\"\n", wantErr: "OTel endpoint"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			yamlFile := writeFile(t, "config.yaml", tc.yaml)
			// when
			cfg, err := LoadFiles(yamlFile, missing(t, ".env"))
			// then
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func Test_Config_StringMasksAPIKey(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{APIKey: "super-secret-value"}}

	out := cfg.String()

	assert.NotContains(t, out, "super-secret-value")
	assert.Contains(t, out, "auth.apikey: ****ue")
}

func Test_maskSecret(t *testing.T) {
	assert.Equal(t, "<not configured>", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abcd"))
	assert.Equal(t, "****ef", maskSecret("abcdef"))
}

func Test_keyTransformer(t *testing.T) {
	assert.Equal(t, "server.timeout.readheader", keyTransformer("PRODUCT_SVC_SERVER_TIMEOUT_READHEADER"))
	assert.Equal(t, "auth.apikey", keyTransformer("PRODUCT_SVC_AUTH_APIKEY"))
}
