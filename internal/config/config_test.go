package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvLogFile, EnvClickPolicy, EnvOTLPEndpoint, EnvOTLPInsecure, EnvServiceName} {
		t.Setenv(k, "")
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, FileName, `
log:
  level: debug
  format: json
click:
  policy: legacy
trace:
  endpoint: localhost:4318
  max_traces: 50
theme:
  accent: "#ff00ff"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "legacy", cfg.Click.Policy)
	assert.Equal(t, "localhost:4318", cfg.Trace.Endpoint)
	assert.Equal(t, 50, cfg.Trace.MaxTraces)
	assert.Equal(t, "uikit", cfg.Trace.Service)
	assert.Equal(t, "#ff00ff", cfg.Theme.Accent)
	assert.Equal(t, "241", cfg.Theme.Muted)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	write(t, dir, FileName, "click:\n  policy: legacy\n")
	t.Setenv(EnvClickPolicy, "vote")
	t.Setenv(EnvOTLPEndpoint, "collector:4318")
	t.Setenv(EnvOTLPInsecure, "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "vote", cfg.Click.Policy)
	assert.Equal(t, "collector:4318", cfg.Trace.Endpoint)
	assert.True(t, cfg.Trace.Insecure)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables already present, so unset the
	// one under test; t.Setenv restores it afterwards.
	require.NoError(t, os.Unsetenv(EnvLogLevel))
	dir := t.TempDir()
	write(t, dir, ".env", EnvLogLevel+"=warn\n")
	t.Cleanup(func() { os.Unsetenv(EnvLogLevel) })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "log: [\n"},
		{name: "bad policy", yaml: "click:\n  policy: sometimes\n"},
		{name: "bad format", yaml: "log:\n  format: xml\n"},
		{name: "bad insecure", env: map[string]string{EnvOTLPInsecure: "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			dir := t.TempDir()
			if tt.yaml != "" {
				write(t, dir, FileName, tt.yaml)
			}
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
