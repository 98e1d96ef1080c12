package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{Format: "YAML", LogLevel: "DEBUG"})
	require.NoError(t, err)
	assert.Equal(t, CommandBuild, cfg.Command)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	testCases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "command", cfg: Config{Command: "run"}, want: "unknown command"},
		{name: "format", cfg: Config{Format: "xml"}, want: "invalid format"},
		{name: "log format", cfg: Config{LogFormat: "logfmt"}, want: "invalid log-format"},
		{name: "log level", cfg: Config{LogLevel: "trace"}, want: "invalid log-level"},
		{name: "port", cfg: Config{HealthcheckPort: 70000}, want: "invalid healthcheck port"},
		{name: "override", cfg: Config{Overrides: []string{"target_radius"}}, want: "expected key=value"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultConfig_Env(t *testing.T) {
	t.Setenv("DETGEO_CONFIG", "a.hcl,conf.d")
	t.Setenv("DETGEO_FORMAT", "yaml")
	t.Setenv("DETGEO_HEALTHCHECK_PORT", "9090")

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, CommandBuild, cfg.Command)
	assert.Equal(t, []string{"a.hcl", "conf.d"}, cfg.ConfigPaths)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 9090, cfg.HealthcheckPort)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestDefaultConfig_BadEnv(t *testing.T) {
	t.Setenv("DETGEO_HEALTHCHECK_PORT", "many")
	_, err := DefaultConfig()
	require.Error(t, err)
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"world_size_z = 25*m", "target_material=G4_lXe", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"world_size_z":    "25*m",
		"target_material": "G4_lXe",
		"empty":           "",
	}, got)

	_, err = ParseOverrides([]string{"=5"})
	assert.Error(t, err)
}

func TestNewLogger_ErrKey(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("info", "json", &buf)
	logger.Debug("hidden")
	logger.Error("boom", "error", errors.New("bad"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "boom", rec["msg"])
	assert.Equal(t, "bad", rec["err"])
	assert.NotContains(t, rec, "error")
}
