package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/detgeo/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *app.Config)
	}{
		{
			name: "no subcommand builds with defaults",
			args: nil,
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, app.CommandBuild, cfg.Command)
				assert.Equal(t, "text", cfg.Format)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.ConfigPaths)
			},
		},
		{
			name: "build flags",
			args: []string{
				"build", "-c", "a.hcl", "--config", "conf.d",
				"--set", "world_size_z=25*m", "--set", "target_material=G4_lXe",
				"--world-material", "G4_Galactic", "--world-size", "40*m",
				"--format", "yaml", "--print-materials", "--log-level", "debug",
			},
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, app.CommandBuild, cfg.Command)
				assert.Equal(t, []string{"a.hcl", "conf.d"}, cfg.ConfigPaths)
				assert.Equal(t, []string{"world_size_z=25*m", "target_material=G4_lXe"}, cfg.Overrides)
				assert.Equal(t, "G4_Galactic", cfg.WorldMaterial)
				assert.Equal(t, "40*m", cfg.WorldSize)
				assert.Equal(t, "yaml", cfg.Format)
				assert.True(t, cfg.PrintMaterials)
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name: "materials",
			args: []string{"materials", "--healthcheck-port", "8080", "--log-format", "json"},
			check: func(t *testing.T, cfg *app.Config) {
				assert.Equal(t, app.CommandMaterials, cfg.Command)
				assert.Equal(t, 8080, cfg.HealthcheckPort)
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			require.False(t, shouldExit)
			require.NotNil(t, cfg)
			tc.check(t, cfg)
		})
	}
}

func TestParse_EnvDefaults(t *testing.T) {
	t.Setenv("DETGEO_FORMAT", "yaml")
	t.Setenv("DETGEO_CONFIG", "env.hcl")

	cfg, _, err := Parse([]string{"build"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, []string{"env.hcl"}, cfg.ConfigPaths)

	cfg, _, err = Parse([]string{"build", "--format", "text"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format, "flags win over the environment")
}

func TestParse_Help(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {"build", "--help"}} {
		var out bytes.Buffer
		cfg, shouldExit, err := Parse(args, &out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"--nope"}, want: "unknown flag: --nope"},
		{name: "unknown command", args: []string{"simulate"}, want: `unknown command "simulate"`},
		{name: "build-only flag on materials", args: []string{"materials", "--world-size", "1*m"}, want: "unknown flag: --world-size"},
		{name: "bad format", args: []string{"--format", "xml"}, want: "invalid format"},
		{name: "bad log level", args: []string{"build", "--log-level", "loud"}, want: "invalid log-level"},
		{name: "bad override", args: []string{"build", "--set", "world_size_z"}, want: "expected key=value"},
		{name: "bad port", args: []string{"--healthcheck-port", "port"}, want: "invalid argument"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, shouldExit, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, shouldExit)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
