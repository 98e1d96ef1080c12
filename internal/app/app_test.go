package app

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/detgeo/internal/detector"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "detector.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRun_DefaultBuild(t *testing.T) {
	a, out, logs := SetupAppTest(t, Config{})
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "The World is 30 m of Air")
	assert.NotContains(t, out.String(), "***** Table")
	assert.Contains(t, logs.String(), "Detector constructed.")
	assert.Equal(t, detector.Built, a.Model().State())
}

func TestRun_ConfigFileAndOverrides(t *testing.T) {
	path := writeConfig(t, `
detector {
  world_size_z        = 25 * m
  detector_position_z = -9 * m
}

material "Borated" {
  density = 1.0 * g_per_cm3
  dilute {
    element  = "B"
    fraction = 5 * percent
    base     = "G4_POLYETHYLENE"
  }
}
`)
	a, out, _ := SetupAppTest(t, Config{
		ConfigPaths: []string{path},
		Overrides:   []string{"collimator_material=Borated", "world_size_z=26*m"},
	})
	require.NoError(t, a.Run(context.Background()))

	p := a.Model().Params()
	assert.Equal(t, 26*units.Meter, p.WorldSizeZ, "command line wins over files")
	assert.Equal(t, -9*units.Meter, p.DetectorPositionZ)
	assert.Equal(t, "Borated", p.CollimatorMaterial)
	assert.Contains(t, out.String(), "The World is 26 m of Air")
}

func TestRun_LiveChanges(t *testing.T) {
	a, out, logs := SetupAppTest(t, Config{WorldMaterial: "G4_Galactic", WorldSize: "40*m"})
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "The World is 40 m of G4_Galactic")
	assert.False(t, a.Model().RebuildPending())
	assert.Equal(t, int32(1), a.engine.physicsModified.Load())
	assert.Equal(t, int32(1), a.engine.reinitRequested.Load())
	assert.Contains(t, logs.String(), "World material changed.")
	assert.Equal(t, uint64(2), a.store.Stats(context.Background()).Generation)
}

func TestRun_UnknownWorldMaterialWarns(t *testing.T) {
	a, out, logs := SetupAppTest(t, Config{WorldMaterial: "Unobtainium"})
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "of Air")
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "Unobtainium")
}

func TestRun_Errors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "unknown override", cfg: Config{Overrides: []string{"no_such=1"}}, want: "unknown parameter"},
		{name: "invalid dimension", cfg: Config{Overrides: []string{"target_radius=0"}}, want: "invalid dimension"},
		{name: "bad world size", cfg: Config{WorldSize: "-5*m"}, want: "invalid dimension"},
		{name: "unparsable world size", cfg: Config{WorldSize: "5*parsec"}, want: "invalid world size"},
		{name: "missing config", cfg: Config{ConfigPaths: []string{"/does/not/exist.hcl"}}, want: "failed to load configuration"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _, _ := SetupAppTest(t, tc.cfg)
			err := a.Run(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRun_InvalidDimensionLeavesStoreEmpty(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{Overrides: []string{"detector_length=0"}})
	err := a.Run(context.Background())
	require.ErrorIs(t, err, geometry.ErrInvalidDimension)
	assert.True(t, a.store.Empty(context.Background()))
	assert.Equal(t, detector.Unbuilt, a.Model().State())
}

func TestRun_YAML(t *testing.T) {
	a, out, _ := SetupAppTest(t, Config{Format: "yaml", PrintMaterials: true})
	require.NoError(t, a.Run(context.Background()))

	var doc struct {
		Detector struct {
			State   string `yaml:"state"`
			Volumes []struct {
				Path     string `yaml:"path"`
				Material string `yaml:"material"`
			} `yaml:"volumes"`
			Parameters map[string]any `yaml:"parameters"`
		} `yaml:"detector"`
		Materials []struct {
			Name string `yaml:"name"`
		} `yaml:"materials"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &doc))
	assert.Equal(t, "BUILT", doc.Detector.State)
	require.Len(t, doc.Detector.Volumes, 7)
	assert.Equal(t, "World_p", doc.Detector.Volumes[0].Path)
	assert.Equal(t, "Water_ts", doc.Detector.Volumes[6].Material)
	assert.Equal(t, "Air", doc.Detector.Parameters["world_material"])
	assert.NotEmpty(t, doc.Materials)
}

func TestRun_Materials(t *testing.T) {
	path := writeConfig(t, `
material "Heavy" {
  density = 11.35 * g_per_cm3
  z          = 82
  molar_mass = 207.2 * g_per_mole
}
`)
	a, out, _ := SetupAppTest(t, Config{Command: CommandMaterials, ConfigPaths: []string{path}})
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "***** Table : Nb of materials = 13 *****")
	assert.Contains(t, out.String(), "Material: Heavy")
	assert.Contains(t, out.String(), "G4_STAINLESS-STEEL")
	assert.Nil(t, a.Model())
}

func TestHandler(t *testing.T) {
	a, _, _ := SetupAppTest(t, Config{})

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geometry", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, a.Run(context.Background()))

	for path, want := range map[string]string{
		"/health":   "OK",
		"/metrics":  `detgeo_constructs_total{result="success"} 1`,
		"/geometry": "World_p/Collimator_p",
	} {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, strings.Contains(rec.Body.String(), want), "%s should contain %q", path, want)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	a, _, logs := SetupAppTest(t, Config{})
	a.config.HealthcheckPort = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "Health check server starting")
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "Health check server shut down gracefully.")
}
