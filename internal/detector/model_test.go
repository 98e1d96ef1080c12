package detector

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/detgeo/internal/builder"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/inmemorygeo"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/metrics"
	"github.com/specialistvlad/detgeo/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEngine struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEngine) PhysicsModified(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, metrics.PhysicsModified)
}

func (e *recordingEngine) ReinitializeGeometry(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, metrics.ReinitializeGeometry)
}

func (e *recordingEngine) Events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

func newTestModel(t *testing.T) (*Model, *recordingEngine, context.Context, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	engine := &recordingEngine{}
	m := New(inmemorygeo.New(), material.NewCatalog(), Options{Engine: engine, Metrics: metrics.New(false)})
	return m, engine, ctx, logs
}

func mustConstruct(t *testing.T, ctx context.Context, m *Model) geometry.PlacedID {
	t.Helper()
	root, err := m.Construct(ctx)
	require.NoError(t, err)
	return root
}

var ignoreStore = cmpopts.IgnoreFields(Snapshot{}, "Store")

func TestConstruct_Idempotent(t *testing.T) {
	m, engine, ctx, _ := newTestModel(t)
	assert.Equal(t, Unbuilt, m.State())

	mustConstruct(t, ctx, m)
	first, err := m.Snapshot(ctx)
	require.NoError(t, err)
	materials := len(m.Catalog().Materials())

	mustConstruct(t, ctx, m)
	second, err := m.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, Built, m.State())
	assert.Empty(t, cmp.Diff(first, second, ignoreStore))
	assert.Equal(t, first.Store.Solids, second.Store.Solids)
	assert.Equal(t, first.Store.Placed, second.Store.Placed)
	assert.Greater(t, second.Store.Generation, first.Store.Generation)
	assert.Equal(t, materials, len(m.Catalog().Materials()), "material table must not grow")
	assert.Empty(t, engine.Events())
}

func TestConstruct_FailureLeavesStoreEmpty(t *testing.T) {
	m, _, ctx, logs := newTestModel(t)
	mustConstruct(t, ctx, m)

	require.NoError(t, m.Apply(ctx, map[string]any{"target_radius": 0}))
	_, err := m.Construct(ctx)
	require.ErrorIs(t, err, geometry.ErrInvalidDimension)

	assert.Equal(t, Unbuilt, m.State())
	assert.True(t, m.Store().Empty(ctx))
	_, ok := m.Root()
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "Detector construction failed.")

	// A corrected parameter set builds again.
	require.NoError(t, m.Apply(ctx, map[string]any{"target_radius": "2*cm"}))
	mustConstruct(t, ctx, m)
	assert.Equal(t, Built, m.State())
}

func TestSetWorldMaterial(t *testing.T) {
	t.Run("not built", func(t *testing.T) {
		m, engine, ctx, _ := newTestModel(t)
		assert.ErrorIs(t, m.SetWorldMaterial(ctx, "G4_Galactic"), ErrNotBuilt)
		assert.Empty(t, engine.Events())
	})

	t.Run("unknown material leaves state unchanged", func(t *testing.T) {
		m, engine, ctx, logs := newTestModel(t)
		mustConstruct(t, ctx, m)
		before, err := m.Snapshot(ctx)
		require.NoError(t, err)

		err = m.SetWorldMaterial(ctx, "Unobtainium")
		require.ErrorIs(t, err, material.ErrMaterialNotFound)

		after, err := m.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(before, after))
		assert.Equal(t, "Air", m.WorldMaterial())
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "Unobtainium")
		assert.Empty(t, engine.Events())
	})

	t.Run("same material fires nothing", func(t *testing.T) {
		m, engine, ctx, _ := newTestModel(t)
		mustConstruct(t, ctx, m)
		require.NoError(t, m.SetWorldMaterial(ctx, "Air"))
		assert.Empty(t, engine.Events())
	})

	t.Run("new material retargets the world in place", func(t *testing.T) {
		m, engine, ctx, _ := newTestModel(t)
		root := mustConstruct(t, ctx, m)
		stats := m.Store().Stats(ctx)

		require.NoError(t, m.SetWorldMaterial(ctx, "G4_Galactic"))
		assert.Equal(t, []string{metrics.PhysicsModified}, engine.Events())
		assert.Equal(t, "G4_Galactic", m.WorldMaterial())
		assert.Equal(t, "G4_Galactic", m.Params().WorldMaterial)
		assert.False(t, m.RebuildPending())
		assert.Equal(t, stats, m.Store().Stats(ctx), "no rebuild happens")

		pv, _ := m.Store().Placed(ctx, root)
		lv, _ := m.Store().Logical(ctx, pv.Logical)
		assert.Equal(t, "G4_Galactic", lv.Material.Name)

		// Rebuilding keeps the new material.
		mustConstruct(t, ctx, m)
		assert.Equal(t, "G4_Galactic", m.WorldMaterial())
	})
}

func TestSetWorldAxialSize(t *testing.T) {
	t.Run("only the world solid changes", func(t *testing.T) {
		m, engine, ctx, _ := newTestModel(t)
		mustConstruct(t, ctx, m)
		before, err := m.Snapshot(ctx)
		require.NoError(t, err)

		require.NoError(t, m.SetWorldAxialSize(ctx, 40*units.Meter))
		assert.True(t, m.RebuildPending())
		assert.Equal(t, []string{metrics.ReinitializeGeometry}, engine.Events())

		mustConstruct(t, ctx, m)
		assert.False(t, m.RebuildPending())
		after, err := m.Snapshot(ctx)
		require.NoError(t, err)

		expected := before
		expected.Params.WorldSizeZ = 40 * units.Meter
		require.Equal(t, "World_s", expected.Volumes[0].Solid.Name)
		expected.Volumes[0].Solid.Parameters["half_z"] = 20 * units.Meter
		assert.Empty(t, cmp.Diff(expected, after, ignoreStore))
	})

	t.Run("staged while unbuilt", func(t *testing.T) {
		m, _, ctx, _ := newTestModel(t)
		require.NoError(t, m.SetWorldAxialSize(ctx, 25*units.Meter))
		assert.True(t, m.RebuildPending())
		mustConstruct(t, ctx, m)

		var buf bytes.Buffer
		require.NoError(t, m.PrintSummary(&buf, false))
		assert.Contains(t, buf.String(), "The World is 25 m of Air")
	})

	for _, v := range []float64{0, -1 * units.Meter, math.Inf(1), math.NaN()} {
		m, engine, ctx, _ := newTestModel(t)
		err := m.SetWorldAxialSize(ctx, v)
		assert.ErrorIs(t, err, geometry.ErrInvalidDimension)
		assert.False(t, m.RebuildPending())
		assert.Equal(t, builder.DefaultParams().WorldSizeZ, m.Params().WorldSizeZ)
		assert.Empty(t, engine.Events())
	}
}

func TestApply(t *testing.T) {
	m, engine, ctx, _ := newTestModel(t)

	err := m.Apply(ctx, map[string]any{"target_radius": 1, "no_such_key": 3})
	require.ErrorIs(t, err, ErrUnknownParameter)
	assert.Equal(t, builder.DefaultParams(), m.Params(), "a rejected set changes nothing")

	err = m.Apply(ctx, map[string]any{"detector_length": "ten"})
	require.Error(t, err)
	assert.Equal(t, builder.DefaultParams(), m.Params())
	assert.Empty(t, engine.Events())

	require.NoError(t, m.Apply(ctx, map[string]any{
		"world_size_z":             "25*m",
		"detector_position_z":      -8000.0,
		"detector_material":        "G4_WATER",
		"collimator_hollow_length": "80",
	}))
	p := m.Params()
	assert.Equal(t, 25*units.Meter, p.WorldSizeZ)
	assert.Equal(t, -8*units.Meter, p.DetectorPositionZ)
	assert.Equal(t, "G4_WATER", p.DetectorMaterial)
	assert.Equal(t, 80.0, p.CollimatorHollowLength)
	assert.Equal(t, builder.DefaultParams().TargetRadius, p.TargetRadius)
	assert.True(t, m.RebuildPending())
	assert.Equal(t, []string{metrics.ReinitializeGeometry}, engine.Events())

	require.NoError(t, m.Apply(ctx, nil))
	assert.Len(t, engine.Events(), 1, "empty overrides are a no-op")
}

func TestParameterNames(t *testing.T) {
	names := ParameterNames()
	assert.Len(t, names, 24)
	assert.Contains(t, names, "world_size_z")
	assert.Contains(t, names, "collimator_shield_thickness")
	assert.Contains(t, names, "lar_container_material")

	flat, err := ParamsMap(builder.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Air", flat["world_material"])
}

func TestPrintSummary(t *testing.T) {
	m, _, ctx, _ := newTestModel(t)
	var buf bytes.Buffer
	assert.ErrorIs(t, m.PrintSummary(&buf, false), ErrNotBuilt)

	mustConstruct(t, ctx, m)
	require.NoError(t, m.PrintSummary(&buf, false))
	out := buf.String()
	assert.Contains(t, out, "The World is 30 m of Air")
	assert.Contains(t, out, "Material: Air")
	assert.NotContains(t, out, "***** Table")

	buf.Reset()
	require.NoError(t, m.PrintSummary(&buf, true))
	assert.Contains(t, buf.String(), "***** Table : Nb of materials =")
	assert.Contains(t, buf.String(), "LiPoly")
}

func TestSnapshot(t *testing.T) {
	m, _, ctx, _ := newTestModel(t)
	snap, err := m.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UNBUILT", snap.State)
	assert.Empty(t, snap.Volumes)

	mustConstruct(t, ctx, m)
	snap, err = m.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Volumes, 7)
	assert.Equal(t, "World_p/Gascontainer_p/Gasinsulator_p/LArcontainer_p/Target_p", snap.Volumes[4].Path)
	assert.Equal(t, "G4_lAr", snap.Volumes[4].Material)

	collimator := snap.Volumes[5]
	assert.Equal(t, "World_p/Collimator_p", collimator.Path)
	assert.Equal(t, "subtraction", collimator.Solid.Kind)
	require.NotNil(t, collimator.Solid.Subtrahend)
	assert.Equal(t, "CollimatorHollow_s", collimator.Solid.Subtrahend.Name)
	assert.InDelta(t, builder.DefaultParams().CollimatorCenterZ(), collimator.Translation.Z, 1e-9)
}

func TestConstruct_Concurrent(t *testing.T) {
	m, _, ctx, _ := newTestModel(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Construct(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	stats := m.Store().Stats(ctx)
	assert.Equal(t, 7, stats.Placed)
	assert.Equal(t, uint64(8), stats.Generation)
}

// rebuildingEngine commits staged changes immediately, as the app does.
type rebuildingEngine struct {
	model *Model
	err   error
}

func (e *rebuildingEngine) PhysicsModified(context.Context) {}

func (e *rebuildingEngine) ReinitializeGeometry(ctx context.Context) {
	_, e.err = e.model.Construct(ctx)
}

func TestEngineMayCallBack(t *testing.T) {
	engine := &rebuildingEngine{}
	m := New(inmemorygeo.New(), material.NewCatalog(), Options{Engine: engine})
	engine.model = m
	ctx := context.Background()

	require.NoError(t, m.SetWorldAxialSize(ctx, 22*units.Meter))
	require.NoError(t, engine.err)
	assert.Equal(t, Built, m.State())
	assert.False(t, m.RebuildPending())

	var buf bytes.Buffer
	require.NoError(t, m.PrintSummary(&buf, false))
	assert.True(t, strings.Contains(buf.String(), "The World is 22 m"))
}
