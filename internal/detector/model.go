package detector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/detgeo/internal/builder"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/geostore"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/metrics"
	"github.com/specialistvlad/detgeo/internal/units"
)

// Options configures a Model. Zero values select the defaults.
type Options struct {
	// Engine receives mutation notifications. Defaults to NopEngine.
	Engine Engine
	// Metrics may be nil.
	Metrics *metrics.Recorder
	// Definitions are registered on the first Construct. Defaults to
	// material.Standard().
	Definitions []material.Definitions
	// Params defaults to builder.DefaultParams().
	Params *builder.Params
}

// Model is the detector: its parameters, its construction state and the
// handles of the last successful build.
type Model struct {
	mu sync.Mutex

	store       geostore.Store
	catalog     *material.Catalog
	engine      Engine
	metrics     *metrics.Recorder
	definitions []material.Definitions

	params        builder.Params
	state         State
	pending       bool
	tree          *builder.Tree
	worldMaterial *material.Material
}

// New creates an UNBUILT model over the given store and catalog.
func New(store geostore.Store, catalog *material.Catalog, opts Options) *Model {
	m := &Model{
		store:       store,
		catalog:     catalog,
		engine:      opts.Engine,
		metrics:     opts.Metrics,
		definitions: opts.Definitions,
		params:      builder.DefaultParams(),
	}
	if m.engine == nil {
		m.engine = NopEngine{}
	}
	if m.definitions == nil {
		m.definitions = []material.Definitions{material.Standard()}
	}
	if opts.Params != nil {
		m.params = *opts.Params
	}
	return m
}

// Construct rebuilds the whole volume tree from the current parameters and
// returns the root placement. On failure the store is left empty and the
// model is UNBUILT.
func (m *Model) Construct(ctx context.Context) (geometry.PlacedID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	root, err := m.constructLocked(ctx)
	m.metrics.ObserveConstruct(time.Since(start), err)
	m.metrics.ObserveStore(m.store.Stats(ctx))
	m.metrics.SetMaterials(len(m.catalog.Materials()))
	return root, err
}

func (m *Model) constructLocked(ctx context.Context) (geometry.PlacedID, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Construct: Starting.", "state", m.state, "rebuild_pending", m.pending)

	m.store.Clean(ctx)
	if err := m.catalog.Define(ctx, m.definitions...); err != nil {
		return m.fail(ctx, fmt.Errorf("failed to define materials: %w", err))
	}

	tree, err := builder.Build(ctx, m.store, m.catalog, m.params)
	if err != nil {
		return m.fail(ctx, fmt.Errorf("failed to build volume tree: %w", err))
	}
	world, ok := m.store.Logical(ctx, tree.World)
	if !ok {
		return m.fail(ctx, fmt.Errorf("world logical volume: %w", geostore.ErrNotFound))
	}

	m.tree = tree
	m.worldMaterial = world.Material
	m.state = Built
	m.pending = false

	logger.Info("Detector constructed.",
		"world", units.BestLength(m.params.WorldSizeZ),
		"material", m.worldMaterial.Name,
		"stats", m.store.Stats(ctx))
	return tree.Root, nil
}

func (m *Model) fail(ctx context.Context, err error) (geometry.PlacedID, error) {
	m.store.Clean(ctx)
	m.tree = nil
	m.worldMaterial = nil
	m.state = Unbuilt
	ctxlog.FromContext(ctx).Error("Detector construction failed.", "error", err)
	return geometry.NoParent, err
}

// SetWorldMaterial replaces the world material in place. It requires a
// built tree. An unknown name is logged and returned as an error without
// changing anything; the current material is a no-op.
func (m *Model) SetWorldMaterial(ctx context.Context, name string) error {
	m.mu.Lock()
	changed, err := m.setWorldMaterialLocked(ctx, name)
	m.mu.Unlock()

	m.metrics.ObserveMutation("set_world_material", err)
	if changed {
		m.notify(ctx, metrics.PhysicsModified)
	}
	return err
}

func (m *Model) setWorldMaterialLocked(ctx context.Context, name string) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	if m.state != Built {
		return false, ErrNotBuilt
	}

	mat, err := m.catalog.FindOrBuild(ctx, name)
	if err != nil {
		logger.Warn("World material not changed: material not found.", "material", name, "current", m.worldMaterial.Name)
		return false, fmt.Errorf("world material %q: %w", name, err)
	}
	if mat == m.worldMaterial {
		logger.Debug("World material unchanged.", "material", name)
		return false, nil
	}
	if err := m.store.SetMaterial(ctx, m.tree.World, mat); err != nil {
		return false, fmt.Errorf("failed to retarget world material: %w", err)
	}

	logger.Info("World material changed.", "from", m.worldMaterial.Name, "to", mat.Name)
	m.worldMaterial = mat
	m.params.WorldMaterial = mat.Name
	return true, nil
}

// SetWorldAxialSize stages a new world length along z. The change takes
// effect on the next Construct.
func (m *Model) SetWorldAxialSize(ctx context.Context, value float64) error {
	var err error
	if !geometry.ValidLength(value) {
		err = fmt.Errorf("%w: world axial size must be positive and finite, got %g", geometry.ErrInvalidDimension, value)
	} else {
		m.mu.Lock()
		m.params.WorldSizeZ = value
		m.pending = true
		m.mu.Unlock()
		ctxlog.FromContext(ctx).Info("World axial size staged.", "size", units.BestLength(value))
	}

	m.metrics.ObserveMutation("set_world_axial_size", err)
	if err != nil {
		return err
	}
	m.notify(ctx, metrics.ReinitializeGeometry)
	return nil
}

func (m *Model) notify(ctx context.Context, kind string) {
	m.metrics.ObserveNotification(kind)
	switch kind {
	case metrics.PhysicsModified:
		m.engine.PhysicsModified(ctx)
	case metrics.ReinitializeGeometry:
		m.engine.ReinitializeGeometry(ctx)
	}
}

// State returns the construction state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RebuildPending reports whether staged changes await a Construct.
func (m *Model) RebuildPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Params returns a copy of the current, possibly staged, parameters.
func (m *Model) Params() builder.Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params
}

// Root returns the root placement of the last successful build.
func (m *Model) Root() (geometry.PlacedID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Built {
		return geometry.NoParent, false
	}
	return m.tree.Root, true
}

// WorldMaterial returns the name of the world material in use, or the
// configured name while unbuilt.
func (m *Model) WorldMaterial() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.worldMaterial != nil {
		return m.worldMaterial.Name
	}
	return m.params.WorldMaterial
}

// Store and Catalog expose the collaborators for read-only use.
func (m *Model) Store() geostore.Store { return m.store }
func (m *Model) Catalog() *material.Catalog { return m.catalog }
