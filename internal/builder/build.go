package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/geostore"
	"github.com/specialistvlad/detgeo/internal/material"
)

// ErrStoreNotClean is returned when Build is called on a store that still
// holds entries.
var ErrStoreNotClean = errors.New("geometry store is not clean")

const (
	collimatorBodyName = "CollimatorSolid_s"
	collimatorBoreName = "CollimatorHollow_s"
)

// MaterialResolver finds a material by name. material.Catalog implements it.
type MaterialResolver interface {
	FindOrBuild(ctx context.Context, name string) (*material.Material, error)
}

// Tree is the result of a successful build.
type Tree struct {
	Root     geometry.PlacedID
	World    geometry.LogicalID
	Logicals map[Role]geometry.LogicalID
	Placed   map[Role]geometry.PlacedID
}

// plan holds everything that can be computed without touching the store.
type plan struct {
	solids    map[Role]geometry.Solid
	materials map[Role]*material.Material
	body      geometry.Solid
	bore      geometry.Solid
}

// Build validates p, resolves its materials and fills an empty store with
// the detector's volume tree.
func Build(ctx context.Context, store geostore.Store, materials MaterialResolver, p Params) (*Tree, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting volume tree construction.")

	if !store.Empty(ctx) {
		return nil, ErrStoreNotClean
	}
	pl, err := prepare(ctx, materials, p)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Validation complete.", "solids", len(pl.solids)+2)

	tree := &Tree{
		Logicals: make(map[Role]geometry.LogicalID, len(Roles)),
		Placed:   make(map[Role]geometry.PlacedID, len(Roles)),
	}

	// World.
	if err := tree.add(ctx, store, pl, RoleWorld, geometry.NoParent, geometry.Vector3{}); err != nil {
		return nil, err
	}
	tree.Root = tree.Placed[RoleWorld]
	tree.World = tree.Logicals[RoleWorld]

	// Concentric shells, each at the origin of the one around it.
	parent := tree.Root
	for _, shell := range p.Shells() {
		if err := tree.add(ctx, store, pl, shell.Role, parent, geometry.Vector3{}); err != nil {
			return nil, err
		}
		parent = tree.Placed[shell.Role]
	}
	logger.Debug("Build: Shells placed.")

	// Collimator body and bore are registered before their subtraction.
	for _, s := range []geometry.Solid{pl.body, pl.bore} {
		if _, err := store.AddSolid(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to register solid %s: %w", s.Name(), err)
		}
	}
	if err := tree.add(ctx, store, pl, RoleCollimator, tree.Root, geometry.Vector3{Z: p.CollimatorCenterZ()}); err != nil {
		return nil, err
	}
	if err := tree.add(ctx, store, pl, RoleDetector, tree.Root, geometry.Vector3{Z: p.DetectorPositionZ}); err != nil {
		return nil, err
	}

	logger.Debug("Build: Volume tree construction successful.", "stats", store.Stats(ctx))
	return tree, nil
}

// add registers the solid, logical volume and placement of one role.
func (t *Tree) add(ctx context.Context, store geostore.Store, pl *plan, role Role, parent geometry.PlacedID, at geometry.Vector3) error {
	solid := pl.solids[role]
	sid, err := store.AddSolid(ctx, solid)
	if err != nil {
		return fmt.Errorf("failed to register solid %s: %w", solid.Name(), err)
	}
	lid, err := store.AddLogical(ctx, geometry.LogicalVolume{
		Name:     role.LogicalName(),
		Solid:    sid,
		Material: pl.materials[role],
	})
	if err != nil {
		return fmt.Errorf("failed to register logical volume %s: %w", role.LogicalName(), err)
	}
	pid, err := store.Place(ctx, geometry.PlacedVolume{
		Name:        role.PlacedName(),
		Logical:     lid,
		Translation: at,
		Parent:      parent,
	})
	if err != nil {
		return fmt.Errorf("failed to place %s: %w", role.PlacedName(), err)
	}
	t.Logicals[role] = lid
	t.Placed[role] = pid
	return nil
}

// prepare runs every check and creates every solid without writing to the
// store.
func prepare(ctx context.Context, materials MaterialResolver, p Params) (*plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pl := &plan{
		solids:    make(map[Role]geometry.Solid, len(Roles)),
		materials: make(map[Role]*material.Material, len(Roles)),
	}
	names := p.Materials()
	for _, role := range Roles {
		m, err := materials.FindOrBuild(ctx, names[role])
		if err != nil {
			return nil, fmt.Errorf("material of %s: %w", role, err)
		}
		pl.materials[role] = m
	}

	world, err := geometry.NewBox(RoleWorld.SolidName(), p.WorldSizeX/2, p.WorldSizeY/2, p.WorldSizeZ/2)
	if err != nil {
		return nil, err
	}
	pl.solids[RoleWorld] = world

	for _, shell := range p.Shells() {
		tube, err := geometry.NewCylinder(shell.Role.SolidName(), shell.Radius, shell.Length/2)
		if err != nil {
			return nil, err
		}
		pl.solids[shell.Role] = tube
	}

	body, err := geometry.NewCylinder(collimatorBodyName, p.CollimatorBodyRadius(), p.CollimatorBodyLength()/2)
	if err != nil {
		return nil, err
	}
	bore, err := geometry.NewCylinder(collimatorBoreName, p.CollimatorHollowRadius, p.CollimatorHollowLength/2)
	if err != nil {
		return nil, err
	}
	collimator, err := geometry.NewSubtraction(RoleCollimator.SolidName(), body, bore, nil, p.BoreOffset())
	if err != nil {
		return nil, err
	}
	pl.body, pl.bore = body, bore
	pl.solids[RoleCollimator] = collimator

	detector, err := geometry.NewCylinder(RoleDetector.SolidName(), p.DetectorRadius, p.DetectorLength/2)
	if err != nil {
		return nil, err
	}
	pl.solids[RoleDetector] = detector
	return pl, nil
}
