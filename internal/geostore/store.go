// Package geostore defines the interface for the registries that hold a
// detector's solids, logical volumes and placed volumes.
//
// # Why the Geometry Store Exists
//
// The simulation engine consumes geometry through three global registries.
// Keeping them behind one interface lets the construction protocol treat
// them as a unit: a rebuild starts with a single Clean, and a failed build
// is undone with another. Nothing built for a previous generation survives
// a Clean, so handles from before a Clean must not be used afterwards.
//
// # Lifecycle and Usage
//
// The geometry store is:
//  1. **Cleaned** at the start of every construction
//  2. **Populated** by the volume tree builder, parents before children
//  3. **Read** by the detector model, the summary printer and the engine
//  4. **Cleaned again** when the next construction begins or a build fails
//
// Only logical volume materials change outside construction, through
// SetMaterial.
package geostore

import (
	"context"
	"errors"

	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/volumepath"
)

var (
	// ErrDuplicateName is returned when a name is already registered for the
	// same kind of entry.
	ErrDuplicateName = errors.New("name already registered")

	// ErrNotFound is returned for unknown handles, names and paths.
	ErrNotFound = errors.New("not found")

	// ErrRootExists is returned when a second parentless placement is added.
	ErrRootExists = errors.New("root placement already exists")
)

// Stats summarises the store contents.
type Stats struct {
	Solids     int    `yaml:"solids"`
	Logicals   int    `yaml:"logical_volumes"`
	Placed     int    `yaml:"placed_volumes"`
	Generation uint64 `yaml:"generation"`
}

// Store is the interface for the solid, logical volume and placed volume
// registries.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. The construction protocol
// still assumes a single writer while a tree is being built.
//
// # Typical Implementation
//
// See internal/inmemorygeo for the arena implementation.
type Store interface {
	// Clean removes every entry and starts a new generation. Handles issued
	// before the call are invalid afterwards.
	Clean(ctx context.Context)

	// Empty reports whether the store holds no entries of any kind.
	Empty(ctx context.Context) bool

	// AddSolid registers a solid under its name.
	//
	// Returns ErrDuplicateName if a solid with that name exists.
	AddSolid(ctx context.Context, s geometry.Solid) (geometry.SolidID, error)

	// AddLogical registers a logical volume.
	//
	// The referenced solid must already be in the store and the material must
	// be set; otherwise ErrNotFound is returned. Returns ErrDuplicateName if a
	// logical volume with that name exists.
	AddLogical(ctx context.Context, lv geometry.LogicalVolume) (geometry.LogicalID, error)

	// Place registers a placed volume.
	//
	// The logical volume must exist. The parent must exist unless it is
	// geometry.NoParent, in which case the placement becomes the root and
	// ErrRootExists is returned if there already is one.
	Place(ctx context.Context, pv geometry.PlacedVolume) (geometry.PlacedID, error)

	// Solid, Logical and Placed look an entry up by handle. Logical and
	// Placed return copies.
	Solid(ctx context.Context, id geometry.SolidID) (geometry.Solid, bool)
	Logical(ctx context.Context, id geometry.LogicalID) (geometry.LogicalVolume, bool)
	Placed(ctx context.Context, id geometry.PlacedID) (geometry.PlacedVolume, bool)

	// SolidByName, LogicalByName and PlacedByName look a handle up by name.
	SolidByName(ctx context.Context, name string) (geometry.SolidID, bool)
	LogicalByName(ctx context.Context, name string) (geometry.LogicalID, bool)
	PlacedByName(ctx context.Context, name string) (geometry.PlacedID, bool)

	// Children returns the direct daughters of a placement in placement
	// order. Returns ErrNotFound for an unknown parent.
	Children(ctx context.Context, id geometry.PlacedID) ([]geometry.PlacedID, error)

	// Root returns the parentless placement, if any.
	Root(ctx context.Context) (geometry.PlacedID, bool)

	// Resolve follows a volume path from the root.
	Resolve(ctx context.Context, p *volumepath.Path) (geometry.PlacedID, error)

	// SetMaterial retargets a logical volume's material in place. Every
	// placement of the logical volume sees the change.
	SetMaterial(ctx context.Context, id geometry.LogicalID, m *material.Material) error

	// Stats reports entry counts and the current generation.
	Stats(ctx context.Context) Stats
}
