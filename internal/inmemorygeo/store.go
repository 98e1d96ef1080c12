package inmemorygeo

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/geostore"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/volumepath"
)

// Store implements geostore.Store with flat slices indexed by handle and a
// name index per kind.
type Store struct {
	mu sync.RWMutex

	solids   []geometry.Solid
	logicals []geometry.LogicalVolume
	placed   []geometry.PlacedVolume
	children [][]geometry.PlacedID // Indexed by PlacedID.

	solidNames   map[string]geometry.SolidID
	logicalNames map[string]geometry.LogicalID
	placedNames  map[string]geometry.PlacedID

	root       geometry.PlacedID
	generation uint64
}

var _ geostore.Store = (*Store)(nil)

// New creates a new, empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.solids = nil
	s.logicals = nil
	s.placed = nil
	s.children = nil
	s.solidNames = make(map[string]geometry.SolidID)
	s.logicalNames = make(map[string]geometry.LogicalID)
	s.placedNames = make(map[string]geometry.PlacedID)
	s.root = geometry.NoParent
}

// Clean drops every entry and bumps the generation.
func (s *Store) Clean(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.solids) + len(s.logicals) + len(s.placed)
	s.reset()
	s.generation++
	ctxlog.FromContext(ctx).Debug("Geometry store cleaned.", "removed", removed, "generation", s.generation)
}

// Empty reports whether no entries are registered.
func (s *Store) Empty(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.solids) == 0 && len(s.logicals) == 0 && len(s.placed) == 0
}

// AddSolid registers a solid.
func (s *Store) AddSolid(ctx context.Context, solid geometry.Solid) (geometry.SolidID, error) {
	if solid == nil {
		return 0, fmt.Errorf("cannot add a nil solid")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := solid.Name()
	if _, exists := s.solidNames[name]; exists {
		return 0, fmt.Errorf("solid '%s': %w", name, geostore.ErrDuplicateName)
	}
	id := geometry.SolidID(len(s.solids))
	s.solids = append(s.solids, solid)
	s.solidNames[name] = id
	return id, nil
}

// AddLogical registers a logical volume.
func (s *Store) AddLogical(ctx context.Context, lv geometry.LogicalVolume) (geometry.LogicalID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.logicalNames[lv.Name]; exists {
		return 0, fmt.Errorf("logical volume '%s': %w", lv.Name, geostore.ErrDuplicateName)
	}
	if !s.validSolid(lv.Solid) {
		return 0, fmt.Errorf("solid %d of logical volume '%s': %w", lv.Solid, lv.Name, geostore.ErrNotFound)
	}
	if lv.Material == nil {
		return 0, fmt.Errorf("material of logical volume '%s': %w", lv.Name, geostore.ErrNotFound)
	}
	id := geometry.LogicalID(len(s.logicals))
	s.logicals = append(s.logicals, lv)
	s.logicalNames[lv.Name] = id
	return id, nil
}

// Place registers a placed volume.
func (s *Store) Place(ctx context.Context, pv geometry.PlacedVolume) (geometry.PlacedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.placedNames[pv.Name]; exists {
		return 0, fmt.Errorf("placed volume '%s': %w", pv.Name, geostore.ErrDuplicateName)
	}
	if !s.validLogical(pv.Logical) {
		return 0, fmt.Errorf("logical volume %d of placement '%s': %w", pv.Logical, pv.Name, geostore.ErrNotFound)
	}
	if pv.IsRoot() {
		if s.root != geometry.NoParent {
			return 0, fmt.Errorf("placement '%s': %w", pv.Name, geostore.ErrRootExists)
		}
	} else if !s.validPlaced(pv.Parent) {
		return 0, fmt.Errorf("parent %d of placement '%s': %w", pv.Parent, pv.Name, geostore.ErrNotFound)
	}

	if pv.Rotation != nil {
		rot := *pv.Rotation
		pv.Rotation = &rot
	}
	id := geometry.PlacedID(len(s.placed))
	s.placed = append(s.placed, pv)
	s.children = append(s.children, nil)
	s.placedNames[pv.Name] = id
	if pv.IsRoot() {
		s.root = id
	} else {
		s.children[pv.Parent] = append(s.children[pv.Parent], id)
	}
	return id, nil
}

// Solid returns the solid behind a handle.
func (s *Store) Solid(ctx context.Context, id geometry.SolidID) (geometry.Solid, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validSolid(id) {
		return nil, false
	}
	return s.solids[id], true
}

// Logical returns a copy of a logical volume.
func (s *Store) Logical(ctx context.Context, id geometry.LogicalID) (geometry.LogicalVolume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLogical(id) {
		return geometry.LogicalVolume{}, false
	}
	return s.logicals[id], true
}

// Placed returns a copy of a placed volume.
func (s *Store) Placed(ctx context.Context, id geometry.PlacedID) (geometry.PlacedVolume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validPlaced(id) {
		return geometry.PlacedVolume{}, false
	}
	pv := s.placed[id]
	if pv.Rotation != nil {
		rot := *pv.Rotation
		pv.Rotation = &rot
	}
	return pv, true
}

func (s *Store) SolidByName(ctx context.Context, name string) (geometry.SolidID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.solidNames[name]
	return id, ok
}

func (s *Store) LogicalByName(ctx context.Context, name string) (geometry.LogicalID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.logicalNames[name]
	return id, ok
}

func (s *Store) PlacedByName(ctx context.Context, name string) (geometry.PlacedID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.placedNames[name]
	return id, ok
}

// Children returns the daughters of a placement in placement order.
func (s *Store) Children(ctx context.Context, id geometry.PlacedID) ([]geometry.PlacedID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validPlaced(id) {
		return nil, fmt.Errorf("placement %d: %w", id, geostore.ErrNotFound)
	}
	out := make([]geometry.PlacedID, len(s.children[id]))
	copy(out, s.children[id])
	return out, nil
}

// Root returns the parentless placement.
func (s *Store) Root(ctx context.Context) (geometry.PlacedID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root, s.root != geometry.NoParent
}

// Resolve follows a volume path from the root.
func (s *Store) Resolve(ctx context.Context, p *volumepath.Path) (geometry.PlacedID, error) {
	if p == nil || len(p.Segments) == 0 {
		return 0, fmt.Errorf("empty volume path: %w", geostore.ErrNotFound)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.root == geometry.NoParent {
		return 0, fmt.Errorf("volume path '%s': store has no root: %w", p, geostore.ErrNotFound)
	}
	current := s.root
	if !p.Segments[0].Matches(s.placed[current].Name, s.placed[current].CopyNo) {
		return 0, fmt.Errorf("volume path '%s': root is '%s': %w", p, s.placed[current].Name, geostore.ErrNotFound)
	}

	for _, seg := range p.Segments[1:] {
		next := geometry.NoParent
		for _, child := range s.children[current] {
			if seg.Matches(s.placed[child].Name, s.placed[child].CopyNo) {
				next = child
				break
			}
		}
		if next == geometry.NoParent {
			return 0, fmt.Errorf("volume path '%s': no daughter '%s' under '%s': %w", p, seg.Name, s.placed[current].Name, geostore.ErrNotFound)
		}
		current = next
	}
	return current, nil
}

// SetMaterial retargets a logical volume's material.
func (s *Store) SetMaterial(ctx context.Context, id geometry.LogicalID, m *material.Material) error {
	if m == nil {
		return fmt.Errorf("cannot assign a nil material")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validLogical(id) {
		return fmt.Errorf("logical volume %d: %w", id, geostore.ErrNotFound)
	}
	s.logicals[id].Material = m
	return nil
}

// Stats returns entry counts and the generation.
func (s *Store) Stats(ctx context.Context) geostore.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return geostore.Stats{
		Solids:     len(s.solids),
		Logicals:   len(s.logicals),
		Placed:     len(s.placed),
		Generation: s.generation,
	}
}

func (s *Store) validSolid(id geometry.SolidID) bool {
	return id >= 0 && int(id) < len(s.solids)
}

func (s *Store) validLogical(id geometry.LogicalID) bool {
	return id >= 0 && int(id) < len(s.logicals)
}

func (s *Store) validPlaced(id geometry.PlacedID) bool {
	return id >= 0 && int(id) < len(s.placed)
}
