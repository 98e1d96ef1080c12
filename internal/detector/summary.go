package detector

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/detgeo/internal/builder"
	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/geostore"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/units"
)

// PrintSummary writes the world summary and its material. The whole
// material table follows when withTable is set.
func (m *Model) PrintSummary(w io.Writer, withTable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Built {
		return ErrNotBuilt
	}

	if _, err := fmt.Fprintf(w, "\n The World is %s of %s\n \n", units.BestLength(m.params.WorldSizeZ), m.worldMaterial.Name); err != nil {
		return err
	}
	if err := material.WriteMaterial(w, m.worldMaterial); err != nil {
		return err
	}
	if !withTable {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return m.catalog.WriteTable(w)
}

// Snapshot is a plain, serialisable view of the model.
type Snapshot struct {
	State          string           `yaml:"state"`
	RebuildPending bool             `yaml:"rebuild_pending"`
	WorldMaterial  string           `yaml:"world_material"`
	Params         builder.Params   `yaml:"parameters"`
	Store          geostore.Stats   `yaml:"store"`
	Volumes        []VolumeSnapshot `yaml:"volumes,omitempty"`
}

// VolumeSnapshot describes one placement.
type VolumeSnapshot struct {
	Path        string           `yaml:"path"`
	Logical     string           `yaml:"logical"`
	Material    string           `yaml:"material"`
	CopyNo      int              `yaml:"copy_no"`
	Translation geometry.Vector3 `yaml:"translation"`
	Solid       SolidSnapshot    `yaml:"solid"`
}

// SolidSnapshot describes a solid and, for booleans, its operands.
type SolidSnapshot struct {
	Name       string             `yaml:"name"`
	Kind       string             `yaml:"kind"`
	Parameters map[string]float64 `yaml:"parameters,omitempty"`
	Minuend    *SolidSnapshot     `yaml:"minuend,omitempty"`
	Subtrahend *SolidSnapshot     `yaml:"subtrahend,omitempty"`
}

func snapshotSolid(s geometry.Solid) SolidSnapshot {
	out := SolidSnapshot{Name: s.Name(), Kind: string(s.Kind()), Parameters: s.Parameters()}
	if sub, ok := s.(*geometry.Subtraction); ok {
		minuend, subtrahend := snapshotSolid(sub.Minuend), snapshotSolid(sub.Subtrahend)
		out.Minuend, out.Subtrahend = &minuend, &subtrahend
	}
	return out
}

// Snapshot captures the model and, when built, every placement in
// depth-first order.
func (m *Model) Snapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{
		State:          m.state.String(),
		RebuildPending: m.pending,
		WorldMaterial:  m.params.WorldMaterial,
		Params:         m.params,
		Store:          m.store.Stats(ctx),
	}
	if m.state != Built {
		return snap, nil
	}
	snap.WorldMaterial = m.worldMaterial.Name

	err := geostore.Walk(ctx, m.store, func(id geometry.PlacedID, pv geometry.PlacedVolume, _ int) error {
		path, err := geostore.Path(ctx, m.store, id)
		if err != nil {
			return err
		}
		lv, ok := m.store.Logical(ctx, pv.Logical)
		if !ok {
			return fmt.Errorf("logical volume of %s: %w", pv.Name, geostore.ErrNotFound)
		}
		solid, ok := m.store.Solid(ctx, lv.Solid)
		if !ok {
			return fmt.Errorf("solid of %s: %w", lv.Name, geostore.ErrNotFound)
		}
		snap.Volumes = append(snap.Volumes, VolumeSnapshot{
			Path:        path,
			Logical:     lv.Name,
			Material:    lv.Material.Name,
			CopyNo:      pv.CopyNo,
			Translation: pv.Translation,
			Solid:       snapshotSolid(solid),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
