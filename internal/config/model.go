package config

import (
	"maps"

	"github.com/specialistvlad/detgeo/internal/material"
)

// Model is the unified, format-agnostic representation of the detector
// configuration.
type Model struct {
	// Parameters holds detector parameter overrides keyed by parameter name.
	// Numeric values are already in engine-native units.
	Parameters map[string]any
	// Definitions are registered with the catalog alongside the standard set.
	Definitions material.Definitions
	// Files lists the files the model was read from, in load order.
	Files []string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Parameters: make(map[string]any)}
}

// Merge folds other into m. Parameters from other win; definitions are
// appended.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if m.Parameters == nil {
		m.Parameters = make(map[string]any)
	}
	maps.Copy(m.Parameters, other.Parameters)
	m.Definitions.Isotopes = append(m.Definitions.Isotopes, other.Definitions.Isotopes...)
	m.Definitions.Elements = append(m.Definitions.Elements, other.Definitions.Elements...)
	m.Definitions.Materials = append(m.Definitions.Materials, other.Definitions.Materials...)
	m.Files = append(m.Files, other.Files...)
}
