package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/detgeo/internal/detector"
	"github.com/specialistvlad/detgeo/internal/material"
	"gopkg.in/yaml.v3"
)

// report is the YAML document written by the build command.
type report struct {
	Detector  *detector.Snapshot         `yaml:"detector"`
	Materials []material.MaterialSnapshot `yaml:"materials,omitempty"`
}

func (a *App) writeDetector(ctx context.Context) error {
	if a.config.Format == "yaml" {
		snap, err := a.model.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to snapshot detector: %w", err)
		}
		r := report{Detector: snap}
		if a.config.PrintMaterials {
			r.Materials = a.catalog.Snapshot()
		}
		return writeYAML(a.outW, r)
	}
	return a.model.PrintSummary(a.outW, a.config.PrintMaterials)
}

func (a *App) writeMaterials() error {
	if a.config.Format == "yaml" {
		return writeYAML(a.outW, map[string]any{"materials": a.catalog.Snapshot()})
	}
	if err := a.catalog.WriteTable(a.outW); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.outW, "\nReference materials available by name: %v\n", material.ReferenceNames())
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
