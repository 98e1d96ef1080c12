package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/detgeo/internal/config"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/detector"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/units"
)

// Run executes the configured command. With a health check port it keeps
// serving until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.ctx = ctx
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	cfgModel := config.NewModel()
	if len(a.config.ConfigPaths) > 0 {
		loaded, err := a.loader.Load(ctx, a.config.ConfigPaths...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfgModel = loaded
		a.logger.Debug("Configuration loaded.", "files", cfgModel.Files)
	}
	definitions := []material.Definitions{material.Standard()}
	if !cfgModel.Definitions.Empty() {
		definitions = append(definitions, cfgModel.Definitions)
	}

	switch a.config.Command {
	case CommandMaterials:
		if err := a.runMaterials(ctx, definitions); err != nil {
			return err
		}
	default:
		if err := a.runBuild(ctx, cfgModel, definitions); err != nil {
			return err
		}
	}

	if a.config.HealthcheckPort > 0 {
		return a.serve(ctx)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runMaterials(ctx context.Context, definitions []material.Definitions) error {
	if err := a.catalog.Define(ctx, definitions...); err != nil {
		return fmt.Errorf("failed to define materials: %w", err)
	}
	a.metrics.SetMaterials(len(a.catalog.Materials()))
	return a.writeMaterials()
}

func (a *App) runBuild(ctx context.Context, cfgModel *config.Model, definitions []material.Definitions) error {
	a.engine = &engine{}
	a.model = detector.New(a.store, a.catalog, detector.Options{
		Engine:      a.engine,
		Metrics:     a.metrics,
		Definitions: definitions,
	})

	// Parameters from files, then from the command line, staged before the
	// first construction.
	if err := a.model.Apply(ctx, cfgModel.Parameters); err != nil {
		return fmt.Errorf("invalid detector parameters in configuration: %w", err)
	}
	overrides, err := ParseOverrides(a.config.Overrides)
	if err != nil {
		return err
	}
	if err := a.model.Apply(ctx, overrides); err != nil {
		return fmt.Errorf("invalid parameter override: %w", err)
	}

	if _, err := a.model.Construct(ctx); err != nil {
		return fmt.Errorf("failed to construct detector: %w", err)
	}

	// Live changes on the built detector.
	if a.config.WorldMaterial != "" {
		err := a.model.SetWorldMaterial(ctx, a.config.WorldMaterial)
		if err != nil && !errors.Is(err, material.ErrMaterialNotFound) {
			return err
		}
	}
	if a.config.WorldSize != "" {
		size, err := units.ParseQuantity(a.config.WorldSize)
		if err != nil {
			return fmt.Errorf("invalid world size: %w", err)
		}
		if err := a.model.SetWorldAxialSize(ctx, size); err != nil {
			return err
		}
	}
	if a.model.RebuildPending() {
		a.logger.Debug("Committing staged changes.", "reinit_requests", a.engine.reinitRequested.Load())
		if _, err := a.model.Construct(ctx); err != nil {
			return fmt.Errorf("failed to reconstruct detector: %w", err)
		}
	}

	return a.writeDetector(ctx)
}
