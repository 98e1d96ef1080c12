package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/detgeo/internal/config"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/detector"
	"github.com/specialistvlad/detgeo/internal/inmemorygeo"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	metrics    *metrics.Recorder
	catalog    *material.Catalog
	store      *inmemorygeo.Store
	engine     *engine
	model      *detector.Model
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Results go to outW
// and logs to logW. Each App owns its own logger, catalog, store and
// metrics registry.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	return &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loader:  loader,
		metrics: metrics.New(true),
		catalog: material.NewCatalog(),
		store:   inmemorygeo.New(),
	}
}

// Model returns the detector model once Run has created it. This is
// primarily for testing.
func (a *App) Model() *detector.Model {
	return a.model
}
