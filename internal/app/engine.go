package app

import (
	"context"
	"sync/atomic"

	"github.com/specialistvlad/detgeo/internal/ctxlog"
)

// engine stands in for the simulation engine. It records what the engine
// would have to redo; App.Run commits a requested reinitialisation by
// calling Construct again.
type engine struct {
	physicsModified atomic.Int32
	reinitRequested atomic.Int32
}

func (e *engine) PhysicsModified(ctx context.Context) {
	e.physicsModified.Add(1)
	ctxlog.FromContext(ctx).Info("Engine notified: physics tables must be rebuilt.")
}

func (e *engine) ReinitializeGeometry(ctx context.Context) {
	e.reinitRequested.Add(1)
	ctxlog.FromContext(ctx).Info("Engine notified: geometry must be reinitialised.")
}
