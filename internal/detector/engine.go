package detector

import "context"

// Engine receives the notifications a simulation engine needs after a
// mutation.
type Engine interface {
	// PhysicsModified is called after a material change on a built tree.
	PhysicsModified(ctx context.Context)
	// ReinitializeGeometry is called after a staged change. The engine is
	// expected to call Construct before its next run.
	ReinitializeGeometry(ctx context.Context)
}

// NopEngine ignores every notification.
type NopEngine struct{}

func (NopEngine) PhysicsModified(context.Context) {}
func (NopEngine) ReinitializeGeometry(context.Context) {}
