/*
Package detector owns the detector parameters and drives the construction
protocol.

A Model starts UNBUILT. Construct cleans the geometry store, defines the
material catalog on first use and builds the volume tree; on success the
model is BUILT. Mutators come in two kinds:

  - SetWorldMaterial takes effect immediately by retargeting the world's
    logical volume, and tells the engine that physics tables are stale.
  - SetWorldAxialSize and Apply only stage new parameter values. They mark a
    rebuild as pending and ask the engine to reinitialise geometry, which it
    does by calling Construct again.

Engine callbacks run after the model's lock is released, so an Engine may
call back into the model.
*/
package detector
