/*
Package builder constructs the detector's volume tree inside a geometry
store. It acts as the bridge between the flat parameter set owned by the
detector model and the solid, logical and placed volume registries consumed
by the simulation engine.

Construction is a multi-phase process:

 1. Validation: every length and radius must be positive, each shell must
    fit inside the one that encloses it, and every volume must fit inside
    the world. All material names are resolved through the catalog. Nothing
    is written to the store until these checks pass.

 2. Solid Creation: the world box, the four nested shell tubes, the
    collimator body, bore and their subtraction, and the end-cap detector
    tube are created and registered.

 3. Placement: the world is placed as the root. Each shell is placed at the
    local origin of the shell enclosing it, the first one inside the world.
    The collimator and the detector are placed in the world along the beam
    axis, with the collimator bore's lower face flush with the detector's
    lower face.

On success Build returns a *Tree holding the root placement and the logical
volume of every role. If a store write fails part way through, the store is
left as it is and the caller is expected to Clean it.
*/
package builder
