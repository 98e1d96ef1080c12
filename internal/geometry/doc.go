// Package geometry holds the unpositioned shapes (solids) and the volume
// records that the geometry store arranges into a tree.
//
// Solids are immutable once constructed and every constructor rejects
// non-positive lengths and radii with ErrInvalidDimension. Logical and
// placed volumes refer to each other through store handles rather than
// pointers, so a store reset drops the whole tree at once.
package geometry
