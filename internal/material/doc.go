// Package material implements the material catalog: the registry of named
// isotopes, elements and materials that logical volumes refer to.
//
// # Lifecycle
//
// A Catalog is an explicit, process-scoped object. It is created empty, filled
// once by Define with one or more Definitions sets (usually Standard plus the
// definitions read from configuration), and afterwards only grows through
// FindOrBuild, which materialises entries of the built-in reference database
// on first use. Entries are never removed or replaced: every name is unique
// per kind, and a second definition under a used name is ErrDuplicateName.
//
// # Storage
//
// Entries live in flat, append-only arenas with name indexes. A failed Define
// or Add call truncates the arenas back to their length before the call, so
// a catalog never holds a half-defined material.
//
// # Compositions
//
// A material is built from an ordered list of components, each an element or
// another material, given either as mass fractions or as atom counts. The
// catalog resolves the list into per-element mass fractions that sum to one
// and freezes it; Material exposes copies only.
//
// # Reference database
//
// LookupReference and LookupElement are pure functions over a fixed table of
// well-known substances and elements. The catalog overlays its own entries on
// top: a registered name always wins over the reference entry of the same
// name.
package material
