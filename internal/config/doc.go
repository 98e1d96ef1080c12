// Package config defines the format-agnostic configuration model for the
// detector, along with the Loader interface for reading it from files.
//
// The `config.Model` carries flat parameter overrides for the detector model
// and extra material definitions for the catalog. Concrete loaders, such as
// the HCL one, live in separate packages.
package config
