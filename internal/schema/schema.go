// Package schema holds the gohcl decoding structs for detector
// configuration files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Detector Parameters ---

// Detector represents a `detector` block. Its attributes are parameter
// overrides and are read with JustAttributes, so any parameter name may
// appear.
type Detector struct {
	Body hcl.Body `hcl:",remain"`
}

// --- Material Definitions ---

// Isotope represents an `isotope` block.
type Isotope struct {
	Name      string  `hcl:"name,label"`
	Z         int     `hcl:"z"`
	N         int     `hcl:"n"`
	MolarMass float64 `hcl:"molar_mass,optional"`
}

// IsotopeRef is an `isotope` block nested in an element, naming a declared
// isotope and its relative abundance.
type IsotopeRef struct {
	Name      string  `hcl:"name,label"`
	Abundance float64 `hcl:"abundance"`
}

// Element represents an `element` block. Either z and molar_mass or nested
// isotope blocks are given.
type Element struct {
	Name      string        `hcl:"name,label"`
	Symbol    string        `hcl:"symbol"`
	Z         float64       `hcl:"z,optional"`
	MolarMass float64       `hcl:"molar_mass,optional"`
	Isotopes  []*IsotopeRef `hcl:"isotope,block"`
}

// Component is one `component` block of a material. Exactly one of element
// and material, and exactly one of fraction and atoms.
type Component struct {
	Element  string  `hcl:"element,optional"`
	Material string  `hcl:"material,optional"`
	Fraction float64 `hcl:"fraction,optional"`
	Atoms    int     `hcl:"atoms,optional"`
}

// Dilute is a `dilute` block: a dopant at a mass fraction inside a base
// material.
type Dilute struct {
	Element  string  `hcl:"element,optional"`
	Material string  `hcl:"material,optional"`
	Fraction float64 `hcl:"fraction"`
	Base     string  `hcl:"base"`
}

// SingleIsotope is a `single_isotope` block.
type SingleIsotope struct {
	Symbol string `hcl:"symbol"`
	Z      int    `hcl:"z"`
	A      int    `hcl:"a"`
}

// Material represents a `material` block.
type Material struct {
	Name                 string         `hcl:"name,label"`
	Density              float64        `hcl:"density"`
	State                string         `hcl:"state,optional"`
	Temperature          float64        `hcl:"temperature,optional"`
	Pressure             float64        `hcl:"pressure,optional"`
	MeanExcitationEnergy float64        `hcl:"mean_excitation_energy,optional"`
	Z                    float64        `hcl:"z,optional"`
	MolarMass            float64        `hcl:"molar_mass,optional"`
	Components           []*Component   `hcl:"component,block"`
	Dilute               *Dilute        `hcl:"dilute,block"`
	SingleIsotope        *SingleIsotope `hcl:"single_isotope,block"`
}

// File represents the top-level structure of a detector configuration
// file.
type File struct {
	Detectors []*Detector `hcl:"detector,block"`
	Isotopes  []*Isotope  `hcl:"isotope,block"`
	Elements  []*Element  `hcl:"element,block"`
	Materials []*Material `hcl:"material,block"`
}
