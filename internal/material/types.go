package material

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/detgeo/internal/units"
)

// State is the physical state of a material.
type State int

const (
	StateUndefined State = iota
	StateSolid
	StateLiquid
	StateGas
)

func (s State) String() string {
	switch s {
	case StateSolid:
		return "solid"
	case StateLiquid:
		return "liquid"
	case StateGas:
		return "gas"
	default:
		return "undefined"
	}
}

// ParseState converts a configuration string into a State. The empty string
// is StateUndefined.
func ParseState(s string) (State, error) {
	switch strings.ToLower(s) {
	case "", "undefined":
		return StateUndefined, nil
	case "solid":
		return StateSolid, nil
	case "liquid":
		return StateLiquid, nil
	case "gas":
		return StateGas, nil
	}
	return StateUndefined, fmt.Errorf("%w: unknown state %q", ErrInvalidMaterial, s)
}

// resolveState applies the density rule to materials of undefined state.
func resolveState(s State, density float64) State {
	if s != StateUndefined {
		return s
	}
	if density < units.GasThreshold {
		return StateGas
	}
	return StateSolid
}

// Isotope is a nuclide with an optional molar mass override.
type Isotope struct {
	Name      string
	Z         int
	N         int
	MolarMass float64
}

// IsotopeFraction is one isotope of an element with its relative abundance
// by number of atoms.
type IsotopeFraction struct {
	Isotope   *Isotope
	Abundance float64
}

// Element is a chemical element, either a natural mixture given by Z and
// molar mass, or built from isotopes.
type Element struct {
	Name      string
	Symbol    string
	Z         float64
	MolarMass float64

	isotopes []IsotopeFraction
}

// Isotopes returns a copy of the isotope composition, nil for elements
// defined by Z and molar mass.
func (e *Element) Isotopes() []IsotopeFraction {
	if len(e.isotopes) == 0 {
		return nil
	}
	out := make([]IsotopeFraction, len(e.isotopes))
	copy(out, e.isotopes)
	return out
}

// Component is one entry of a material composition as it was declared, with
// its proportion resolved to a mass fraction.
type Component struct {
	Element      *Element
	Material     *Material
	MassFraction float64
	// Atoms is the declared atom count, zero when the component was given
	// as a mass fraction.
	Atoms int
}

// Name returns the name of the element or material the component refers to.
func (c Component) Name() string {
	if c.Element != nil {
		return c.Element.Name
	}
	return c.Material.Name
}

// ElementFraction is one element of a resolved composition.
type ElementFraction struct {
	Element      *Element
	MassFraction float64
}

// Material is an immutable, named substance.
type Material struct {
	Name                 string
	Density              float64
	State                State
	Temperature          float64
	Pressure             float64
	MeanExcitationEnergy float64

	components []Component
	elements   []ElementFraction
}

// Components returns a copy of the declared composition.
func (m *Material) Components() []Component {
	out := make([]Component, len(m.components))
	copy(out, m.components)
	return out
}

// Elements returns a copy of the resolved per-element mass fractions.
func (m *Material) Elements() []ElementFraction {
	out := make([]ElementFraction, len(m.elements))
	copy(out, m.elements)
	return out
}

// MassFractionSum returns the sum of the resolved element mass fractions.
func (m *Material) MassFractionSum() float64 {
	sum := 0.0
	for _, ef := range m.elements {
		sum += ef.MassFraction
	}
	return sum
}

// AtomFractions returns the relative number of atoms of each resolved
// element, in the order of Elements.
func (m *Material) AtomFractions() []float64 {
	out := make([]float64, len(m.elements))
	total := 0.0
	for i, ef := range m.elements {
		out[i] = ef.MassFraction / ef.Element.MolarMass
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}
