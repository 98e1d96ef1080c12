package material

// IsotopeSpec declares an isotope. A zero MolarMass is filled from the
// built-in isotope mass table, or N g/mole for nuclides missing from it.
type IsotopeSpec struct {
	Name      string
	Z         int
	N         int
	MolarMass float64
}

// Abundance references a catalog isotope by name with its relative
// abundance.
type Abundance struct {
	Isotope  string
	Fraction float64
}

// ElementSpec declares an element either by Z and MolarMass or by a list of
// isotopes whose abundances sum to one.
type ElementSpec struct {
	Name      string
	Symbol    string
	Z         float64
	MolarMass float64
	Isotopes  []Abundance
}

// ComponentSpec is one entry of a composition. Exactly one of Element and
// Material is set, and exactly one of Fraction and Atoms.
type ComponentSpec struct {
	Element  string
	Material string
	Fraction float64
	Atoms    int
}

// DiluteSpec embeds a dopant (element or material) at a mass fraction into a
// base material, which makes up the remainder.
type DiluteSpec struct {
	Element  string
	Material string
	Fraction float64
	Base     string
}

// SingleIsotopeSpec builds a material out of a single isotope.
type SingleIsotopeSpec struct {
	Symbol string
	Z      int
	A      int
}

// MaterialSpec declares a material. Exactly one composition form is used:
// Components, Dilute, SingleIsotope, or the Z/MolarMass shorthand for a
// material made of one ad-hoc element. Zero Temperature and Pressure take
// the normal defaults.
type MaterialSpec struct {
	Name                 string
	Density              float64
	State                State
	Temperature          float64
	Pressure             float64
	MeanExcitationEnergy float64

	Components    []ComponentSpec
	Dilute        *DiluteSpec
	SingleIsotope *SingleIsotopeSpec
	Z             float64
	MolarMass     float64
}

// Definitions groups the entries registered by one Define pass. Isotopes
// are registered first, then elements, then materials, each in order.
type Definitions struct {
	Isotopes  []IsotopeSpec
	Elements  []ElementSpec
	Materials []MaterialSpec
}

// Empty reports whether the set declares nothing.
func (d Definitions) Empty() bool {
	return len(d.Isotopes) == 0 && len(d.Elements) == 0 && len(d.Materials) == 0
}
