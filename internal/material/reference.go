package material

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/detgeo/internal/units"
)

// ReferenceElement is a natural element of the reference database.
type ReferenceElement struct {
	Symbol    string
	Z         int
	MolarMass float64
}

// ReferenceMaterial is a well-known substance of the reference database.
// Components name reference element symbols.
type ReferenceMaterial struct {
	Name                 string
	Density              float64
	State                State
	Temperature          float64
	Pressure             float64
	MeanExcitationEnergy float64
	Components           []ComponentSpec
}

func (r ReferenceMaterial) spec() MaterialSpec {
	comps := make([]ComponentSpec, len(r.Components))
	copy(comps, r.Components)
	return MaterialSpec{
		Name:                 r.Name,
		Density:              r.Density,
		State:                r.State,
		Temperature:          r.Temperature,
		Pressure:             r.Pressure,
		MeanExcitationEnergy: r.MeanExcitationEnergy,
		Components:           comps,
	}
}

var referenceElements = map[string]ReferenceElement{}

func init() {
	for _, e := range []ReferenceElement{
		{"H", 1, 1.00794}, {"He", 2, 4.002602}, {"Li", 3, 6.941}, {"Be", 4, 9.012182},
		{"B", 5, 10.811}, {"C", 6, 12.0107}, {"N", 7, 14.0067}, {"O", 8, 15.9994},
		{"F", 9, 18.9984032}, {"Ne", 10, 20.1797}, {"Na", 11, 22.98977}, {"Mg", 12, 24.305},
		{"Al", 13, 26.981538}, {"Si", 14, 28.0855}, {"P", 15, 30.973761}, {"S", 16, 32.065},
		{"Cl", 17, 35.453}, {"Ar", 18, 39.948}, {"K", 19, 39.0983}, {"Ca", 20, 40.078},
		{"Ti", 22, 47.867}, {"Cr", 24, 51.9961}, {"Mn", 25, 54.938049}, {"Fe", 26, 55.845},
		{"Co", 27, 58.9332}, {"Ni", 28, 58.6934}, {"Cu", 29, 63.546}, {"Zn", 30, 65.409},
		{"Kr", 36, 83.798}, {"Ag", 47, 107.8682}, {"Cd", 48, 112.411}, {"Sn", 50, 118.71},
		{"Sb", 51, 121.76}, {"I", 53, 126.90447}, {"Xe", 54, 131.293}, {"Cs", 55, 132.90545},
		{"Ba", 56, 137.327}, {"Gd", 64, 157.25}, {"W", 74, 183.84}, {"Pb", 82, 207.2},
		{"Bi", 83, 208.98038}, {"U", 92, 238.02891},
	} {
		e.MolarMass *= units.GramPerMole
		referenceElements[e.Symbol] = e
	}
}

// isotopeMasses holds molar masses in g/mole keyed by Z*1000+N.
var isotopeMasses = map[int]float64{
	1001:  1.00782503,
	1002:  2.01410178,
	1003:  3.01604928,
	2003:  3.01602932,
	2004:  4.00260325,
	3006:  6.015122795,
	3007:  7.01600344,
	5010:  10.0129370,
	5011:  11.0093054,
	6012:  12.0,
	6013:  13.0033548,
	7014:  14.0030740,
	8016:  15.9949146,
	26056: 55.9349363,
	64157: 156.9239601,
	92235: 235.0439299,
	92238: 238.0507882,
}

func isotopeMass(z, n int) float64 {
	if m, ok := isotopeMasses[z*1000+n]; ok {
		return m * units.GramPerMole
	}
	return float64(n) * units.GramPerMole
}

func atoms(symbols ...any) []ComponentSpec {
	out := make([]ComponentSpec, 0, len(symbols)/2)
	for i := 0; i+1 < len(symbols); i += 2 {
		out = append(out, ComponentSpec{Element: symbols[i].(string), Atoms: symbols[i+1].(int)})
	}
	return out
}

func fractions(symbols ...any) []ComponentSpec {
	out := make([]ComponentSpec, 0, len(symbols)/2)
	for i := 0; i+1 < len(symbols); i += 2 {
		out = append(out, ComponentSpec{Element: symbols[i].(string), Fraction: symbols[i+1].(float64)})
	}
	return out
}

var referenceMaterials = map[string]ReferenceMaterial{}

func init() {
	for _, r := range []ReferenceMaterial{
		{Name: "G4_WATER", Density: 1.0 * units.GramPerCm3, State: StateLiquid, MeanExcitationEnergy: 78 * units.ElectronVolt, Components: atoms("H", 2, "O", 1)},
		{Name: "G4_AIR", Density: 1.20479 * units.MilligramPerCm3, State: StateGas, MeanExcitationEnergy: 85.7 * units.ElectronVolt, Components: fractions("C", 0.000124, "N", 0.755268, "O", 0.231781, "Ar", 0.012827)},
		{Name: "G4_Galactic", Density: 1e-25 * units.GramPerCm3, State: StateGas, Temperature: 2.73 * units.Kelvin, Pressure: 3e-18 * units.Pascal, MeanExcitationEnergy: 21.8 * units.ElectronVolt, Components: atoms("H", 1)},
		{Name: "G4_He", Density: 0.000166322 * units.GramPerCm3, State: StateGas, MeanExcitationEnergy: 41.8 * units.ElectronVolt, Components: atoms("He", 1)},
		{Name: "G4_Ar", Density: 0.00166201 * units.GramPerCm3, State: StateGas, MeanExcitationEnergy: 188 * units.ElectronVolt, Components: atoms("Ar", 1)},
		{Name: "G4_lH2", Density: 0.0708 * units.GramPerCm3, State: StateLiquid, Temperature: 20.28 * units.Kelvin, MeanExcitationEnergy: 21.8 * units.ElectronVolt, Components: atoms("H", 1)},
		{Name: "G4_lN2", Density: 0.807 * units.GramPerCm3, State: StateLiquid, Temperature: 77 * units.Kelvin, MeanExcitationEnergy: 82 * units.ElectronVolt, Components: atoms("N", 1)},
		{Name: "G4_lAr", Density: 1.396 * units.GramPerCm3, State: StateLiquid, Temperature: 87 * units.Kelvin, MeanExcitationEnergy: 188 * units.ElectronVolt, Components: atoms("Ar", 1)},
		{Name: "G4_lKr", Density: 2.418 * units.GramPerCm3, State: StateLiquid, Temperature: 120 * units.Kelvin, MeanExcitationEnergy: 352 * units.ElectronVolt, Components: atoms("Kr", 1)},
		{Name: "G4_lXe", Density: 2.953 * units.GramPerCm3, State: StateLiquid, Temperature: 165 * units.Kelvin, MeanExcitationEnergy: 482 * units.ElectronVolt, Components: atoms("Xe", 1)},
		{Name: "G4_POLYETHYLENE", Density: 0.94 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 57.4 * units.ElectronVolt, Components: atoms("C", 2, "H", 4)},
		{Name: "G4_POLYSTYRENE", Density: 1.06 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 68.7 * units.ElectronVolt, Components: atoms("C", 8, "H", 8)},
		{Name: "G4_PLEXIGLASS", Density: 1.19 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 74 * units.ElectronVolt, Components: atoms("H", 8, "C", 5, "O", 2)},
		{Name: "G4_KAPTON", Density: 1.42 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 79.6 * units.ElectronVolt, Components: atoms("H", 10, "C", 22, "N", 2, "O", 5)},
		{Name: "G4_STAINLESS-STEEL", Density: 8.0 * units.GramPerCm3, State: StateSolid, Components: atoms("Fe", 74, "Cr", 18, "Ni", 8)},
		{Name: "G4_Al", Density: 2.699 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 166 * units.ElectronVolt, Components: atoms("Al", 1)},
		{Name: "G4_Si", Density: 2.33 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 173 * units.ElectronVolt, Components: atoms("Si", 1)},
		{Name: "G4_Fe", Density: 7.874 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 286 * units.ElectronVolt, Components: atoms("Fe", 1)},
		{Name: "G4_Cu", Density: 8.96 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 322 * units.ElectronVolt, Components: atoms("Cu", 1)},
		{Name: "G4_Pb", Density: 11.35 * units.GramPerCm3, State: StateSolid, MeanExcitationEnergy: 823 * units.ElectronVolt, Components: atoms("Pb", 1)},
	} {
		referenceMaterials[r.Name] = r
	}
}

// LookupElement returns the reference element with the given symbol.
func LookupElement(symbol string) (ReferenceElement, error) {
	e, ok := referenceElements[symbol]
	if !ok {
		return ReferenceElement{}, fmt.Errorf("%w: no reference element %q", ErrElementNotFound, symbol)
	}
	return e, nil
}

// LookupReference returns the reference material with the given canonical
// name, e.g. "G4_WATER".
func LookupReference(name string) (ReferenceMaterial, error) {
	r, ok := referenceMaterials[name]
	if !ok {
		return ReferenceMaterial{}, fmt.Errorf("%w: %q", ErrMaterialNotFound, name)
	}
	r.Components = append([]ComponentSpec(nil), r.Components...)
	return r, nil
}

// ReferenceNames lists the reference material names in sorted order.
func ReferenceNames() []string {
	names := make([]string, 0, len(referenceMaterials))
	for name := range referenceMaterials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
