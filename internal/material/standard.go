package material

import "github.com/specialistvlad/detgeo/internal/units"

// Standard returns the materials of the LAr target setup: thermal-scattering
// water and graphite, heavy water, air, vacuum, steel, fluoride crystals,
// isotope-pure iron and lithium, and lithium-loaded polyethylene.
func Standard() Definitions {
	return Definitions{
		Isotopes: []IsotopeSpec{
			{Name: "H2", Z: 1, N: 2},
			{Name: "C12", Z: 6, N: 12},
			{Name: "iso_Fe", Z: 26, N: 56, MolarMass: 55.9349363 * units.GramPerMole},
			{Name: "iso_Li", Z: 3, N: 6, MolarMass: 6.015122795 * units.GramPerMole},
		},
		Elements: []ElementSpec{
			// Element names recognised by thermal neutron scattering data.
			{Name: "TS_H_of_Water", Symbol: "H", Z: 1, MolarMass: 1.0079 * units.GramPerMole},
			{Name: "Oxygen", Symbol: "O", Z: 8, MolarMass: 16.00 * units.GramPerMole},
			{Name: "TS_D_of_Heavy_Water", Symbol: "D", Isotopes: []Abundance{{Isotope: "H2", Fraction: 1}}},
			{Name: "Nitrogen", Symbol: "N", Z: 7, MolarMass: 14.01 * units.GramPerMole},
			{Name: "TS_C_of_Graphite", Symbol: "C", Isotopes: []Abundance{{Isotope: "C12", Fraction: 1}}},
			{Name: "ele_Fe", Symbol: "Fe", Isotopes: []Abundance{{Isotope: "iso_Fe", Fraction: 1}}},
			{Name: "ele_Li", Symbol: "Li", Isotopes: []Abundance{{Isotope: "iso_Li", Fraction: 1}}},
		},
		Materials: []MaterialSpec{
			{
				Name: "Water_ts", Density: 1.000 * units.GramPerCm3, State: StateLiquid,
				Temperature: 593 * units.Kelvin, Pressure: 150 * units.Bar,
				MeanExcitationEnergy: 78.0 * units.ElectronVolt,
				Components: []ComponentSpec{
					{Element: "TS_H_of_Water", Atoms: 2},
					{Element: "Oxygen", Atoms: 1},
				},
			},
			{
				Name: "HeavyWater", Density: 1.11 * units.GramPerCm3, State: StateLiquid,
				Temperature: 293.15 * units.Kelvin, Pressure: 1 * units.Atmosphere,
				Components: []ComponentSpec{
					{Element: "TS_D_of_Heavy_Water", Atoms: 2},
					{Element: "Oxygen", Atoms: 1},
				},
			},
			{
				Name: "Air", Density: 1.205 * units.MilligramPerCm3, State: StateGas,
				Temperature: 293 * units.Kelvin, Pressure: 1 * units.Atmosphere,
				Components: []ComponentSpec{
					{Element: "Nitrogen", Fraction: 0.7},
					{Element: "Oxygen", Fraction: 0.3},
				},
			},
			{
				Name: "interGalactic", Density: 1e-25 * units.GramPerCm3, State: StateGas,
				Temperature: 2.73 * units.Kelvin, Pressure: 3e-18 * units.Pascal,
				Z: 1, MolarMass: 1.008 * units.GramPerMole,
			},
			{
				Name: "graphite", Density: 2.27 * units.GramPerCm3, State: StateSolid,
				Temperature: 293 * units.Kelvin, Pressure: 1 * units.Atmosphere,
				Components: []ComponentSpec{{Element: "TS_C_of_Graphite", Atoms: 1}},
			},
			{
				Name: "StainlessSteel", Density: 8.06 * units.GramPerCm3,
				Components: []ComponentSpec{
					{Element: "TS_C_of_Graphite", Fraction: 0.015},
					{Element: "Si", Fraction: 0.008},
					{Element: "Cr", Fraction: 0.18},
					{Element: "Mn", Fraction: 0.01},
					{Element: "Fe", Fraction: 0.697},
					{Element: "Ni", Fraction: 0.09},
				},
			},
			{
				Name: "MgF2", Density: 3.15 * units.GramPerCm3, State: StateSolid,
				Components: []ComponentSpec{{Element: "Mg", Atoms: 1}, {Element: "F", Atoms: 2}},
			},
			{
				Name: "TiF3", Density: 3.4 * units.GramPerCm3, State: StateSolid,
				Components: []ComponentSpec{{Element: "Ti", Atoms: 1}, {Element: "F", Atoms: 3}},
			},
			{
				Name: "mat_Fe", Density: 7.874 * units.GramPerCm3,
				Components: []ComponentSpec{{Element: "ele_Fe", Fraction: 1}},
			},
			{
				Name: "mat_Li", Density: 0.534 * units.GramPerCm3,
				Components: []ComponentSpec{{Element: "ele_Li", Fraction: 1}},
			},
			{
				Name: "LiPoly", Density: 1.06 * units.GramPerCm3,
				Dilute: &DiluteSpec{Element: "Li", Fraction: 7.54 * units.Percent, Base: "G4_POLYETHYLENE"},
			},
		},
	}
}
