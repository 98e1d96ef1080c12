package material

import (
	"fmt"
	"io"

	"github.com/specialistvlad/detgeo/internal/units"
)

// WriteMaterial prints one material with its resolved element composition.
func WriteMaterial(w io.Writer, m *Material) error {
	imean := "n/a"
	if m.MeanExcitationEnergy > 0 {
		imean = fmt.Sprintf("%.3f eV", m.MeanExcitationEnergy/units.ElectronVolt)
	}
	if _, err := fmt.Fprintf(w, " Material: %-16s density: %s  state: %-7s T: %.2f K  P: %.4g atm  I: %s\n",
		m.Name, formatDensity(m.Density), m.State, m.Temperature/units.Kelvin, m.Pressure/units.Atmosphere, imean); err != nil {
		return err
	}
	atomFractions := m.AtomFractions()
	for i, ef := range m.elements {
		el := ef.Element
		if _, err := fmt.Fprintf(w, "   ---> Element: %s (%s)   Z = %5.1f   A = %8.4f g/mole   ElmMassFraction: %6.2f %%  ElmAbundance %6.2f %%\n",
			el.Name, el.Symbol, el.Z, el.MolarMass/units.GramPerMole, ef.MassFraction*100, atomFractions[i]*100); err != nil {
			return err
		}
		for _, iso := range el.isotopes {
			if _, err := fmt.Fprintf(w, "         ---> Isotope: %-8s Z = %2d   N = %3d   A = %8.4f g/mole   abundance: %6.2f %%\n",
				iso.Isotope.Name, iso.Isotope.Z, iso.Isotope.N, iso.Isotope.MolarMass/units.GramPerMole, iso.Abundance*100); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTable prints every registered material in registration order.
func (c *Catalog) WriteTable(w io.Writer) error {
	mats := c.Materials()
	if _, err := fmt.Fprintf(w, "***** Table : Nb of materials = %d *****\n", len(mats)); err != nil {
		return err
	}
	for _, m := range mats {
		if err := WriteMaterial(w, m); err != nil {
			return err
		}
	}
	return nil
}

func formatDensity(d float64) string {
	if d < 0.01*units.GramPerCm3 {
		return fmt.Sprintf("%.4g mg/cm3", d/units.MilligramPerCm3)
	}
	return fmt.Sprintf("%.4g g/cm3", units.InGramPerCm3(d))
}

// ElementSnapshot is the serialisable form of one resolved element fraction.
type ElementSnapshot struct {
	Name         string  `yaml:"name"`
	Symbol       string  `yaml:"symbol"`
	Z            float64 `yaml:"z"`
	MolarMass    float64 `yaml:"molar_mass_g_per_mole"`
	MassFraction float64 `yaml:"mass_fraction"`
}

// MaterialSnapshot is the serialisable form of a material.
type MaterialSnapshot struct {
	Name        string            `yaml:"name"`
	Density     float64           `yaml:"density_g_per_cm3"`
	State       string            `yaml:"state"`
	Temperature float64           `yaml:"temperature_kelvin"`
	Pressure    float64           `yaml:"pressure_pascal"`
	Elements    []ElementSnapshot `yaml:"elements"`
}

// Snapshot describes a material in display units.
func (m *Material) Snapshot() MaterialSnapshot {
	s := MaterialSnapshot{
		Name:        m.Name,
		Density:     units.InGramPerCm3(m.Density),
		State:       m.State.String(),
		Temperature: m.Temperature / units.Kelvin,
		Pressure:    m.Pressure / units.Pascal,
	}
	for _, ef := range m.elements {
		s.Elements = append(s.Elements, ElementSnapshot{
			Name:         ef.Element.Name,
			Symbol:       ef.Element.Symbol,
			Z:            ef.Element.Z,
			MolarMass:    ef.Element.MolarMass / units.GramPerMole,
			MassFraction: ef.MassFraction,
		})
	}
	return s
}

// Snapshot describes every registered material.
func (c *Catalog) Snapshot() []MaterialSnapshot {
	mats := c.Materials()
	out := make([]MaterialSnapshot, 0, len(mats))
	for _, m := range mats {
		out = append(out, m.Snapshot())
	}
	return out
}
