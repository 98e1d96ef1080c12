// Package units defines the engine-native unit system used by every length,
// density and molar mass in the module, and the helpers that format and
// parse quantities expressed in it.
//
// The base units are the millimetre, the gram, the mole, the kelvin, the
// pascal and the electronvolt. A quantity is a plain float64 already
// multiplied by its unit, e.g. `150 * units.Centimeter`.
package units

import (
	"fmt"
	"math"
)

// Length.
const (
	Nanometer  = 1e-6
	Micrometer = 1e-3
	Millimeter = 1.0
	Centimeter = 10 * Millimeter
	Meter      = 1000 * Millimeter
	Kilometer  = 1000 * Meter

	Cm3 = Centimeter * Centimeter * Centimeter
	M3  = Meter * Meter * Meter
)

// Mass and amount of substance.
const (
	Gram      = 1.0
	Milligram = 1e-3 * Gram
	Kilogram  = 1e3 * Gram
	Mole      = 1.0

	GramPerMole     = Gram / Mole
	GramPerCm3      = Gram / Cm3
	MilligramPerCm3 = Milligram / Cm3
	KilogramPerM3   = Kilogram / M3
)

// Thermodynamics and energy.
const (
	Kelvin     = 1.0
	Pascal     = 1.0
	Bar        = 1e5 * Pascal
	Atmosphere = 101325 * Pascal

	ElectronVolt     = 1.0
	KiloElectronVolt = 1e3 * ElectronVolt
)

// Dimensionless.
const (
	Percent = 0.01
	Radian  = 1.0
	Degree  = math.Pi / 180 * Radian
	TwoPi   = 2 * math.Pi
)

// Defaults applied to materials that do not state their conditions.
const (
	NormalTemperature = 293.15 * Kelvin
	StandardPressure  = 1 * Atmosphere

	// GasThreshold is the density below which a material of undefined
	// state is considered a gas.
	GasThreshold = 10 * MilligramPerCm3
)

type unit struct {
	symbol string
	value  float64
}

var lengthUnits = []unit{
	{"km", Kilometer},
	{"m", Meter},
	{"cm", Centimeter},
	{"mm", Millimeter},
	{"um", Micrometer},
	{"nm", Nanometer},
}

// BestLength formats a length with the largest unit that keeps the
// magnitude at or above one.
func BestLength(v float64) string {
	if v == 0 {
		return "0 mm"
	}
	abs := math.Abs(v)
	for _, u := range lengthUnits {
		if abs >= u.value {
			return fmt.Sprintf("%g %s", v/u.value, u.symbol)
		}
	}
	last := lengthUnits[len(lengthUnits)-1]
	return fmt.Sprintf("%g %s", v/last.value, last.symbol)
}

// InGramPerCm3 converts a density to g/cm3 for display.
func InGramPerCm3(density float64) float64 {
	return density / GramPerCm3
}
