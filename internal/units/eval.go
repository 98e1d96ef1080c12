package units

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// variables are the unit names visible inside configuration expressions,
// so that `radius = 2 * cm` evaluates to an engine-native length.
var variables = map[string]float64{
	"nm":         Nanometer,
	"um":         Micrometer,
	"mm":         Millimeter,
	"cm":         Centimeter,
	"m":          Meter,
	"km":         Kilometer,
	"g":          Gram,
	"mg":         Milligram,
	"kg":         Kilogram,
	"mole":       Mole,
	"g_per_mole": GramPerMole,
	"g_per_cm3":  GramPerCm3,
	"mg_per_cm3": MilligramPerCm3,
	"kg_per_m3":  KilogramPerM3,
	"kelvin":     Kelvin,
	"pascal":     Pascal,
	"bar":        Bar,
	"atmosphere": Atmosphere,
	"eV":         ElectronVolt,
	"keV":        KiloElectronVolt,
	"percent":    Percent,
	"deg":        Degree,
	"rad":        Radian,
	"twopi":      TwoPi,
}

// EvalContext returns an HCL evaluation context exposing every unit as a
// number variable.
func EvalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(variables))
	for name, v := range variables {
		vars[name] = cty.NumberFloatVal(v)
	}
	return &hcl.EvalContext{Variables: vars}
}

// ParseQuantity evaluates a unit expression such as "25*m" or "1.06 *
// g_per_cm3" and returns the engine-native value.
func ParseQuantity(expr string) (float64, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(expr), "quantity", hcl.InitialPos)
	if diags.HasErrors() {
		return 0, fmt.Errorf("invalid quantity %q: %w", expr, diags)
	}
	val, diags := parsed.Value(EvalContext())
	if diags.HasErrors() {
		return 0, fmt.Errorf("cannot evaluate quantity %q: %w", expr, diags)
	}
	return ToFloat(val)
}

// ToFloat converts a known, non-null cty number into a float64.
func ToFloat(v cty.Value) (float64, error) {
	if v.IsNull() || !v.IsKnown() {
		return 0, fmt.Errorf("quantity must be a known, non-null number")
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, fmt.Errorf("quantity is not a number: %w", err)
	}
	return f, nil
}
