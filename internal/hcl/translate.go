package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/specialistvlad/detgeo/internal/schema"
	"github.com/specialistvlad/detgeo/internal/units"
	"github.com/zclconf/go-cty/cty"
)

// translateDetector evaluates every attribute of a detector block. Numbers
// become float64 and strings stay strings.
func (l *Loader) translateDetector(ctx context.Context, d *schema.Detector, evalCtx *hcl.EvalContext) (map[string]any, error) {
	attrs, diags := d.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		switch {
		case val.IsNull():
			return nil, fmt.Errorf("%s: detector.%s must not be null", attr.Range, name)
		case val.Type() == cty.String:
			out[name] = val.AsString()
		case val.Type() == cty.Number:
			f, err := units.ToFloat(val)
			if err != nil {
				return nil, fmt.Errorf("%s: detector.%s: %w", attr.Range, name, err)
			}
			out[name] = f
		default:
			return nil, fmt.Errorf("%s: detector.%s must be a number or a string, got %s", attr.Range, name, val.Type().FriendlyName())
		}
		ctxlog.FromContext(ctx).Debug("Detector parameter read.", "name", name, "value", out[name])
	}
	return out, nil
}

// translateDefinitions converts isotope, element and material blocks into
// catalog specs, keeping file order.
func (l *Loader) translateDefinitions(root *schema.File) (material.Definitions, error) {
	var defs material.Definitions
	for _, iso := range root.Isotopes {
		defs.Isotopes = append(defs.Isotopes, material.IsotopeSpec{
			Name:      iso.Name,
			Z:         iso.Z,
			N:         iso.N,
			MolarMass: iso.MolarMass,
		})
	}

	for _, el := range root.Elements {
		spec := material.ElementSpec{
			Name:      el.Name,
			Symbol:    el.Symbol,
			Z:         el.Z,
			MolarMass: el.MolarMass,
		}
		for _, ref := range el.Isotopes {
			spec.Isotopes = append(spec.Isotopes, material.Abundance{Isotope: ref.Name, Fraction: ref.Abundance})
		}
		defs.Elements = append(defs.Elements, spec)
	}

	for _, m := range root.Materials {
		spec, err := translateMaterial(m)
		if err != nil {
			return material.Definitions{}, err
		}
		defs.Materials = append(defs.Materials, spec)
	}
	return defs, nil
}

func translateMaterial(m *schema.Material) (material.MaterialSpec, error) {
	spec := material.MaterialSpec{
		Name:                 m.Name,
		Density:              m.Density,
		Temperature:          m.Temperature,
		Pressure:             m.Pressure,
		MeanExcitationEnergy: m.MeanExcitationEnergy,
		Z:                    m.Z,
		MolarMass:            m.MolarMass,
	}
	if m.State != "" {
		state, err := material.ParseState(m.State)
		if err != nil {
			return material.MaterialSpec{}, fmt.Errorf("material %q: %w", m.Name, err)
		}
		spec.State = state
	}
	for _, c := range m.Components {
		spec.Components = append(spec.Components, material.ComponentSpec{
			Element:  c.Element,
			Material: c.Material,
			Fraction: c.Fraction,
			Atoms:    c.Atoms,
		})
	}
	if d := m.Dilute; d != nil {
		spec.Dilute = &material.DiluteSpec{Element: d.Element, Material: d.Material, Fraction: d.Fraction, Base: d.Base}
	}
	if s := m.SingleIsotope; s != nil {
		spec.SingleIsotope = &material.SingleIsotopeSpec{Symbol: s.Symbol, Z: s.Z, A: s.A}
	}
	return spec, nil
}
