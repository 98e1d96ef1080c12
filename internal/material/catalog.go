package material

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/specialistvlad/detgeo/internal/ctxlog"
	"github.com/specialistvlad/detgeo/internal/units"
)

// fractionTolerance is how far declared mass fractions or abundances may
// deviate from summing to one before the definition is rejected.
const fractionTolerance = 1e-6

// Catalog is the registry of isotopes, elements and materials.
//
// User definitions and the reference database share one namespace. Entries
// built from the reference database are cached apart from user definitions,
// and a user definition of the same name shadows the cached entry.
type Catalog struct {
	mu      sync.RWMutex
	defined bool

	isotopes  []*Isotope
	elements  []*Element
	materials []*Material

	isotopeIdx  map[string]int
	elementIdx  map[string]int
	materialIdx map[string]int

	refElements    []*Element
	refMaterials   []*Material
	refElementIdx  map[string]int
	refMaterialIdx map[string]int

	// pending holds the material definitions of a running Define call that
	// are not registered yet. References to them are resolved on demand.
	pending map[string]MaterialSpec
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		isotopeIdx:     make(map[string]int),
		elementIdx:     make(map[string]int),
		materialIdx:    make(map[string]int),
		refElementIdx:  make(map[string]int),
		refMaterialIdx: make(map[string]int),
	}
}

// arenaMark records the arena lengths so a failed call can be undone.
type arenaMark struct {
	isotopes, elements, materials int
	refElements, refMaterials     int
}

func (c *Catalog) mark() arenaMark {
	return arenaMark{
		isotopes:     len(c.isotopes),
		elements:     len(c.elements),
		materials:    len(c.materials),
		refElements:  len(c.refElements),
		refMaterials: len(c.refMaterials),
	}
}

func (c *Catalog) rollback(m arenaMark) {
	for _, iso := range c.isotopes[m.isotopes:] {
		delete(c.isotopeIdx, iso.Name)
	}
	for _, el := range c.elements[m.elements:] {
		delete(c.elementIdx, el.Name)
	}
	for _, mat := range c.materials[m.materials:] {
		delete(c.materialIdx, mat.Name)
	}
	for _, el := range c.refElements[m.refElements:] {
		delete(c.refElementIdx, el.Name)
	}
	for _, mat := range c.refMaterials[m.refMaterials:] {
		delete(c.refMaterialIdx, mat.Name)
	}
	c.isotopes = c.isotopes[:m.isotopes]
	c.elements = c.elements[:m.elements]
	c.materials = c.materials[:m.materials]
	c.refElements = c.refElements[:m.refElements]
	c.refMaterials = c.refMaterials[:m.refMaterials]
}

// guarded runs fn under the write lock and undoes its arena writes on error.
func (c *Catalog) guarded(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.mark()
	if err := fn(); err != nil {
		c.rollback(m)
		return err
	}
	return nil
}

// Define registers every set, once per catalog: isotopes of all sets first,
// then elements, then materials. A material may refer to a material of any
// set regardless of order, and a defined name always takes precedence over
// the reference database. Calls after the first successful one are no-ops,
// so entries are never duplicated or recreated. A failing call leaves the
// catalog as it was.
func (c *Catalog) Define(ctx context.Context, sets ...Definitions) error {
	logger := ctxlog.FromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.defined {
		logger.Debug("Material catalog already defined, skipping.")
		return nil
	}

	m := c.mark()
	if err := c.defineLocked(ctx, sets); err != nil {
		c.rollback(m)
		return fmt.Errorf("failed to define materials: %w", err)
	}
	c.defined = true
	logger.Debug("Material catalog defined.", "isotopes", len(c.isotopes), "elements", len(c.elements), "materials", len(c.materials))
	return nil
}

// Defined reports whether Define has completed successfully.
func (c *Catalog) Defined() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defined
}

func (c *Catalog) defineLocked(ctx context.Context, sets []Definitions) error {
	c.pending = make(map[string]MaterialSpec)
	defer func() { c.pending = nil }()

	for _, set := range sets {
		for _, spec := range set.Materials {
			if _, dup := c.pending[spec.Name]; dup {
				return fmt.Errorf("%w: material %q", ErrDuplicateName, spec.Name)
			}
			c.pending[spec.Name] = spec
		}
	}
	for _, set := range sets {
		for _, spec := range set.Isotopes {
			if _, err := c.addIsotopeLocked(ctx, spec); err != nil {
				return err
			}
		}
	}
	for _, set := range sets {
		for _, spec := range set.Elements {
			if _, err := c.addElementLocked(ctx, spec); err != nil {
				return err
			}
		}
	}
	for _, set := range sets {
		for _, spec := range set.Materials {
			if _, waiting := c.pending[spec.Name]; !waiting {
				continue // built on demand by an earlier material
			}
			if _, err := c.addMaterialLocked(ctx, spec); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddIsotope registers a single isotope.
func (c *Catalog) AddIsotope(ctx context.Context, spec IsotopeSpec) (*Isotope, error) {
	var iso *Isotope
	err := c.guarded(func() (err error) {
		iso, err = c.addIsotopeLocked(ctx, spec)
		return err
	})
	return iso, err
}

// AddElement registers a single element.
func (c *Catalog) AddElement(ctx context.Context, spec ElementSpec) (*Element, error) {
	var el *Element
	err := c.guarded(func() (err error) {
		el, err = c.addElementLocked(ctx, spec)
		return err
	})
	return el, err
}

// AddMaterial registers a single material, building any reference element
// or material its composition names.
func (c *Catalog) AddMaterial(ctx context.Context, spec MaterialSpec) (*Material, error) {
	var mat *Material
	err := c.guarded(func() (err error) {
		mat, err = c.addMaterialLocked(ctx, spec)
		return err
	})
	return mat, err
}

// MaterialWithSingleIsotope builds an isotope named after symbol, an element
// and a material both named name, in one step.
func (c *Catalog) MaterialWithSingleIsotope(ctx context.Context, name, symbol string, density float64, z, a int) (*Material, error) {
	return c.AddMaterial(ctx, MaterialSpec{
		Name:          name,
		Density:       density,
		SingleIsotope: &SingleIsotopeSpec{Symbol: symbol, Z: z, A: a},
	})
}

// FindOrBuild resolves a material by name: defined materials first, then
// the reference database, whose entry is built and cached on first use.
func (c *Catalog) FindOrBuild(ctx context.Context, name string) (*Material, error) {
	c.mu.RLock()
	m, ok := c.lookupMaterialLocked(name)
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	var mat *Material
	err := c.guarded(func() (err error) {
		mat, err = c.findOrBuildLocked(ctx, name)
		return err
	})
	return mat, err
}

// FindOrBuildElement resolves an element by name, falling back to the
// reference element with that symbol.
func (c *Catalog) FindOrBuildElement(ctx context.Context, name string) (*Element, error) {
	var el *Element
	err := c.guarded(func() (err error) {
		el, err = c.findOrBuildElementLocked(ctx, name)
		return err
	})
	return el, err
}

// Material returns a defined or already built reference material without
// building anything.
func (c *Catalog) Material(name string) (*Material, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupMaterialLocked(name)
}

// Element returns a defined or already built reference element.
func (c *Catalog) Element(name string) (*Element, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lookupElementLocked(name)
}

// Isotope returns a registered isotope.
func (c *Catalog) Isotope(name string) (*Isotope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.isotopeIdx[name]
	if !ok {
		return nil, false
	}
	return c.isotopes[i], true
}

// Materials returns the defined materials in registration order followed by
// the reference materials built so far that no definition shadows.
func (c *Catalog) Materials() []*Material {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := append([]*Material(nil), c.materials...)
	for _, m := range c.refMaterials {
		if _, shadowed := c.materialIdx[m.Name]; !shadowed {
			out = append(out, m)
		}
	}
	return out
}

// Elements returns the defined elements in registration order followed by
// the unshadowed reference elements built so far.
func (c *Catalog) Elements() []*Element {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := append([]*Element(nil), c.elements...)
	for _, el := range c.refElements {
		if _, shadowed := c.elementIdx[el.Name]; !shadowed {
			out = append(out, el)
		}
	}
	return out
}

// Isotopes returns every registered isotope in registration order.
func (c *Catalog) Isotopes() []*Isotope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Isotope(nil), c.isotopes...)
}

func (c *Catalog) lookupMaterialLocked(name string) (*Material, bool) {
	if i, ok := c.materialIdx[name]; ok {
		return c.materials[i], true
	}
	if i, ok := c.refMaterialIdx[name]; ok {
		return c.refMaterials[i], true
	}
	return nil, false
}

func (c *Catalog) lookupElementLocked(name string) (*Element, bool) {
	if i, ok := c.elementIdx[name]; ok {
		return c.elements[i], true
	}
	if i, ok := c.refElementIdx[name]; ok {
		return c.refElements[i], true
	}
	return nil, false
}

func (c *Catalog) findOrBuildLocked(ctx context.Context, name string) (*Material, error) {
	if i, ok := c.materialIdx[name]; ok {
		return c.materials[i], nil
	}
	if spec, ok := c.pending[name]; ok {
		return c.addMaterialLocked(ctx, spec)
	}
	if i, ok := c.refMaterialIdx[name]; ok {
		return c.refMaterials[i], nil
	}
	ref, err := LookupReference(name)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Building reference material.", "name", name)
	mat, err := c.newMaterialLocked(ctx, ref.spec())
	if err != nil {
		return nil, err
	}
	c.refMaterialIdx[mat.Name] = len(c.refMaterials)
	c.refMaterials = append(c.refMaterials, mat)
	return mat, nil
}

func (c *Catalog) findOrBuildElementLocked(ctx context.Context, name string) (*Element, error) {
	if el, ok := c.lookupElementLocked(name); ok {
		return el, nil
	}
	ref, err := LookupElement(name)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Building reference element.", "symbol", name)
	el, err := c.newElementLocked(ElementSpec{
		Name:      ref.Symbol,
		Symbol:    ref.Symbol,
		Z:         float64(ref.Z),
		MolarMass: ref.MolarMass,
	})
	if err != nil {
		return nil, err
	}
	c.refElementIdx[el.Name] = len(c.refElements)
	c.refElements = append(c.refElements, el)
	return el, nil
}

func (c *Catalog) addIsotopeLocked(ctx context.Context, spec IsotopeSpec) (*Isotope, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: isotope name is empty", ErrInvalidMaterial)
	}
	if _, exists := c.isotopeIdx[spec.Name]; exists {
		return nil, fmt.Errorf("%w: isotope %q", ErrDuplicateName, spec.Name)
	}
	if spec.Z < 1 || spec.N < spec.Z {
		return nil, fmt.Errorf("%w: isotope %q has Z=%d N=%d", ErrInvalidMaterial, spec.Name, spec.Z, spec.N)
	}
	if spec.MolarMass < 0 {
		return nil, fmt.Errorf("%w: isotope %q has negative molar mass", ErrInvalidMaterial, spec.Name)
	}

	iso := &Isotope{Name: spec.Name, Z: spec.Z, N: spec.N, MolarMass: spec.MolarMass}
	if iso.MolarMass == 0 {
		iso.MolarMass = isotopeMass(spec.Z, spec.N)
	}
	c.isotopeIdx[iso.Name] = len(c.isotopes)
	c.isotopes = append(c.isotopes, iso)
	ctxlog.FromContext(ctx).Debug("Isotope defined.", "name", iso.Name, "z", iso.Z, "n", iso.N)
	return iso, nil
}

func (c *Catalog) addElementLocked(ctx context.Context, spec ElementSpec) (*Element, error) {
	if _, exists := c.elementIdx[spec.Name]; exists {
		return nil, fmt.Errorf("%w: element %q", ErrDuplicateName, spec.Name)
	}
	el, err := c.newElementLocked(spec)
	if err != nil {
		return nil, err
	}
	c.elementIdx[el.Name] = len(c.elements)
	c.elements = append(c.elements, el)
	ctxlog.FromContext(ctx).Debug("Element defined.", "name", el.Name, "symbol", el.Symbol, "z", el.Z)
	return el, nil
}

// newElementLocked validates spec and creates the element without
// registering it.
func (c *Catalog) newElementLocked(spec ElementSpec) (*Element, error) {
	if spec.Name == "" || spec.Symbol == "" {
		return nil, fmt.Errorf("%w: element needs a name and a symbol (name=%q symbol=%q)", ErrInvalidMaterial, spec.Name, spec.Symbol)
	}
	el := &Element{Name: spec.Name, Symbol: spec.Symbol}
	if len(spec.Isotopes) > 0 {
		if spec.Z != 0 || spec.MolarMass != 0 {
			return nil, fmt.Errorf("%w: element %q sets both isotopes and Z/molar mass", ErrInvalidComposition, spec.Name)
		}
		fractions, err := c.resolveAbundances(spec)
		if err != nil {
			return nil, err
		}
		el.isotopes = fractions
		el.Z = float64(fractions[0].Isotope.Z)
		for _, f := range fractions {
			el.MolarMass += f.Abundance * f.Isotope.MolarMass
		}
	} else {
		if spec.Z < 1 || spec.MolarMass <= 0 {
			return nil, fmt.Errorf("%w: element %q has Z=%g molar mass=%g", ErrInvalidMaterial, spec.Name, spec.Z, spec.MolarMass)
		}
		el.Z = spec.Z
		el.MolarMass = spec.MolarMass
	}
	return el, nil
}

func (c *Catalog) resolveAbundances(spec ElementSpec) ([]IsotopeFraction, error) {
	out := make([]IsotopeFraction, 0, len(spec.Isotopes))
	sum := 0.0
	for _, ab := range spec.Isotopes {
		i, ok := c.isotopeIdx[ab.Isotope]
		if !ok {
			return nil, fmt.Errorf("%w: element %q refers to %q", ErrIsotopeNotFound, spec.Name, ab.Isotope)
		}
		iso := c.isotopes[i]
		if len(out) > 0 && iso.Z != out[0].Isotope.Z {
			return nil, fmt.Errorf("%w: element %q mixes isotopes of Z=%d and Z=%d", ErrInvalidComposition, spec.Name, out[0].Isotope.Z, iso.Z)
		}
		if !(ab.Fraction > 0) {
			return nil, fmt.Errorf("%w: element %q has non-positive abundance for %q", ErrInvalidComposition, spec.Name, ab.Isotope)
		}
		out = append(out, IsotopeFraction{Isotope: iso, Abundance: ab.Fraction})
		sum += ab.Fraction
	}
	if math.Abs(sum-1) > fractionTolerance {
		return nil, fmt.Errorf("%w: isotope abundances of %q sum to %g", ErrInvalidComposition, spec.Name, sum)
	}
	for i := range out {
		out[i].Abundance /= sum
	}
	return out, nil
}

func (c *Catalog) addMaterialLocked(ctx context.Context, spec MaterialSpec) (*Material, error) {
	if _, exists := c.materialIdx[spec.Name]; exists {
		return nil, fmt.Errorf("%w: material %q", ErrDuplicateName, spec.Name)
	}
	// Leaving pending first turns a definition cycle into a lookup failure.
	delete(c.pending, spec.Name)

	mat, err := c.newMaterialLocked(ctx, spec)
	if err != nil {
		return nil, err
	}
	c.materialIdx[mat.Name] = len(c.materials)
	c.materials = append(c.materials, mat)
	ctxlog.FromContext(ctx).Debug("Material defined.", "name", mat.Name, "components", len(mat.components), "state", mat.State.String())
	return mat, nil
}

// newMaterialLocked validates spec and resolves its composition without
// registering the material.
func (c *Catalog) newMaterialLocked(ctx context.Context, spec MaterialSpec) (*Material, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: material name is empty", ErrInvalidMaterial)
	}
	if !(spec.Density > 0) {
		return nil, fmt.Errorf("%w: material %q has non-positive density %g", ErrInvalidMaterial, spec.Name, spec.Density)
	}
	if spec.Temperature < 0 || spec.Pressure < 0 || spec.MeanExcitationEnergy < 0 {
		return nil, fmt.Errorf("%w: material %q has a negative temperature, pressure or excitation energy", ErrInvalidMaterial, spec.Name)
	}

	parts, err := c.resolveParts(ctx, spec)
	if err != nil {
		return nil, err
	}

	mat := &Material{
		Name:                 spec.Name,
		Density:              spec.Density,
		State:                resolveState(spec.State, spec.Density),
		Temperature:          spec.Temperature,
		Pressure:             spec.Pressure,
		MeanExcitationEnergy: spec.MeanExcitationEnergy,
		components:           parts,
		elements:             flatten(parts),
	}
	if mat.Temperature == 0 {
		mat.Temperature = units.NormalTemperature
	}
	if mat.Pressure == 0 {
		mat.Pressure = units.StandardPressure
	}
	return mat, nil
}

// resolveParts turns whichever composition form the spec uses into a list of
// components with resolved mass fractions.
func (c *Catalog) resolveParts(ctx context.Context, spec MaterialSpec) ([]Component, error) {
	forms := 0
	if len(spec.Components) > 0 {
		forms++
	}
	if spec.Dilute != nil {
		forms++
	}
	if spec.SingleIsotope != nil {
		forms++
	}
	if spec.Z != 0 || spec.MolarMass != 0 {
		forms++
	}
	switch {
	case forms == 0:
		return nil, fmt.Errorf("%w: material %q has no composition", ErrInvalidComposition, spec.Name)
	case forms > 1:
		return nil, fmt.Errorf("%w: material %q mixes composition forms", ErrInvalidComposition, spec.Name)
	}

	switch {
	case spec.SingleIsotope != nil:
		si := spec.SingleIsotope
		iso, err := c.addIsotopeLocked(ctx, IsotopeSpec{Name: si.Symbol, Z: si.Z, N: si.A})
		if err != nil {
			return nil, err
		}
		el, err := c.addElementLocked(ctx, ElementSpec{
			Name:     spec.Name,
			Symbol:   si.Symbol,
			Isotopes: []Abundance{{Isotope: iso.Name, Fraction: 1}},
		})
		if err != nil {
			return nil, err
		}
		return []Component{{Element: el, MassFraction: 1}}, nil

	case spec.Dilute != nil:
		d := spec.Dilute
		if !(d.Fraction > 0 && d.Fraction < 1) {
			return nil, fmt.Errorf("%w: material %q has dopant fraction %g outside (0, 1)", ErrInvalidComposition, spec.Name, d.Fraction)
		}
		return c.resolveComponents(ctx, spec.Name, []ComponentSpec{
			{Element: d.Element, Material: d.Material, Fraction: d.Fraction},
			{Material: d.Base, Fraction: 1 - d.Fraction},
		})

	case len(spec.Components) > 0:
		return c.resolveComponents(ctx, spec.Name, spec.Components)

	default:
		el, err := c.addElementLocked(ctx, ElementSpec{
			Name:      spec.Name,
			Symbol:    spec.Name,
			Z:         spec.Z,
			MolarMass: spec.MolarMass,
		})
		if err != nil {
			return nil, err
		}
		return []Component{{Element: el, MassFraction: 1}}, nil
	}
}

func (c *Catalog) resolveComponents(ctx context.Context, name string, specs []ComponentSpec) ([]Component, error) {
	byAtoms := specs[0].Atoms > 0
	parts := make([]Component, 0, len(specs))
	for i, cs := range specs {
		if (cs.Element == "") == (cs.Material == "") {
			return nil, fmt.Errorf("%w: component %d of %q must name exactly one element or material", ErrInvalidComposition, i, name)
		}
		if cs.Atoms < 0 || (cs.Atoms > 0) != byAtoms || (cs.Atoms > 0 && cs.Fraction != 0) {
			return nil, fmt.Errorf("%w: material %q mixes atom counts and mass fractions", ErrInvalidComposition, name)
		}
		if !byAtoms && !(cs.Fraction > 0) {
			return nil, fmt.Errorf("%w: component %d of %q has non-positive mass fraction", ErrInvalidComposition, i, name)
		}

		part := Component{MassFraction: cs.Fraction, Atoms: cs.Atoms}
		if cs.Element != "" {
			el, err := c.findOrBuildElementLocked(ctx, cs.Element)
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", name, err)
			}
			part.Element = el
		} else {
			if byAtoms {
				return nil, fmt.Errorf("%w: material component %q of %q cannot be given by atom count", ErrInvalidComposition, cs.Material, name)
			}
			mat, err := c.findOrBuildLocked(ctx, cs.Material)
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", name, err)
			}
			part.Material = mat
		}
		parts = append(parts, part)
	}

	if byAtoms {
		total := 0.0
		for _, p := range parts {
			total += float64(p.Atoms) * p.Element.MolarMass
		}
		for i := range parts {
			parts[i].MassFraction = float64(parts[i].Atoms) * parts[i].Element.MolarMass / total
		}
		return parts, nil
	}

	sum := 0.0
	for _, p := range parts {
		sum += p.MassFraction
	}
	if math.Abs(sum-1) > fractionTolerance {
		return nil, fmt.Errorf("%w: mass fractions of %q sum to %g", ErrInvalidComposition, name, sum)
	}
	for i := range parts {
		parts[i].MassFraction /= sum
	}
	return parts, nil
}

// flatten expands material components into their elements and merges
// repeated elements, keeping first-seen order.
func flatten(parts []Component) []ElementFraction {
	var out []ElementFraction
	pos := make(map[*Element]int)
	add := func(el *Element, w float64) {
		if i, ok := pos[el]; ok {
			out[i].MassFraction += w
			return
		}
		pos[el] = len(out)
		out = append(out, ElementFraction{Element: el, MassFraction: w})
	}
	for _, p := range parts {
		if p.Element != nil {
			add(p.Element, p.MassFraction)
			continue
		}
		for _, ef := range p.Material.elements {
			add(ef.Element, p.MassFraction*ef.MassFraction)
		}
	}
	sum := 0.0
	for _, ef := range out {
		sum += ef.MassFraction
	}
	for i := range out {
		out[i].MassFraction /= sum
	}
	return out
}
