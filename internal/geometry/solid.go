package geometry

import (
	"fmt"
	"math"
)

// SolidKind names the primitive behind a Solid.
type SolidKind string

const (
	KindBox         SolidKind = "box"
	KindTube        SolidKind = "tube"
	KindSubtraction SolidKind = "subtraction"
)

// Solid is an unpositioned shape.
type Solid interface {
	Name() string
	Kind() SolidKind
	// Extent returns the half-lengths of the solid's axis-aligned bounding
	// box around its local origin.
	Extent() Vector3
	// Parameters returns the defining dimensions keyed by name.
	Parameters() map[string]float64
}

// Box is a rectangular solid centred on its origin.
type Box struct {
	name                string
	HalfX, HalfY, HalfZ float64
}

// NewBox creates a box from its half-extents.
func NewBox(name string, halfX, halfY, halfZ float64) (*Box, error) {
	for _, c := range []struct {
		field string
		v     float64
	}{{"half-x", halfX}, {"half-y", halfY}, {"half-z", halfZ}} {
		if err := checkPositive(name, c.field, c.v); err != nil {
			return nil, err
		}
	}
	return &Box{name: name, HalfX: halfX, HalfY: halfY, HalfZ: halfZ}, nil
}

func (b *Box) Name() string { return b.name }
func (b *Box) Kind() SolidKind { return KindBox }
func (b *Box) Extent() Vector3 { return Vector3{b.HalfX, b.HalfY, b.HalfZ} }

func (b *Box) Parameters() map[string]float64 {
	return map[string]float64{"half_x": b.HalfX, "half_y": b.HalfY, "half_z": b.HalfZ}
}

// Tube is a cylindrical section along z. Only full revolutions are
// supported.
type Tube struct {
	name     string
	RMin     float64
	RMax     float64
	HalfZ    float64
	StartPhi float64
	DeltaPhi float64
}

// NewTube creates a tube. rmin may be zero; rmax and halfZ must be positive
// and the sweep must cover 2π.
func NewTube(name string, rmin, rmax, halfZ, startPhi, deltaPhi float64) (*Tube, error) {
	if err := checkPositive(name, "outer radius", rmax); err != nil {
		return nil, err
	}
	if err := checkPositive(name, "half-length", halfZ); err != nil {
		return nil, err
	}
	if rmin < 0 || rmin >= rmax || math.IsNaN(rmin) {
		return nil, fmt.Errorf("%w: %s inner radius %g must be in [0, %g)", ErrInvalidDimension, name, rmin, rmax)
	}
	if math.Abs(deltaPhi-2*math.Pi) > 1e-12 {
		return nil, fmt.Errorf("%w: %s sweep %g is not a full revolution", ErrInvalidDimension, name, deltaPhi)
	}
	return &Tube{name: name, RMin: rmin, RMax: rmax, HalfZ: halfZ, StartPhi: startPhi, DeltaPhi: deltaPhi}, nil
}

// NewCylinder creates a solid full-revolution tube.
func NewCylinder(name string, radius, halfZ float64) (*Tube, error) {
	return NewTube(name, 0, radius, halfZ, 0, 2*math.Pi)
}

func (t *Tube) Name() string { return t.name }
func (t *Tube) Kind() SolidKind { return KindTube }
func (t *Tube) Extent() Vector3 { return Vector3{t.RMax, t.RMax, t.HalfZ} }

func (t *Tube) Parameters() map[string]float64 {
	return map[string]float64{
		"rmin":      t.RMin,
		"rmax":      t.RMax,
		"half_z":    t.HalfZ,
		"start_phi": t.StartPhi,
		"delta_phi": t.DeltaPhi,
	}
}

// Subtraction removes Subtrahend, displaced by Rotation and Offset, from
// Minuend. Its extent is the minuend's.
type Subtraction struct {
	name       string
	Minuend    Solid
	Subtrahend Solid
	Rotation   *Rotation
	Offset     Vector3
}

// NewSubtraction creates a boolean subtraction solid.
func NewSubtraction(name string, minuend, subtrahend Solid, rot *Rotation, offset Vector3) (*Subtraction, error) {
	if minuend == nil || subtrahend == nil {
		return nil, fmt.Errorf("subtraction %s needs two solids", name)
	}
	return &Subtraction{name: name, Minuend: minuend, Subtrahend: subtrahend, Rotation: rot, Offset: offset}, nil
}

func (s *Subtraction) Name() string { return s.name }
func (s *Subtraction) Kind() SolidKind { return KindSubtraction }
func (s *Subtraction) Extent() Vector3 { return s.Minuend.Extent() }

func (s *Subtraction) Parameters() map[string]float64 {
	return map[string]float64{"offset_x": s.Offset.X, "offset_y": s.Offset.Y, "offset_z": s.Offset.Z}
}
