package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/detgeo/internal/material"
)

// ErrInvalidDimension is returned for zero, negative, infinite or NaN
// lengths and radii.
var ErrInvalidDimension = errors.New("invalid dimension")

// ValidLength reports whether v is a usable length: positive and finite.
func ValidLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Vector3 is a position or offset in engine-native length units.
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Rotation is a 3x3 rotation matrix, row major. A nil *Rotation means no
// rotation.
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() *Rotation {
	return &Rotation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// SolidID, LogicalID and PlacedID are handles into a geometry store. They
// are only meaningful for the store generation that issued them.
type (
	SolidID   int
	LogicalID int
	PlacedID  int
)

// NoParent marks the root placement.
const NoParent PlacedID = -1

// LogicalVolume pairs a solid with a material under a name.
type LogicalVolume struct {
	Name     string
	Solid    SolidID
	Material *material.Material
}

// PlacedVolume positions a logical volume inside its parent placement.
type PlacedVolume struct {
	Name        string
	Logical     LogicalID
	Rotation    *Rotation
	Translation Vector3
	Parent      PlacedID
	CopyNo      int
}

// IsRoot reports whether the placement has no parent.
func (p *PlacedVolume) IsRoot() bool {
	return p.Parent == NoParent
}

func checkPositive(solid, field string, v float64) error {
	if !ValidLength(v) {
		return fmt.Errorf("%w: %s %s must be positive and finite, got %g", ErrInvalidDimension, solid, field, v)
	}
	return nil
}
