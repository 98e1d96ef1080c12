package builder

import (
	"fmt"

	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/units"
)

// Role names a volume of the detector. Solid, logical and placed volume
// names are derived from it.
type Role string

const (
	RoleWorld        Role = "World"
	RoleGasContainer Role = "Gascontainer"
	RoleGasInsulator Role = "Gasinsulator"
	RoleLArContainer Role = "LArcontainer"
	RoleTarget       Role = "Target"
	RoleCollimator   Role = "Collimator"
	RoleDetector     Role = "Detector"
)

// Roles lists every role in construction order.
var Roles = []Role{
	RoleWorld, RoleGasContainer, RoleGasInsulator, RoleLArContainer, RoleTarget, RoleCollimator, RoleDetector,
}

func (r Role) SolidName() string { return string(r) + "_s" }
func (r Role) LogicalName() string { return string(r) + "_l" }
func (r Role) PlacedName() string { return string(r) + "_p" }

// Params is the flat parameter set of the detector. Lengths are full
// lengths, not half-lengths, in engine-native units.
type Params struct {
	WorldSizeX    float64 `mapstructure:"world_size_x" yaml:"world_size_x"`
	WorldSizeY    float64 `mapstructure:"world_size_y" yaml:"world_size_y"`
	WorldSizeZ    float64 `mapstructure:"world_size_z" yaml:"world_size_z"`
	WorldMaterial string  `mapstructure:"world_material" yaml:"world_material"`

	GasContainerRadius   float64 `mapstructure:"gas_container_radius" yaml:"gas_container_radius"`
	GasContainerLength   float64 `mapstructure:"gas_container_length" yaml:"gas_container_length"`
	GasContainerMaterial string  `mapstructure:"gas_container_material" yaml:"gas_container_material"`

	GasInsulatorRadius   float64 `mapstructure:"gas_insulator_radius" yaml:"gas_insulator_radius"`
	GasInsulatorLength   float64 `mapstructure:"gas_insulator_length" yaml:"gas_insulator_length"`
	GasInsulatorMaterial string  `mapstructure:"gas_insulator_material" yaml:"gas_insulator_material"`

	LArContainerRadius   float64 `mapstructure:"lar_container_radius" yaml:"lar_container_radius"`
	LArContainerLength   float64 `mapstructure:"lar_container_length" yaml:"lar_container_length"`
	LArContainerMaterial string  `mapstructure:"lar_container_material" yaml:"lar_container_material"`

	TargetRadius   float64 `mapstructure:"target_radius" yaml:"target_radius"`
	TargetLength   float64 `mapstructure:"target_length" yaml:"target_length"`
	TargetMaterial string  `mapstructure:"target_material" yaml:"target_material"`

	CollimatorShieldThickness float64 `mapstructure:"collimator_shield_thickness" yaml:"collimator_shield_thickness"`
	CollimatorHollowLength    float64 `mapstructure:"collimator_hollow_length" yaml:"collimator_hollow_length"`
	CollimatorHollowRadius    float64 `mapstructure:"collimator_hollow_radius" yaml:"collimator_hollow_radius"`
	CollimatorMaterial        string  `mapstructure:"collimator_material" yaml:"collimator_material"`

	DetectorRadius    float64 `mapstructure:"detector_radius" yaml:"detector_radius"`
	DetectorLength    float64 `mapstructure:"detector_length" yaml:"detector_length"`
	DetectorPositionZ float64 `mapstructure:"detector_position_z" yaml:"detector_position_z"`
	DetectorMaterial  string  `mapstructure:"detector_material" yaml:"detector_material"`
}

// DefaultParams returns the reference detector: a 2 m x 2 m x 30 m air world
// holding a 1.5 m liquid argon target in nested containers, with a lithiated
// polyethylene collimator in front of a water detector 10 m upstream.
func DefaultParams() Params {
	return Params{
		WorldSizeX:    2 * units.Meter,
		WorldSizeY:    2 * units.Meter,
		WorldSizeZ:    30 * units.Meter,
		WorldMaterial: "Air",

		GasContainerRadius:   12 * units.Centimeter,
		GasContainerLength:   160 * units.Centimeter,
		GasContainerMaterial: "StainlessSteel",

		GasInsulatorRadius:   10 * units.Centimeter,
		GasInsulatorLength:   160 * units.Centimeter,
		GasInsulatorMaterial: "Air",

		LArContainerRadius:   5 * units.Centimeter,
		LArContainerLength:   150 * units.Centimeter,
		LArContainerMaterial: "LiPoly",

		TargetRadius:   2 * units.Centimeter,
		TargetLength:   150 * units.Centimeter,
		TargetMaterial: "G4_lAr",

		CollimatorShieldThickness: 10 * units.Centimeter,
		CollimatorHollowLength:    90 * units.Centimeter,
		CollimatorHollowRadius:    2 * units.Centimeter,
		CollimatorMaterial:        "LiPoly",

		DetectorRadius:    3 * units.Centimeter,
		DetectorLength:    10 * units.Centimeter,
		DetectorPositionZ: -10 * units.Meter,
		DetectorMaterial:  "Water_ts",
	}
}

// Shell is one of the concentric tubes around the target.
type Shell struct {
	Role     Role
	Radius   float64
	Length   float64
	Material string
}

// Shells returns the concentric tubes, outermost first.
func (p Params) Shells() []Shell {
	return []Shell{
		{RoleGasContainer, p.GasContainerRadius, p.GasContainerLength, p.GasContainerMaterial},
		{RoleGasInsulator, p.GasInsulatorRadius, p.GasInsulatorLength, p.GasInsulatorMaterial},
		{RoleLArContainer, p.LArContainerRadius, p.LArContainerLength, p.LArContainerMaterial},
		{RoleTarget, p.TargetRadius, p.TargetLength, p.TargetMaterial},
	}
}

// Materials returns the material name of every role.
func (p Params) Materials() map[Role]string {
	return map[Role]string{
		RoleWorld:        p.WorldMaterial,
		RoleGasContainer: p.GasContainerMaterial,
		RoleGasInsulator: p.GasInsulatorMaterial,
		RoleLArContainer: p.LArContainerMaterial,
		RoleTarget:       p.TargetMaterial,
		RoleCollimator:   p.CollimatorMaterial,
		RoleDetector:     p.DetectorMaterial,
	}
}

// CollimatorBodyRadius and CollimatorBodyLength are the outer dimensions of
// the collimator before the bore is removed.
func (p Params) CollimatorBodyRadius() float64 {
	return p.CollimatorHollowRadius + p.CollimatorShieldThickness
}

func (p Params) CollimatorBodyLength() float64 {
	return p.CollimatorHollowLength + p.CollimatorShieldThickness
}

// CollimatorCenterZ is the z position of the collimator placement. It puts
// the bore's lower face at the detector's lower face.
func (p Params) CollimatorCenterZ() float64 {
	t := p.CollimatorShieldThickness
	return p.DetectorPositionZ - p.DetectorLength/2 - t + p.CollimatorBodyLength()/2
}

// BoreOffset is the bore's offset from the collimator body's centre.
func (p Params) BoreOffset() geometry.Vector3 {
	return geometry.Vector3{Z: p.CollimatorShieldThickness / 2}
}

// BoreFaces returns the world z of the bore's lower and upper faces.
func (p Params) BoreFaces() (lower, upper float64) {
	center := p.CollimatorCenterZ() + p.BoreOffset().Z
	return center - p.CollimatorHollowLength/2, center + p.CollimatorHollowLength/2
}

// Validate checks every dimension before anything is built. Failures wrap
// geometry.ErrInvalidDimension.
func (p Params) Validate() error {
	positive := []struct {
		key string
		v   float64
	}{
		{"world_size_x", p.WorldSizeX},
		{"world_size_y", p.WorldSizeY},
		{"world_size_z", p.WorldSizeZ},
		{"gas_container_radius", p.GasContainerRadius},
		{"gas_container_length", p.GasContainerLength},
		{"gas_insulator_radius", p.GasInsulatorRadius},
		{"gas_insulator_length", p.GasInsulatorLength},
		{"lar_container_radius", p.LArContainerRadius},
		{"lar_container_length", p.LArContainerLength},
		{"target_radius", p.TargetRadius},
		{"target_length", p.TargetLength},
		{"collimator_shield_thickness", p.CollimatorShieldThickness},
		{"collimator_hollow_length", p.CollimatorHollowLength},
		{"collimator_hollow_radius", p.CollimatorHollowRadius},
		{"detector_radius", p.DetectorRadius},
		{"detector_length", p.DetectorLength},
	}
	for _, c := range positive {
		if !geometry.ValidLength(c.v) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", geometry.ErrInvalidDimension, c.key, c.v)
		}
	}

	shells := p.Shells()
	for i := 1; i < len(shells); i++ {
		outer, inner := shells[i-1], shells[i]
		if inner.Radius > outer.Radius || inner.Length > outer.Length {
			return fmt.Errorf("%w: %s (r=%s, l=%s) does not fit inside %s (r=%s, l=%s)",
				geometry.ErrInvalidDimension,
				inner.Role, units.BestLength(inner.Radius), units.BestLength(inner.Length),
				outer.Role, units.BestLength(outer.Radius), units.BestLength(outer.Length))
		}
	}

	halfX, halfY, halfZ := p.WorldSizeX/2, p.WorldSizeY/2, p.WorldSizeZ/2
	fitsXY := func(r float64) bool { return r <= halfX && r <= halfY }
	fitsZ := func(lo, hi float64) bool { return lo >= -halfZ && hi <= halfZ }

	outer := shells[0]
	if !fitsXY(outer.Radius) || !fitsZ(-outer.Length/2, outer.Length/2) {
		return fmt.Errorf("%w: %s does not fit inside the world", geometry.ErrInvalidDimension, outer.Role)
	}
	cz, cl := p.CollimatorCenterZ(), p.CollimatorBodyLength()
	if !fitsXY(p.CollimatorBodyRadius()) || !fitsZ(cz-cl/2, cz+cl/2) {
		return fmt.Errorf("%w: %s does not fit inside the world", geometry.ErrInvalidDimension, RoleCollimator)
	}
	dz, dl := p.DetectorPositionZ, p.DetectorLength
	if !fitsXY(p.DetectorRadius) || !fitsZ(dz-dl/2, dz+dl/2) {
		return fmt.Errorf("%w: %s does not fit inside the world", geometry.ErrInvalidDimension, RoleDetector)
	}
	return nil
}
