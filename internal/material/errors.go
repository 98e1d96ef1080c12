package material

import "errors"

var (
	// ErrMaterialNotFound is returned when a material name is neither in the
	// catalog nor in the reference database.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrElementNotFound is returned when an element name is neither in the
	// catalog nor a reference element symbol.
	ErrElementNotFound = errors.New("element not found")
	// ErrIsotopeNotFound is returned when an element refers to an unknown
	// isotope.
	ErrIsotopeNotFound = errors.New("isotope not found")
	// ErrDuplicateName is returned when a name is already taken in the
	// catalog for the same kind of entry.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidComposition is returned when proportions do not add up or
	// mix incompatible forms.
	ErrInvalidComposition = errors.New("invalid composition")
	// ErrInvalidMaterial is returned for definitions with missing or
	// out-of-range fields.
	ErrInvalidMaterial = errors.New("invalid definition")
)
