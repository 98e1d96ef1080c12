package detector

import "errors"

var (
	// ErrNotBuilt is returned by operations that need a constructed tree.
	ErrNotBuilt = errors.New("detector is not built")

	// ErrUnknownParameter is returned by Apply for keys outside the
	// parameter set.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// State is the construction state of a Model.
type State int

const (
	Unbuilt State = iota
	Built
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "UNBUILT"
	case Built:
		return "BUILT"
	default:
		return "UNKNOWN"
	}
}
