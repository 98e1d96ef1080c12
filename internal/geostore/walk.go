package geostore

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/specialistvlad/detgeo/internal/geometry"
)

// SkipChildren can be returned by a WalkFunc to skip the daughters of the
// current placement.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every placement visited by Walk.
type WalkFunc func(id geometry.PlacedID, pv geometry.PlacedVolume, depth int) error

// Walk visits the placement tree depth-first from the root, parents before
// children and siblings in placement order. An empty store is not an error.
func Walk(ctx context.Context, s Store, fn WalkFunc) error {
	root, ok := s.Root(ctx)
	if !ok {
		return nil
	}
	return walk(ctx, s, root, 0, fn)
}

func walk(ctx context.Context, s Store, id geometry.PlacedID, depth int, fn WalkFunc) error {
	pv, ok := s.Placed(ctx, id)
	if !ok {
		return ErrNotFound
	}
	if err := fn(id, pv, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	children, err := s.Children(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := walk(ctx, s, child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the volume path string of a placement.
func Path(ctx context.Context, s Store, id geometry.PlacedID) (string, error) {
	var names []string
	for id != geometry.NoParent {
		pv, ok := s.Placed(ctx, id)
		if !ok {
			return "", ErrNotFound
		}
		names = append(names, pv.Name)
		id = pv.Parent
	}
	slices.Reverse(names)
	return strings.Join(names, "/"), nil
}
