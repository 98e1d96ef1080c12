package geostore_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/detgeo/internal/geometry"
	"github.com/specialistvlad/detgeo/internal/geostore"
	"github.com/specialistvlad/detgeo/internal/inmemorygeo"
	"github.com/specialistvlad/detgeo/internal/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNestedStore(t *testing.T) *inmemorygeo.Store {
	t.Helper()
	ctx := context.Background()
	s := inmemorygeo.New()
	air := &material.Material{Name: "Air"}

	box, err := geometry.NewBox("World_s", 10, 10, 10)
	require.NoError(t, err)
	sid, err := s.AddSolid(ctx, box)
	require.NoError(t, err)
	lid, err := s.AddLogical(ctx, geometry.LogicalVolume{Name: "World_l", Solid: sid, Material: air})
	require.NoError(t, err)

	place := func(name string, parent geometry.PlacedID) geometry.PlacedID {
		id, err := s.Place(ctx, geometry.PlacedVolume{Name: name, Logical: lid, Parent: parent})
		require.NoError(t, err)
		return id
	}
	world := place("World_p", geometry.NoParent)
	a := place("A_p", world)
	place("A1_p", a)
	place("B_p", world)
	return s
}

func TestWalk_Order(t *testing.T) {
	s := newNestedStore(t)
	var visited []string
	err := geostore.Walk(context.Background(), s, func(_ geometry.PlacedID, pv geometry.PlacedVolume, depth int) error {
		visited = append(visited, strings.Repeat(">", depth)+pv.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"World_p", ">A_p", ">>A1_p", ">B_p"}, visited)
}

func TestWalk_SkipChildrenAndStop(t *testing.T) {
	s := newNestedStore(t)
	ctx := context.Background()

	var visited []string
	err := geostore.Walk(ctx, s, func(_ geometry.PlacedID, pv geometry.PlacedVolume, _ int) error {
		visited = append(visited, pv.Name)
		if pv.Name == "A_p" {
			return geostore.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"World_p", "A_p", "B_p"}, visited)

	stop := errors.New("stop")
	err = geostore.Walk(ctx, s, func(geometry.PlacedID, geometry.PlacedVolume, int) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestWalk_EmptyStore(t *testing.T) {
	called := false
	err := geostore.Walk(context.Background(), inmemorygeo.New(), func(geometry.PlacedID, geometry.PlacedVolume, int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestPath(t *testing.T) {
	s := newNestedStore(t)
	ctx := context.Background()
	id, ok := s.PlacedByName(ctx, "A1_p")
	require.True(t, ok)

	p, err := geostore.Path(ctx, s, id)
	require.NoError(t, err)
	assert.Equal(t, "World_p/A_p/A1_p", p)

	_, err = geostore.Path(ctx, s, 40)
	assert.ErrorIs(t, err, geostore.ErrNotFound)
}
