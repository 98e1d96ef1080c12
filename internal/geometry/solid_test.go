package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBox_RejectsNonPositive(t *testing.T) {
	testCases := []struct {
		name       string
		hx, hy, hz float64
	}{
		{"zero x", 0, 1, 1},
		{"negative y", 1, -1, 1},
		{"zero z", 1, 1, 0},
		{"nan", math.NaN(), 1, 1},
		{"infinite z", 1, 1, math.Inf(1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBox("World_s", tc.hx, tc.hy, tc.hz)
			require.ErrorIs(t, err, ErrInvalidDimension)
		})
	}

	b, err := NewBox("World_s", 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Vector3{1, 2, 3}, b.Extent())
	assert.Equal(t, KindBox, b.Kind())
}

func TestNewTube(t *testing.T) {
	tube, err := NewCylinder("Target_s", 20, 750)
	require.NoError(t, err)
	assert.Equal(t, Vector3{20, 20, 750}, tube.Extent())
	assert.InDelta(t, 2*math.Pi, tube.DeltaPhi, 1e-15)

	testCases := []struct {
		name                string
		rmin, rmax, hz, dph float64
	}{
		{"zero radius", 0, 0, 10, 2 * math.Pi},
		{"negative length", 0, 5, -10, 2 * math.Pi},
		{"inner beyond outer", 6, 5, 10, 2 * math.Pi},
		{"partial sweep", 0, 5, 10, math.Pi},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTube("Shell_s", tc.rmin, tc.rmax, tc.hz, 0, tc.dph)
			require.ErrorIs(t, err, ErrInvalidDimension)
		})
	}
}

func TestNewSubtraction(t *testing.T) {
	body, err := NewCylinder("CollimatorSolid_s", 120, 500)
	require.NoError(t, err)
	bore, err := NewCylinder("CollimatorHollow_s", 20, 450)
	require.NoError(t, err)

	sub, err := NewSubtraction("Collimator_s", body, bore, nil, Vector3{Z: 50})
	require.NoError(t, err)
	assert.Equal(t, body.Extent(), sub.Extent())
	assert.Equal(t, 50.0, sub.Parameters()["offset_z"])

	_, err = NewSubtraction("broken", body, nil, nil, Vector3{})
	require.Error(t, err)
}
