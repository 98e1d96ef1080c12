package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestLength(t *testing.T) {
	testCases := []struct {
		in   float64
		want string
	}{
		{30 * Meter, "30 m"},
		{150 * Centimeter, "1.5 m"},
		{2 * Centimeter, "2 cm"},
		{-10 * Meter, "-10 m"},
		{0.5 * Millimeter, "500 um"},
		{0, "0 mm"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, BestLength(tc.in))
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		name      string
		expr      string
		want      float64
		expectErr bool
	}{
		{name: "meters", expr: "25*m", want: 25 * Meter},
		{name: "plain number is millimetres", expr: "12", want: 12},
		{name: "density", expr: "1.06 * g_per_cm3", want: 1.06 * GramPerCm3},
		{name: "percent", expr: "7.54*percent", want: 0.0754},
		{name: "arithmetic", expr: "(90 + 10) * cm / 2", want: 50 * Centimeter},
		{name: "error - unknown unit", expr: "3*furlong", expectErr: true},
		{name: "error - syntax", expr: "3 *", expectErr: true},
		{name: "error - string", expr: `"air"`, expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseQuantity(tc.expr)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}
