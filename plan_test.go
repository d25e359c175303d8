package orbplot

import (
	"strings"
	"testing"

	"github.com/rmera/orbplot/cube"
	"github.com/rmera/orbplot/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(Te *testing.T, s string) []string {
	w, err := input.Parse(strings.NewReader(s))
	require.NoError(Te, err)
	return w
}

func TestParsePlan(Te *testing.T) {
	P, err := ParsePlan(words(Te, `
ORBITALS { NORB 4 }   # read the first 4
resolution 0.5
JEEP_CUBE
PLOTORBITALS { 1 3 }
MINMAX { -2 2 -2 2 -3 3 }
TBDM_COEFF tbdm.dat
TBDM_R { 0 0 0  1 0 0 }
PROFILE z
COMPRESS zst
`))
	require.NoError(Te, err)
	assert.False(Te, P.Complex)
	assert.Equal(Te, []string{"NORB", "4"}, P.OrbSection)
	assert.Equal(Te, 0.5, P.Resolution)
	assert.Equal(Te, cube.Jeep, P.Dialect)
	assert.False(Te, P.Periodic)
	assert.Equal(Te, []int{1, 3}, P.PlotOrbitals)
	assert.Equal(Te, []float64{-2, 2, -2, 2, -3, 3}, P.MinMax)
	assert.Equal(Te, "tbdm.dat", P.TBDMCoeff)
	assert.Equal(Te, [][3]float64{{0, 0, 0}, {1, 0, 0}}, P.TBDMRef)
	assert.Equal(Te, 2, P.Profile)
	assert.Equal(Te, ".zst", P.Compress)
	orbs, err := P.Orbitals(4)
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 2}, orbs)
	_, err = P.Orbitals(2)
	assert.ErrorIs(Te, err, ErrConfig)
	assert.Contains(Te, P.String(), "TBDM from tbdm.dat at 2 points")
}

func TestParsePlanDefaults(Te *testing.T) {
	P, err := ParsePlan(words(Te, "CORBITALS { } PERIODIC"))
	require.NoError(Te, err)
	assert.True(Te, P.Complex)
	assert.Equal(Te, 2, P.NComp())
	assert.True(Te, P.Periodic)
	assert.Equal(Te, DefaultResolution, P.Resolution)
	assert.Equal(Te, cube.Gaussian, P.Dialect)
	assert.Nil(Te, P.MinMax)
	assert.Equal(Te, -1, P.Profile)
	orbs, err := P.Orbitals(3)
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 1, 2}, orbs)
}

func TestParsePlanErrors(Te *testing.T) {
	for _, in := range []string{
		"RESOLUTION 0.1",
		"ORBITALS { } CORBITALS { }",
		"ORBITALS { } MINMAX { 0 1 0 1 0 }",
		"ORBITALS { } MINMAX { 0 1 0 1 0 a }",
		"ORBITALS { } RESOLUTION -1",
		"ORBITALS { } RESOLUTION fine",
		"ORBITALS { } PLOTORBITALS { 0 1 }",
		"ORBITALS { } TBDM_COEFF t.dat",
		"ORBITALS { } TBDM_COEFF t.dat TBDM_R { 0 0 }",
		"ORBITALS { } PROFILE w",
		"ORBITALS { } COMPRESS xz",
	} {
		_, err := ParsePlan(words(Te, in))
		assert.ErrorIs(Te, err, ErrConfig, in)
	}
}
