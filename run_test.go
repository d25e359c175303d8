package orbplot_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/orbplot"
	"github.com/rmera/orbplot/comm"
	"github.com/rmera/orbplot/cube"
	"github.com/rmera/orbplot/gto"
	"github.com/rmera/orbplot/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func h2(Te *testing.T) *gto.System {
	S := &gto.System{
		Ions: []gto.Ion{
			{Label: "H", Charge: 1, Pos: [3]float64{0, 0, 0.7}},
			{Label: "H", Charge: 1, Pos: [3]float64{0, 0, -0.7}},
		},
		Orbitals: []gto.Orbital{
			{Name: "sigma", Terms: []gto.Primitive{{Center: 0, Exponent: 1, Coeff: 0.5}, {Center: 1, Exponent: 1, Coeff: 0.5}}},
			{Name: "sigma*", Terms: []gto.Primitive{{Center: 0, Exponent: 1, Coeff: 0.5}, {Center: 1, Exponent: 1, Coeff: -0.5}}},
			{Name: "pz", Terms: []gto.Primitive{{Center: 0, Exponent: 0.8, Powers: [3]int{0, 0, 1}, Coeff: 1, CoeffIm: 0.3}}},
		},
	}
	require.NoError(Te, S.Check())
	return S
}

func plotInput(Te *testing.T, s string) []string {
	w, err := input.Parse(strings.NewReader(s))
	require.NoError(Te, err)
	return w
}

func TestRunSinglePoint(Te *testing.T) {
	runid := filepath.Join(Te.TempDir(), "h2")
	words := plotInput(Te, "ORBITALS { NORB 3 } RESOLUTION 1.0 MINMAX { 0 1 0 1 0 1 }")
	require.NoError(Te, orbplot.Run(context.Background(), comm.Single(), h2(Te), words, runid, nil))
	for o := 0; o < 3; o++ {
		assert.FileExists(Te, orbplot.OrbitalFileName(runid, o, ""))
	}
	assert.FileExists(Te, runid+".xyz")
	data, err := os.ReadFile(orbplot.DensityFileName(runid))
	require.NoError(Te, err)
	lines := strings.Split(string(data), "\n")
	//title, comment, origin, 3 axes, 2 atoms, one line of values and the final newline
	require.Len(Te, lines, 10)
	assert.Equal(Te, "Electron density", lines[1])
	assert.Equal(Te, "1   1  0  0", lines[3])
	assert.Len(Te, lines[8], 20)
	assert.Equal(Te, "", lines[9])
}

func TestRunParallelDensity(Te *testing.T) {
	defer goleak.VerifyNone(Te)
	dir := Te.TempDir()
	sys := h2(Te)
	words := plotInput(Te, "ORBITALS { } RESOLUTION 0.5 MINMAX { -1 1 -1 1 -1.5 1.5 } PLOTORBITALS { 1 2 3 }")
	single := filepath.Join(dir, "single")
	require.NoError(Te, orbplot.Run(context.Background(), comm.Single(), sys, words, single, nil))
	_, want, err := cube.ReadFile(orbplot.DensityFileName(single))
	require.NoError(Te, err)
	for _, size := range []int{2, 3} {
		runid := filepath.Join(dir, fmt.Sprintf("par%d", size))
		err := comm.Run(context.Background(), size, func(ctx context.Context, c comm.Communicator) error {
			return orbplot.Run(ctx, c, sys, words, runid, nil)
		})
		require.NoError(Te, err)
		_, got, err := cube.ReadFile(orbplot.DensityFileName(runid))
		require.NoError(Te, err)
		require.Len(Te, got, len(want))
		for p, v := range want {
			assert.InDelta(Te, v, got[p], 2e-10*math.Abs(v)+1e-300, "size %d point %d", size, p)
		}
		for o := 0; o < 3; o++ {
			assert.FileExists(Te, orbplot.OrbitalFileName(runid, o, ""))
		}
	}
	//too many nodes for 3 orbitals
	err = comm.Run(context.Background(), 4, func(ctx context.Context, c comm.Communicator) error {
		return orbplot.Run(ctx, c, sys, words, filepath.Join(dir, "par4"), nil)
	})
	assert.ErrorIs(Te, err, orbplot.ErrPrecondition)
}

func TestRunComplexJeep(Te *testing.T) {
	runid := filepath.Join(Te.TempDir(), "c")
	words := plotInput(Te, "CORBITALS { NORB 3 } PLOTORBITALS { 3 } JEEP_CUBE COMPRESS gz PROFILE z RESOLUTION 0.5 MINMAX { -1 1 -1 1 -1 1 }")
	require.NoError(Te, orbplot.Run(context.Background(), comm.Single(), h2(Te), words, runid, nil))
	re, err := cube.Open(orbplot.OrbitalFileName(runid, 2, "real") + ".gz")
	require.NoError(Te, err)
	defer re.Close()
	//2 title lines, 3 axes, 3 blank, atom count, 2 atoms, 1, origin, extent, 2 blank, counts.
	rv, err := cube.ReadValues(re, 17)
	require.NoError(Te, err)
	im, err := cube.Open(orbplot.OrbitalFileName(runid, 2, "imag") + ".gz")
	require.NoError(Te, err)
	defer im.Close()
	iv, err := cube.ReadValues(im, 17)
	require.NoError(Te, err)
	require.Len(Te, rv, 64)
	require.Len(Te, iv, 64)
	for p := range rv {
		assert.InDelta(Te, 0.3*rv[p], iv[p], 1e-9*math.Abs(rv[p])+1e-20)
	}
	_, dens, err := cube.ReadFile(orbplot.DensityFileName(runid) + ".gz")
	require.NoError(Te, err)
	for p := range dens {
		assert.InDelta(Te, rv[p]*rv[p]+iv[p]*iv[p], dens[p], 1e-9*dens[p]+1e-20)
	}
	assert.FileExists(Te, runid+".dens.z.png")
	assert.NoFileExists(Te, orbplot.OrbitalFileName(runid, 0, "real")+".gz")
}

func tbdmFile(Te *testing.T, name string, n int) {
	var b strings.Builder
	fmt.Fprintf(&b, "norb %d\n", n)
	for p := 0; p < n*n*n*n; p++ {
		for s := 0; s < 4; s++ {
			fmt.Fprintf(&b, "%.17g ", 1+0.3*math.Cos(float64(p*4+s)))
		}
		b.WriteString("\n")
	}
	require.NoError(Te, os.WriteFile(name, []byte(b.String()), 0o644))
}

func TestRunTBDM(Te *testing.T) {
	dir := Te.TempDir()
	coeff := filepath.Join(dir, "coeff.dat")
	tbdmFile(Te, coeff, 2)
	runid := filepath.Join(dir, "t")
	text := fmt.Sprintf("ORBITALS { NORB 2 } RESOLUTION 0.5 MINMAX { -2 2 -2 2 -2 2 } TBDM_COEFF %s TBDM_R { 0 0 0.7 0 0 0 }", coeff)
	sys := h2(Te)
	require.NoError(Te, orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, text), runid, nil))
	for i := 0; i < 2; i++ {
		for s1 := 0; s1 < 2; s1++ {
			for s2 := 0; s2 < 2; s2++ {
				H, v, err := cube.ReadFile(orbplot.TBDMFileName(runid, i, s1, s2))
				require.NoError(Te, err)
				assert.Equal(Te, 3, H.NAtoms())
				assert.Len(Te, v, 512)
			}
		}
	}
	//the TBDM is not plotted with complex orbitals or several nodes
	ctext := strings.Replace(text, "ORBITALS", "CORBITALS", 1)
	err := orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, ctext), runid, nil)
	assert.ErrorIs(Te, err, orbplot.ErrPrecondition)
	err = comm.Run(context.Background(), 2, func(ctx context.Context, c comm.Communicator) error {
		return orbplot.Run(ctx, c, sys, plotInput(Te, text), runid, nil)
	})
	assert.ErrorIs(Te, err, orbplot.ErrPrecondition)
	//NORB 2 gives a 2-orbital evaluator, a 3-orbital TBDM doesn't fit,
	//and is rejected before any sampling.
	tbdmFile(Te, coeff, 3)
	other := filepath.Join(Te.TempDir(), "other")
	err = orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, text), other, nil)
	assert.ErrorIs(Te, err, orbplot.ErrFormat)
	assert.NoFileExists(Te, orbplot.DensityFileName(other))
}

func TestRunErrors(Te *testing.T) {
	dir := Te.TempDir()
	sys := h2(Te)
	runid := filepath.Join(dir, "e")
	err := orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, "ORBITALS { NORB 3 } PLOTORBITALS { 4 }"), runid, nil)
	assert.ErrorIs(Te, err, orbplot.ErrConfig)
	assert.Contains(Te, err.Error(), "Too high orbital requested in PLOTORBITALS")
	assert.NoFileExists(Te, runid+".xyz")

	err = orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, "ORBITALS { NORB 7 }"), runid, nil)
	assert.ErrorIs(Te, err, orbplot.ErrConfig)

	err = orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, "ORBITALS { } TBDM_COEFF "+filepath.Join(dir, "none.dat")+" TBDM_R { 0 0 0 }"), runid, nil)
	assert.ErrorIs(Te, err, orbplot.ErrIO)

	err = orbplot.Run(context.Background(), comm.Single(), sys, plotInput(Te, "ORBITALS { } RESOLUTION 1 MINMAX { 0 1 0 1 0 1 }"), filepath.Join(dir, "missing", "e"), nil)
	assert.ErrorIs(Te, err, orbplot.ErrIO)
}
