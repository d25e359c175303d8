package orbplot

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/orbplot/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//tbdmText returns TBDM coefficients for n orbitals, in the file format,
//with values given by f for each spin pair and index.
func tbdmText(n int, f func(s, i, j, k, l int) float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "norb %d\n", n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					fmt.Fprintf(&b, "%.17g %.17g %.17g %.17g\n", f(0, i, j, k, l), f(1, i, j, k, l), f(2, i, j, k, l), f(3, i, j, k, l))
				}
			}
		}
	}
	return b.String()
}

func wavy(s, i, j, k, l int) float64 {
	return 1 + 0.5*math.Sin(float64(1+s+2*i+3*j+5*k+7*l))
}

func TestTBDMTrace(Te *testing.T) {
	T, err := ParseTBDM(strings.NewReader(tbdmText(3, wavy)), 0)
	require.NoError(Te, err)
	assert.Equal(Te, 3, T.N)
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			assert.InDelta(Te, 1.0, T.Coeff[s1][s2].Trace(), 1e-12, SpinPairs[s1][s2])
			assert.False(Te, T.Unnormalized[s1][s2])
		}
	}
	//du is the third column, and normalization keeps the ratios.
	C := T.Coeff[1][0]
	assert.InDelta(Te, wavy(2, 0, 1, 2, 1)/wavy(2, 1, 1, 1, 1), C.At(0, 1, 2, 1)/C.At(1, 1, 1, 1), 1e-12)
}

func TestTBDMSingleEntry(Te *testing.T) {
	text := tbdmText(2, func(s, i, j, k, l int) float64 {
		if s == 0 && i == 0 && j == 0 && k == 0 && l == 0 {
			return 1
		}
		return 0
	})
	T, err := ParseTBDM(strings.NewReader(text), 0)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, T.Coeff[0][0].Trace(), 1e-15)
	assert.True(Te, T.Unnormalized[0][1])
	obdm := T.OBDM()
	assert.Equal(Te, []float64{0.5, 0, 0, 0}, obdm[0])
	assert.Equal(Te, []float64{0, 0, 0, 0}, obdm[1])
	P := T.Partial([]float64{2, 3})
	assert.Equal(Te, []float64{4, 0, 0, 0}, P[0][0])
}

func TestTBDMFormatErrors(Te *testing.T) {
	for _, in := range []string{
		"",
		"norbs 2\n1 1 1 1",
		"norb two",
		"norb 1\n1 1 1",
		"norb 1\n1 1 x 1",
		"norb 70000\n1 1 1 1",
		"norb 100000\n1 1 1 1",
		"norb 9223372036854775807\n1 1 1 1",
	} {
		_, err := ParseTBDM(strings.NewReader(in), 0)
		assert.ErrorIs(Te, err, ErrFormat, in)
	}
	_, err := ParseTBDM(strings.NewReader(tbdmText(2, wavy)), 3)
	assert.ErrorIs(Te, err, ErrFormat)
	_, err = ReadTBDM(filepath.Join(Te.TempDir(), "missing.dat"), 0)
	assert.ErrorIs(Te, err, ErrIO)
}

func TestReadTBDMCompressed(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "coeff.dat.zst")
	w, err := cube.Create(name)
	require.NoError(Te, err)
	_, err = w.Write([]byte(tbdmText(2, wavy)))
	require.NoError(Te, err)
	require.NoError(Te, w.Close())
	T, err := ReadTBDM(name, 2)
	require.NoError(Te, err)
	T2, err := ParseTBDM(strings.NewReader(tbdmText(2, wavy)), 0)
	require.NoError(Te, err)
	assert.Equal(Te, T2.Coeff, T.Coeff)
}

func TestNormalizeOrbitals(Te *testing.T) {
	S := NewSampleField(1, 2, 4)
	copy(S.Data, []float64{1, 1, 1, 1, 0, 2, 0, 0})
	norms, err := NormalizeOrbitals(S, 0.25)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{1, 1}, norms, 1e-15)
	S = NewSampleField(1, 1, 2)
	copy(S.Data, []float64{3, 4})
	norms, err = NormalizeOrbitals(S, 1)
	require.NoError(Te, err)
	assert.InDelta(Te, 5, norms[0], 1e-14)
	assert.InDeltaSlice(Te, []float64{0.6, 0.8}, S.Data, 1e-15)
	_, err = NormalizeOrbitals(NewSampleField(1, 1, 3), 1)
	assert.ErrorIs(Te, err, ErrPrecondition)
}

//TestTBDMFields compares against a direct evaluation of the sums.
func TestTBDMFields(Te *testing.T) {
	const n, npts = 3, 5
	T, err := ParseTBDM(strings.NewReader(tbdmText(n, wavy)), 0)
	require.NoError(Te, err)
	S := NewSampleField(1, n, npts)
	for i := range S.Data {
		S.Data[i] = math.Cos(float64(i) * 0.7)
	}
	ref := []float64{0.3, -0.8, 0.5}
	fields, stats := TBDMFields(S, ref, T)
	g := func(i, p int) float64 { return S.At(0, i, p) }
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			base := 0.0
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					for k := 0; k < 2; k++ {
						for m := 0; m < n; m++ {
							base += T.Coeff[k][s1].At(m, i, m, j) / 2 * ref[i] * ref[j]
						}
					}
				}
			}
			for p := 0; p < npts; p++ {
				tb, ob := 0.0, 0.0
				for i := 0; i < n; i++ {
					for j := 0; j < n; j++ {
						for k := 0; k < n; k++ {
							for l := 0; l < n; l++ {
								tb += T.Coeff[s1][s2].At(i, j, k, l) * ref[i] * ref[k] * g(j, p) * g(l, p)
							}
						}
						for k := 0; k < 2; k++ {
							for m := 0; m < n; m++ {
								ob += T.Coeff[k][s2].At(m, i, m, j) / 2 * g(i, p) * g(j, p)
							}
						}
					}
				}
				want := tb/base - ob
				assert.InDelta(Te, want, fields[s1][s2][p], 1e-10*math.Max(1, math.Abs(want)), "%s point %d", SpinPairs[s1][s2], p)
				assert.LessOrEqual(Te, stats.Min, fields[s1][s2][p])
				assert.GreaterOrEqual(Te, stats.Max, fields[s1][s2][p])
			}
		}
	}
}

func TestPlotTBDM(Te *testing.T) {
	dir := Te.TempDir()
	runid := filepath.Join(dir, "t")
	geom := &fakeGeom{pos: [][3]float64{{0, 0, 0}}, charges: []float64{2}}
	G, err := NewGrid(0.5, []float64{-1, 1, -1, 1, -1, 1}, geom)
	require.NoError(Te, err)
	ev := newFakeReal(2)
	S, _, _, err := Sample(context.Background(), G, ev, false, seq(2), nil)
	require.NoError(Te, err)
	T, err := ParseTBDM(strings.NewReader(tbdmText(2, wavy)), 0)
	require.NoError(Te, err)
	refs := [][3]float64{{0, 0, 0}, {0.5, 0, 0}}

	err = PlotTBDM(context.Background(), G, geom, ev, S, seq(2), T, refs, runid, "", 1, nil)
	assert.ErrorIs(Te, err, ErrPrecondition)

	require.NoError(Te, PlotTBDM(context.Background(), G, geom, ev, S, seq(2), T, refs, runid, "", 0, nil))
	for i := range refs {
		for s1 := 0; s1 < 2; s1++ {
			for s2 := 0; s2 < 2; s2++ {
				name := TBDMFileName(runid, i, s1, s2)
				assert.Equal(Te, fmt.Sprintf("%stbdm%d%s.cube", runid, i, SpinPairs[s1][s2]), name)
				H, values, err := cube.ReadFile(name)
				require.NoError(Te, err)
				assert.Equal(Te, "TBDM", strings.TrimSpace(H.Comment))
				//the reference point is an extra atom with charge 1.
				require.Equal(Te, 2, H.NAtoms())
				assert.Equal(Te, []float64{2, 1}, H.Charges)
				assert.InDeltaSlice(Te, refs[i][:], H.Coords.Vec(nil, 1), 1e-12)
				assert.Len(Te, values, G.NPoints())
			}
		}
	}
	_, err = os.Stat(TBDMFileName(runid, 2, 0, 0))
	assert.True(Te, os.IsNotExist(err))
}
