/*
 * tbdm.go, part of orbplot.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package orbplot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/rmera/orbplot/cube"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

//SpinPairs gives the names of the spin channel pairs, indexed by the spin
//of the first and the second electron (0 is up, 1 is down).
var SpinPairs = [2][2]string{{"uu", "ud"}, {"du", "dd"}}

//Tensor4 is a 4-index tensor with all its dimensions equal to N, stored
//with the last index running fastest.
type Tensor4 struct {
	N    int
	Data []float64
}

//NewTensor4 returns a zero NxNxNxN tensor.
func NewTensor4(n int) *Tensor4 {
	return &Tensor4{N: n, Data: make([]float64, n*n*n*n)}
}

func (T *Tensor4) Index(i, j, k, l int) int {
	return ((i*T.N+j)*T.N+k)*T.N + l
}

func (T *Tensor4) At(i, j, k, l int) float64 { return T.Data[T.Index(i, j, k, l)] }

func (T *Tensor4) Set(i, j, k, l int, v float64) { T.Data[T.Index(i, j, k, l)] = v }

//Trace returns the sum of the elements [i,j,i,j] of T.
func (T *Tensor4) Trace() float64 {
	var t float64
	for i := 0; i < T.N; i++ {
		for j := 0; j < T.N; j++ {
			t += T.At(i, j, i, j)
		}
	}
	return t
}

//TBDM contains the coefficients of a two-body density matrix in the basis of
//N orbitals, one tensor per spin pair. Each tensor is divided by its trace
//when read, except for tensors with a zero trace, which are left unchanged
//and marked in Unnormalized.
type TBDM struct {
	N            int
	Coeff        [2][2]*Tensor4
	Unnormalized [2][2]bool
}

//MaxTBDMOrbitals is the largest number of orbitals accepted in a TBDM file.
//The four tensors take 32*N^4 bytes.
const MaxTBDMOrbitals = 100

//ReadTBDM reads the TBDM coefficients in the file name, which can be
//compressed with zstd or gzip (see cube.Compression). See ParseTBDM for norb.
func ReadTBDM(name string, norb int) (*TBDM, error) {
	in, err := cube.Open(name)
	if err != nil {
		return nil, errFile(err, "ReadTBDM", name, ErrIO)
	}
	defer in.Close()
	T, err := ParseTBDM(in, norb)
	if err != nil {
		return nil, errFile(err, "ReadTBDM", name, ErrFormat)
	}
	return T, nil
}

//ParseTBDM reads TBDM coefficients from r. The data starts with the word "norb" followed
//by the number of orbitals N. Then come N^4 lines, with the indexes i, j, k, l
//of the coefficients running from the slowest to the fastest. Each line has the
//coefficients for the uu, ud, du and dd spin pairs.
//If norb > 0, N must be equal to norb. In any case, N can't be larger than MaxTBDMOrbitals.
func ParseTBDM(r io.Reader, norb int) (*TBDM, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}
	if w, ok := next(); !ok || w != "norb" {
		return nil, newError(ErrFormat, "ParseTBDM", "TBDM coefficients must start with 'norb'")
	}
	w, _ := next()
	n, err := strconv.Atoi(w)
	if err != nil || n < 1 {
		return nil, newError(ErrFormat, "ParseTBDM", "bad number of orbitals %q", w)
	}
	if n > MaxTBDMOrbitals {
		return nil, newError(ErrFormat, "ParseTBDM", "%d orbitals in the TBDM, the maximum is %d", n, MaxTBDMOrbitals)
	}
	if norb > 0 && n != norb {
		return nil, newError(ErrFormat, "ParseTBDM", "TBDM for %d orbitals, but %d orbitals are plotted", n, norb)
	}
	T := &TBDM{N: n}
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			T.Coeff[s1][s2] = NewTensor4(n)
		}
	}
	for p := 0; p < n*n*n*n; p++ {
		for s := 0; s < 4; s++ {
			w, ok := next()
			if !ok {
				if err := sc.Err(); err != nil {
					return nil, newError(ErrIO, "ParseTBDM", "%s", err)
				}
				return nil, newError(ErrFormat, "ParseTBDM", "data ends after %d of %d coefficient lines", p, n*n*n*n)
			}
			v, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return nil, newError(ErrFormat, "ParseTBDM", "coefficient line %d: %s", p, err)
			}
			T.Coeff[s/2][s%2].Data[p] = v
		}
	}
	T.normalize()
	return T, nil
}

func (T *TBDM) normalize() {
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			tr := T.Coeff[s1][s2].Trace()
			if tr == 0 {
				T.Unnormalized[s1][s2] = true
				continue
			}
			floats.Scale(1/tr, T.Coeff[s1][s2].Data)
		}
	}
}

//OBDM returns the one-body density matrix for each spin, as NxN matrices stored
//by rows. obdm(s2)[j,l] = 1/2 sum over s1 and i of T(s1,s2)[i,j,i,l].
func (T *TBDM) OBDM() [2][]float64 {
	n := T.N
	var obdm [2][]float64
	for s2 := 0; s2 < 2; s2++ {
		obdm[s2] = make([]float64, n*n)
		for s1 := 0; s1 < 2; s1++ {
			C := T.Coeff[s1][s2]
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					for l := 0; l < n; l++ {
						obdm[s2][j*n+l] += C.At(i, j, i, l) / 2
					}
				}
			}
		}
	}
	return obdm
}

//Partial contracts each tensor with the orbital values at the reference point:
//partial(s1,s2)[j,l] = sum over i and k of T(s1,s2)[i,j,k,l]*ref[i]*ref[k].
func (T *TBDM) Partial(ref []float64) [2][2][]float64 {
	n := T.N
	var ret [2][2][]float64
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			C := T.Coeff[s1][s2]
			P := make([]float64, n*n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					for k := 0; k < n; k++ {
						f := ref[i] * ref[k]
						if f == 0 {
							continue
						}
						for l := 0; l < n; l++ {
							P[j*n+l] += C.At(i, j, k, l) * f
						}
					}
				}
			}
			ret[s1][s2] = P
		}
	}
	return ret
}

//quad returns sum over i and j of M[i,j]*a[i]*b[j], for a NxN M stored by rows.
func quad(M []float64, a, b []float64) float64 {
	n := len(a)
	var ret float64
	for i := 0; i < n; i++ {
		ret += a[i] * floats.Dot(M[i*n:(i+1)*n], b)
	}
	return ret
}

//NormalizeOrbitals divides the values of each (real) orbital in S by its norm on the grid,
//sqrt(vol * sum of the squared values), where vol is the volume of a grid point.
//It returns the norms. An orbital that is zero everywhere can't be normalized.
func NormalizeOrbitals(S *SampleField, vol float64) ([]float64, error) {
	norms := make([]float64, S.NOrb)
	for i := range norms {
		v := S.Values(0, i)
		norms[i] = math.Sqrt(vol * floats.Dot(v, v))
		if norms[i] == 0 {
			return nil, newError(ErrPrecondition, "NormalizeOrbitals", "orbital %d is zero on the whole grid", i)
		}
	}
	for i, n := range norms {
		floats.Scale(1/n, S.Values(0, i))
	}
	return norms, nil
}

//TBDMStats summarizes the fields produced for one reference point.
type TBDMStats struct {
	Min, Max float64
	//Sums over the grid of the one-body density and of the scaled
	//pair density, for each spin pair. Multiply by the point volume
	//to obtain the integrals.
	OneBody, TwoBody [2][2]float64
}

//TBDMFields computes, for each spin pair, the pair density excess at every point
//of the grid, given that one electron is at a reference point where the orbitals have the values ref.
//Both S and ref must be normalized (see NormalizeOrbitals).
//For the pair s1,s2 the value at p is
//  sum_ij partial(s1,s2)[i,j]*g(i,p)*g(j,p)/base(s1) - sum_ij obdm(s2)[i,j]*g(i,p)*g(j,p)
//where g are the orbital values and base(s) = sum_ij obdm(s)[i,j]*ref[i]*ref[j] is
//the one-body density at the reference point.
func TBDMFields(S *SampleField, ref []float64, T *TBDM) ([2][2][]float64, TBDMStats) {
	n := T.N
	partial := T.Partial(ref)
	obdm := T.OBDM()
	var base [2]float64
	for s := 0; s < 2; s++ {
		base[s] = quad(obdm[s], ref, ref)
	}
	stats := TBDMStats{Min: math.Inf(1), Max: math.Inf(-1)}
	var ret [2][2][]float64
	g := make([]float64, n)
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			f := make([]float64, S.NPts)
			for p := range f {
				for i := 0; i < n; i++ {
					g[i] = S.Data[S.Index(0, i, p)]
				}
				tb := quad(partial[s1][s2], g, g)
				ob := quad(obdm[s2], g, g)
				stats.OneBody[s1][s2] += ob
				stats.TwoBody[s1][s2] += tb / base[s1]
				f[p] = tb/base[s1] - ob
			}
			stats.Min = math.Min(stats.Min, floats.Min(f))
			stats.Max = math.Max(stats.Max, floats.Max(f))
			ret[s1][s2] = f
		}
	}
	return ret, stats
}

//TBDMFileName returns the name of the cube file for the reference point i and the
//spin pair s1,s2.
func TBDMFileName(runid string, i, s1, s2 int) string {
	return fmt.Sprintf("%stbdm%d%s.cube", runid, i, SpinPairs[s1][s2])
}

//PlotTBDM writes the TBDM cube files for each reference point in refs. S contains the
//values of the orbitals orbs, sampled on G, and is normalized in place. The same norms
//are used for the orbital values at every reference point. Only rank 0 can plot the TBDM,
//and only for real orbitals, all of them sampled by rank 0.
func PlotTBDM(ctx context.Context, G *Grid, geom Geometry, ev RealEvaluator, S *SampleField, orbs []int, T *TBDM, refs [][3]float64, runid, suffix string, rank int, O *Options) error {
	if O == nil {
		O = DefaultOptions()
	}
	switch {
	case rank != 0:
		return newError(ErrPrecondition, "PlotTBDM", "the TBDM can only be plotted by node 0, not by node %d", rank)
	case S.NComp != 1:
		return newError(ErrPrecondition, "PlotTBDM", "the TBDM can't be plotted for complex orbitals")
	case T.N != S.NOrb || len(orbs) != S.NOrb:
		return newError(ErrPrecondition, "PlotTBDM", "TBDM for %d orbitals, but %d orbitals were sampled", T.N, S.NOrb)
	}
	log := O.Log()
	for s1 := 0; s1 < 2; s1++ {
		for s2 := 0; s2 < 2; s2++ {
			if T.Unnormalized[s1][s2] {
				log.WithField("spins", SpinPairs[s1][s2]).Warn("TBDM coefficients with zero trace were not normalized")
			}
		}
	}
	vol := G.Volume()
	norms, err := NormalizeOrbitals(S, vol)
	if err != nil {
		return errDecorate(err, "PlotTBDM", ErrPrecondition)
	}
	elec := O.Electron()
	ref := make([]float64, len(orbs))
	for i, r := range refs {
		if err := ctx.Err(); err != nil {
			return errDecorate(err, "PlotTBDM", ErrPrecondition)
		}
		ev.SetElectronPos(elec, r[:])
		ev.UpdateVal(elec, orbs, ref)
		floats.Div(ref, norms)
		fields, st := TBDMFields(S, ref, T)
		H := G.Header(Title, "TBDM", geom, r)
		for s1 := 0; s1 < 2; s1++ {
			for s2 := 0; s2 < 2; s2++ {
				name := TBDMFileName(runid, i, s1, s2) + suffix
				if err := cube.WriteFile(name, H, fields[s1][s2], cube.Gaussian); err != nil {
					return errFile(err, "PlotTBDM", name, ErrIO)
				}
				log.WithFields(logrus.Fields{"one_body": st.OneBody[s1][s2] * vol, "two_body": st.TwoBody[s1][s2] * vol}).Debugf("norms for %s", name)
			}
		}
		log.WithFields(logrus.Fields{"min": st.Min, "max": st.Max, "range": st.Max - st.Min}).Infof("%stbdm%d: TBDM around %v", runid, i, r)
	}
	return nil
}
