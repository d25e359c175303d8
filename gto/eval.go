/*
 * eval.go, part of orbplot.
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

package gto

import (
	"fmt"
	"math"

	"github.com/rmera/orbplot"
)

//images returns the translations to apply to each primitive: only the
//zero vector for non-periodic systems, and the 27 combinations of -1, 0 and 1
//times each cell vector for periodic ones.
func (S *System) images() [][3]float64 {
	if len(S.Lattice) != 3 {
		return [][3]float64{{0, 0, 0}}
	}
	ret := make([][3]float64, 0, 27)
	for a := -1; a <= 1; a++ {
		for b := -1; b <= 1; b++ {
			for c := -1; c <= 1; c++ {
				var t [3]float64
				for k := 0; k < 3; k++ {
					t[k] = float64(a)*S.Lattice[0][k] + float64(b)*S.Lattice[1][k] + float64(c)*S.Lattice[2][k]
				}
				ret = append(ret, t)
			}
		}
	}
	return ret
}

//evaluator keeps the electron positions and evaluates the primitive part of the orbitals.
type evaluator struct {
	sys    *System
	norb   int
	shifts [][3]float64
	pos    map[int][3]float64
}

func newEvaluator(S *System, section []string) (*evaluator, error) {
	n, err := S.norb(section)
	if err != nil {
		return nil, err
	}
	return &evaluator{sys: S, norb: n, shifts: S.images(), pos: make(map[int][3]float64)}, nil
}

//NMO returns the number of orbitals available.
func (E *evaluator) NMO() int { return E.norb }

//SetElectronPos moves the electron e to pos.
func (E *evaluator) SetElectronPos(e int, pos []float64) {
	E.pos[e] = [3]float64{pos[0], pos[1], pos[2]}
}

//primitive returns the value of t, without its coefficient, for the electron at r.
func (E *evaluator) primitive(t Primitive, r [3]float64) float64 {
	c := E.sys.Ions[t.Center].Pos
	var ret float64
	for _, s := range E.shifts {
		poly := 1.0
		r2 := 0.0
		for k := 0; k < 3; k++ {
			d := r[k] - c[k] - s[k]
			r2 += d * d
			if t.Powers[k] > 0 {
				poly *= math.Pow(d, float64(t.Powers[k]))
			}
		}
		ret += poly * math.Exp(-t.Exponent*r2)
	}
	return ret
}

func (E *evaluator) check(orbs []int, nvals int) {
	if nvals < len(orbs) {
		panic(fmt.Sprintf("gto: %d values for %d orbitals", nvals, len(orbs)))
	}
	for _, o := range orbs {
		if o < 0 || o >= E.norb {
			panic(fmt.Sprintf("gto: orbital %d requested, only %d available", o, E.norb))
		}
	}
}

//Real evaluates the real part of the orbitals.
type Real struct {
	*evaluator
}

//UpdateVal puts in vals[i] the value of orbital orbs[i] at the position of electron e.
func (R Real) UpdateVal(e int, orbs []int, vals []float64) {
	R.check(orbs, len(vals))
	r := R.pos[e]
	for i, o := range orbs {
		vals[i] = 0
		for _, t := range R.sys.Orbitals[o].Terms {
			vals[i] += t.Coeff * R.primitive(t, r)
		}
	}
}

//Complex evaluates orbitals with complex coefficients.
type Complex struct {
	*evaluator
}

//UpdateCVal puts in vals[i] the value of orbital orbs[i] at the position of electron e.
func (C Complex) UpdateCVal(e int, orbs []int, vals []complex128) {
	C.check(orbs, len(vals))
	r := C.pos[e]
	for i, o := range orbs {
		vals[i] = 0
		for _, t := range C.sys.Orbitals[o].Terms {
			vals[i] += complex(t.Coeff, t.CoeffIm) * complex(C.primitive(t, r), 0)
		}
	}
}

//RealOrbitals returns an evaluator for the real part of the orbitals. The NORB keyword
//in section limits the orbitals to the first NORB.
func (S *System) RealOrbitals(section []string) (orbplot.RealEvaluator, error) {
	e, err := newEvaluator(S, section)
	if err != nil {
		return nil, err
	}
	return Real{e}, nil
}

//ComplexOrbitals is like RealOrbitals, for complex orbitals.
func (S *System) ComplexOrbitals(section []string) (orbplot.ComplexEvaluator, error) {
	e, err := newEvaluator(S, section)
	if err != nil {
		return nil, err
	}
	return Complex{e}, nil
}
