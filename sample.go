/*
 * sample.go, part of orbplot.
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
	"context"
	"io"
	"math"
	"math/cmplx"

	"github.com/sirupsen/logrus"
)

//Options contains the options for sampling orbitals and running plots.
type Options struct {
	electron int
	log      logrus.FieldLogger
}

//DefaultOptions returns an Options with the default values. The default
//logger discards everything.
func DefaultOptions() *Options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Options{electron: 0, log: l}
}

//Electron returns the index of the electron moved through the grid, and sets it
//if a valid value is given.
func (O *Options) Electron(e ...int) int {
	ret := O.electron
	if len(e) > 0 && e[0] >= 0 {
		O.electron = e[0]
	}
	return ret
}

//Log returns the logger in use and sets it, if a non-nil one is given.
func (O *Options) Log(l ...logrus.FieldLogger) logrus.FieldLogger {
	ret := O.log
	if len(l) > 0 && l[0] != nil {
		O.log = l[0]
	}
	return ret
}

//SampleField holds the sampled values of a set of orbitals, in a flat buffer with
//shape (NComp, NOrb, NPts). NComp is 1 for real orbitals and 2 for complex
//ones (real and imaginary parts). Points follow the numbering of the Grid.
type SampleField struct {
	NComp int
	NOrb  int
	NPts  int
	Data  []float64
}

//NewSampleField returns a zeroed SampleField with the given shape.
func NewSampleField(ncomp, norb, npts int) *SampleField {
	return &SampleField{NComp: ncomp, NOrb: norb, NPts: npts, Data: make([]float64, ncomp*norb*npts)}
}

//Index returns the position in S.Data of the given element.
func (S *SampleField) Index(comp, orb, p int) int {
	return (comp*S.NOrb+orb)*S.NPts + p
}

func (S *SampleField) At(comp, orb, p int) float64 { return S.Data[S.Index(comp, orb, p)] }

func (S *SampleField) Set(comp, orb, p int, v float64) { S.Data[S.Index(comp, orb, p)] = v }

//Values returns a view of the values of one component of one orbital
//over the whole grid.
func (S *SampleField) Values(comp, orb int) []float64 {
	i := S.Index(comp, orb, 0)
	return S.Data[i : i+S.NPts]
}

//MB returns the memory used by the values of one orbital, in MB.
func (S *SampleField) MB() float64 {
	return float64(S.NComp*S.NPts*8) / (1024 * 1024)
}

//SampleStats contains diagnostics collected while sampling.
type SampleStats struct {
	//MaxAtBoundary is the largest absolute value found at the last point
	//of any axis. A large value means the box is too small for the orbitals.
	//It is always zero for periodic grids.
	MaxAtBoundary float64
}

//Sample evaluates the orbitals orbs (0-based) at every point of G, by moving one electron
//through the grid. If cplx is true, ev must be a ComplexEvaluator and the field has real
//and imaginary components; otherwise ev must be a RealEvaluator.
//It returns the values and the density of the sampled orbitals, i.e. the sum of their
//squared absolute values at each point. ctx is checked once for each x index.
func Sample(ctx context.Context, G *Grid, ev Evaluator, cplx bool, orbs []int, O *Options) (*SampleField, []float64, SampleStats, error) {
	var stats SampleStats
	if O == nil {
		O = DefaultOptions()
	}
	ncomp := 1
	var rev RealEvaluator
	var cev ComplexEvaluator
	var ok bool
	if cplx {
		ncomp = 2
		if cev, ok = ev.(ComplexEvaluator); !ok {
			return nil, nil, stats, newError(ErrPrecondition, "Sample", "evaluator %T can't give complex values", ev)
		}
	} else if rev, ok = ev.(RealEvaluator); !ok {
		return nil, nil, stats, newError(ErrPrecondition, "Sample", "evaluator %T can't give real values", ev)
	}
	log := O.Log()
	elec := O.Electron()
	npts := G.NPoints()
	S := NewSampleField(ncomp, len(orbs), npts)
	log.WithFields(logrus.Fields{"MB_per_orbital": S.MB(), "MB_total": S.MB() * float64(len(orbs)), "orbitals": len(orbs)}).Info("allocated memory for the orbital grids")
	dens := make([]float64, npts)
	vals := make([]float64, len(orbs))
	var cvals []complex128
	if cev != nil {
		cvals = make([]complex128, len(orbs))
	}
	pos := make([]float64, 3)
	nslab := G.Counts[1] * G.Counts[2]
	for x := 0; x < G.Counts[0]; x++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, stats, errDecorate(err, "Sample", ErrPrecondition)
		}
		slabmax := 0.0
		for p := x * nslab; p < (x+1)*nslab; p++ {
			ev.SetElectronPos(elec, G.Point(p, pos))
			border := !G.Periodic && G.OnBoundary(p)
			if rev != nil {
				rev.UpdateVal(elec, orbs, vals)
				for i, v := range vals {
					S.Set(0, i, p, v)
					dens[p] += v * v
					if border && math.Abs(v) > slabmax {
						slabmax = math.Abs(v)
					}
				}
				continue
			}
			cev.UpdateCVal(elec, orbs, cvals)
			for i, v := range cvals {
				S.Set(0, i, p, real(v))
				S.Set(1, i, p, imag(v))
				dens[p] += real(v)*real(v) + imag(v)*imag(v)
				if a := cmplx.Abs(v); border && a > slabmax {
					slabmax = a
				}
			}
		}
		if slabmax > stats.MaxAtBoundary {
			stats.MaxAtBoundary = slabmax
		}
		log.WithFields(logrus.Fields{"x": x, "max_at_boundary": slabmax}).Debugf("%.0f%% of plot done", 100*float64(x+1)/float64(G.Counts[0]))
	}
	if !G.Periodic {
		log.WithField("max_at_boundary", stats.MaxAtBoundary).Info("largest orbital value at the border of the box")
	}
	return S, dens, stats, nil
}
