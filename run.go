/*
 * run.go, part of orbplot.
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
	"fmt"

	"github.com/rmera/orbplot/comm"
	"github.com/rmera/orbplot/cube"
	"github.com/rmera/orbplot/profile"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Title is the first line of every cube file written.
const Title = "orbplot output"

//OrbitalFileName returns the name of the cube file for the orbital orb (0-based). part is
//"" for real orbitals, and "real" or "imag" for the components of complex ones.
func OrbitalFileName(runid string, orb int, part string) string {
	if part != "" {
		part = "." + part
	}
	return fmt.Sprintf("%s.orb%d%s.cube", runid, orb+1, part)
}

//DensityFileName returns the name of the cube file for the total density.
func DensityFileName(runid string) string {
	return runid + ".dens.cube"
}

//Run carries out the plot described by words as the rank c. Every rank
//of the group must call Run with the same arguments. Each rank samples and writes its
//share of the orbitals, then the density is summed over the group and written by rank 0,
//which also writes the geometry and, if requested, the density profile and the TBDM plots.
//Output file names start with runid.
func Run(ctx context.Context, c comm.Communicator, sys System, words []string, runid string, O *Options) error {
	if O == nil {
		O = DefaultOptions()
	}
	rank := c.Rank()
	log := O.Log().WithField("node", rank)
	ro := &Options{electron: O.electron, log: log}
	root := rank == 0

	plan, err := ParsePlan(words)
	if err != nil {
		return errDecorate(err, "Run", ErrConfig)
	}
	if root {
		log.Info(plan.String())
	}
	var ev Evaluator
	var rev RealEvaluator
	if plan.Complex {
		ev, err = sys.ComplexOrbitals(plan.OrbSection)
	} else {
		rev, err = sys.RealOrbitals(plan.OrbSection)
		ev = rev
	}
	if err != nil {
		return errDecorate(err, "Run", ErrConfig)
	}
	orbs, err := plan.Orbitals(ev.NMO())
	if err != nil {
		return errDecorate(err, "Run", ErrConfig)
	}
	var T *TBDM
	if plan.TBDMCoeff != "" {
		if plan.Complex || c.Size() > 1 {
			return newError(ErrPrecondition, "Run", "the TBDM can only be plotted for real orbitals, with a single node")
		}
		if T, err = ReadTBDM(plan.TBDMCoeff, len(orbs)); err != nil {
			return errDecorate(err, "Run", ErrFormat)
		}
	}
	G, err := NewGrid(plan.Resolution, plan.MinMax, sys)
	if err != nil {
		return errDecorate(err, "Run", ErrConfig)
	}
	if plan.Periodic != G.Periodic && root {
		log.Warnf("PERIODIC set to %v, but the grid is %s", plan.Periodic, G)
	}
	plan.Periodic = G.Periodic
	if root {
		log.Info(G.String())
	}
	pc := PartitionContext{Rank: rank, Size: c.Size()}
	local, err := pc.Local(orbs)
	if err != nil {
		return errDecorate(err, "Run", ErrPrecondition)
	}
	log.WithField("orbitals", len(local)).Debugf("plotting orbitals %v", local)
	if root {
		log.WithField("MB_total", float64(G.NPoints()*8*plan.NComp()*len(orbs))/(1024*1024)).Info("memory for all the orbital grids")
		if err := WriteXYZ(runid+".xyz", sys); err != nil {
			return errDecorate(err, "Run", ErrIO)
		}
	}

	S, dens, _, err := Sample(ctx, G, ev, plan.Complex, local, ro)
	if err != nil {
		return errDecorate(err, "Run", ErrPrecondition)
	}
	if err := writeOrbitals(G, sys, S, local, plan, runid, log); err != nil {
		return errDecorate(err, "Run", ErrIO)
	}

	if err := c.AllReduceSum(ctx, dens); err != nil {
		return errDecorate(err, "Run", ErrPrecondition)
	}
	if root {
		if err := writeDensity(G, sys, dens, plan, runid, log); err != nil {
			return errDecorate(err, "Run", ErrIO)
		}
	}
	if err := c.Barrier(ctx); err != nil {
		return errDecorate(err, "Run", ErrPrecondition)
	}
	if T == nil {
		return nil
	}
	if err := PlotTBDM(ctx, G, sys, rev, S, local, T, plan.TBDMRef, runid, plan.Compress, rank, ro); err != nil {
		return errDecorate(err, "Run", ErrPrecondition)
	}
	return nil
}

func writeOrbitals(G *Grid, geom Geometry, S *SampleField, local []int, plan *Plan, runid string, log logrus.FieldLogger) error {
	parts := []string{""}
	if plan.Complex {
		parts = []string{"real", "imag"}
	}
	for i, o := range local {
		H := G.Header(Title, fmt.Sprintf("Molecular orbital %d", o+1), geom)
		for comp, part := range parts {
			name := OrbitalFileName(runid, o, part) + plan.Compress
			log.Infof("storing orbital %d to %s", o+1, name)
			if err := cube.WriteFile(name, H, S.Values(comp, i), plan.Dialect); err != nil {
				return errFile(err, "writeOrbitals", name, ErrIO)
			}
		}
	}
	return nil
}

func writeDensity(G *Grid, geom Geometry, dens []float64, plan *Plan, runid string, log logrus.FieldLogger) error {
	mean, std := stat.MeanStdDev(dens, nil)
	log.WithFields(logrus.Fields{"electrons": floats.Sum(dens) * G.Volume(), "mean": mean, "std": std, "max": floats.Max(dens)}).Info("total density")
	name := DensityFileName(runid) + plan.Compress
	if err := cube.WriteFile(name, G.Header(Title, "Electron density", geom), dens, cube.Gaussian); err != nil {
		return errFile(err, "writeDensity", name, ErrIO)
	}
	if plan.Profile < 0 {
		return nil
	}
	d := plan.Profile
	avg, sd, err := profile.Planar(dens, G.Counts, d)
	if err != nil {
		return errDecorate(err, "writeDensity", ErrPrecondition)
	}
	pos := make([]float64, G.Counts[d])
	step := G.Step.VecNorm(d)
	for k := range pos {
		pos[k] = G.MinMax[2*d] + float64(k)*step
	}
	pname := fmt.Sprintf("%s.dens.%c.png", runid, "xyz"[d])
	if err := profile.Plot(pname, "Planar-averaged density", string("xyz"[d]), pos, avg, sd); err != nil {
		return errFile(err, "writeDensity", pname, ErrIO)
	}
	log.Infof("density profile written to %s", pname)
	return nil
}
