/*
 * plan.go, part of orbplot.
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
	"fmt"
	"strings"

	"github.com/rmera/orbplot/cube"
	"github.com/rmera/orbplot/input"
)

//DefaultResolution is the grid spacing used when RESOLUTION is not given.
const DefaultResolution = 0.2

//Plan is what a plot input asks for. It is obtained with ParsePlan.
type Plan struct {
	Complex      bool     //CORBITALS was given instead of ORBITALS.
	OrbSection   []string //content of the ORBITALS/CORBITALS section.
	Resolution   float64
	Dialect      cube.Dialect //Jeep if JEEP_CUBE is present.
	Periodic     bool         //as requested. The grid decides in the end.
	PlotOrbitals []int        //1-based. nil means all the orbitals.
	MinMax       []float64    //nil if not given.
	TBDMCoeff    string       //TBDM coefficient file, empty if none.
	TBDMRef      [][3]float64
	Profile      int    //axis for the density profile, -1 for none.
	Compress     string //suffix added to every cube file name, "" for none.
}

//ParsePlan reads a Plan from the words of a plot input.
func ParsePlan(words []string) (*Plan, error) {
	P := &Plan{Resolution: DefaultResolution, Profile: -1}
	var okr, okc bool
	P.OrbSection, _, okr = input.ReadSection(words, 0, "ORBITALS")
	csec, _, okc := input.ReadSection(words, 0, "CORBITALS")
	switch {
	case okr && okc:
		return nil, newError(ErrConfig, "ParsePlan", "only one of ORBITALS and CORBITALS can be given")
	case okc:
		P.Complex = true
		P.OrbSection = csec
	case !okr:
		return nil, newError(ErrConfig, "ParsePlan", "need ORBITALS or CORBITALS")
	}
	res, ok, err := input.ReadFloat(words, 0, "RESOLUTION")
	if err != nil {
		return nil, newError(ErrConfig, "ParsePlan", "%s", err)
	}
	if ok {
		if res <= 0 {
			return nil, newError(ErrConfig, "ParsePlan", "RESOLUTION must be positive, got %g", res)
		}
		P.Resolution = res
	}
	if input.HasKeyword(words, 0, "JEEP_CUBE") {
		P.Dialect = cube.Jeep
	}
	P.Periodic = input.HasKeyword(words, 0, "PERIODIC")
	if sec, _, ok := input.ReadSection(words, 0, "PLOTORBITALS"); ok {
		if P.PlotOrbitals, err = input.Ints(sec); err != nil {
			return nil, newError(ErrConfig, "ParsePlan", "PLOTORBITALS: %s", err)
		}
		for _, o := range P.PlotOrbitals {
			if o < 1 {
				return nil, newError(ErrConfig, "ParsePlan", "PLOTORBITALS: orbital %d, indexes start at 1", o)
			}
		}
	}
	if sec, _, ok := input.ReadSection(words, 0, "MINMAX"); ok {
		if P.MinMax, err = input.Floats(sec); err != nil {
			return nil, newError(ErrConfig, "ParsePlan", "MINMAX: %s", err)
		}
		if len(P.MinMax) != 6 {
			return nil, newError(ErrConfig, "ParsePlan", "MINMAX needs 6 numbers, got %d", len(P.MinMax))
		}
	}
	if P.TBDMCoeff, _, ok = input.ReadString(words, 0, "TBDM_COEFF"); ok {
		sec, _, ok := input.ReadSection(words, 0, "TBDM_R")
		if !ok {
			return nil, newError(ErrConfig, "ParsePlan", "TBDM_COEFF needs TBDM_R")
		}
		r, err := input.Floats(sec)
		if err != nil {
			return nil, newError(ErrConfig, "ParsePlan", "TBDM_R: %s", err)
		}
		if len(r)%3 != 0 || len(r) == 0 {
			return nil, newError(ErrConfig, "ParsePlan", "TBDM_R needs a multiple of 3 numbers, got %d", len(r))
		}
		for i := 0; i < len(r); i += 3 {
			P.TBDMRef = append(P.TBDMRef, [3]float64{r[i], r[i+1], r[i+2]})
		}
	}
	if ax, _, ok := input.ReadString(words, 0, "PROFILE"); ok {
		if P.Profile = strings.Index("xyz", strings.ToLower(ax)); P.Profile < 0 || len(ax) != 1 {
			return nil, newError(ErrConfig, "ParsePlan", "PROFILE must be x, y or z, got %q", ax)
		}
	}
	if c, _, ok := input.ReadString(words, 0, "COMPRESS"); ok {
		switch strings.ToLower(c) {
		case "zst", "gz":
			P.Compress = "." + strings.ToLower(c)
		default:
			return nil, newError(ErrConfig, "ParsePlan", "COMPRESS must be zst or gz, got %q", c)
		}
	}
	return P, nil
}

//Orbitals returns the 0-based indexes of the orbitals to plot, given that
//nmo orbitals are available. It is an error to ask for more than that.
func (P *Plan) Orbitals(nmo int) ([]int, error) {
	if P.PlotOrbitals == nil {
		ret := make([]int, nmo)
		for i := range ret {
			ret[i] = i
		}
		return ret, nil
	}
	ret := make([]int, len(P.PlotOrbitals))
	for i, o := range P.PlotOrbitals {
		if o > nmo {
			return nil, newError(ErrConfig, "Orbitals", "Too high orbital requested in PLOTORBITALS (%d of %d). Try increasing NORB", o, nmo)
		}
		ret[i] = o - 1
	}
	return ret, nil
}

//NComp returns the number of components of each orbital value, 1 or 2.
func (P *Plan) NComp() int {
	if P.Complex {
		return 2
	}
	return 1
}

//String returns a summary of the plan, suitable for logging.
func (P *Plan) String() string {
	var b strings.Builder
	mode := "real"
	if P.Complex {
		mode = "complex"
	}
	fmt.Fprintf(&b, "%s orbitals, resolution %g, %s cube files", mode, P.Resolution, P.Dialect)
	if P.PlotOrbitals != nil {
		fmt.Fprintf(&b, ", orbitals %v", P.PlotOrbitals)
	} else {
		b.WriteString(", all orbitals")
	}
	if P.MinMax != nil {
		fmt.Fprintf(&b, ", box %v", P.MinMax)
	}
	if P.TBDMCoeff != "" {
		fmt.Fprintf(&b, ", TBDM from %s at %d points", P.TBDMCoeff, len(P.TBDMRef))
	}
	if P.Profile >= 0 {
		fmt.Fprintf(&b, ", %c profile", "xyz"[P.Profile])
	}
	return b.String()
}
