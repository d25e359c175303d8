/*
 * grid.go, part of orbplot.
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
	"math"

	"github.com/rmera/orbplot/cube"
	v3 "github.com/rmera/orbplot/v3"
)

//IonMargin is the space left between the outermost ions and the border
//of a non-periodic grid built from the ion positions.
const IonMargin = 4.0

//Grid is a regular 3D grid of points. Points are numbered with the
//z index running fastest and the x index slowest. A Grid is built with NewGrid
//and should not be modified afterwards.
type Grid struct {
	Origin     [3]float64
	Periodic   bool
	Lattice    *v3.Matrix //nil for non-periodic grids.
	MinMax     [6]float64 //xmin, xmax, ymin, ymax, zmin, zmax
	Resolution float64
	Counts     [3]int
	Step       *v3.Matrix //displacement between consecutive points, one row per axis.
}

//axisCount returns the number of points for an axis of the given length.
func axisCount(length, resolution float64) int {
	n := int(math.Round(length / resolution))
	if n < 1 {
		n = 1
	}
	return n
}

//NewGrid builds a grid with the given resolution. If minmax is not nil,
//it is the box of the grid, which is not periodic. Otherwise the grid covers
//the cell of geom if the system is periodic, or the box containing all the
//ions of geom, plus IonMargin at each side. The ion box only spans the ions,
//it doesn't necessarily contain the coordinate origin.
func NewGrid(resolution float64, minmax []float64, geom Geometry) (*Grid, error) {
	if resolution <= 0 {
		return nil, newError(ErrConfig, "NewGrid", "resolution must be positive, got %g", resolution)
	}
	G := &Grid{Resolution: resolution, Step: v3.Zeros(3)}
	if minmax != nil {
		if len(minmax) != 6 {
			return nil, newError(ErrConfig, "NewGrid", "MINMAX needs 6 values, got %d", len(minmax))
		}
		copy(G.MinMax[:], minmax)
		if err := G.box(); err != nil {
			return nil, err
		}
		return G, nil
	}
	if lat, origin, ok := geom.Bounds(); ok {
		if lat == nil || lat.NVecs() != 3 || len(origin) < 3 {
			return nil, newError(ErrConfig, "NewGrid", "the cell of a periodic system needs 3 lattice vectors and an origin")
		}
		G.Periodic = true
		G.Lattice = lat
		copy(G.Origin[:], origin)
		sum := lat.SumVecs(nil)
		row := make([]float64, 3)
		for d := 0; d < 3; d++ {
			G.MinMax[2*d] = origin[d]
			G.MinMax[2*d+1] = origin[d] + sum[d]
			G.Counts[d] = axisCount(lat.VecNorm(d), resolution)
			lat.Vec(row, d)
			for k := range row {
				row[k] /= float64(G.Counts[d])
			}
			G.Step.SetVec(d, row)
		}
		return G, nil
	}
	pos := make([]float64, 3)
	for i := 0; i < geom.NIons(); i++ {
		geom.IonPos(i, pos)
		for d := 0; d < 3; d++ {
			if i == 0 || pos[d] < G.MinMax[2*d] {
				G.MinMax[2*d] = pos[d]
			}
			if i == 0 || pos[d] > G.MinMax[2*d+1] {
				G.MinMax[2*d+1] = pos[d]
			}
		}
	}
	for d := 0; d < 3; d++ {
		G.MinMax[2*d] -= IonMargin
		G.MinMax[2*d+1] += IonMargin
	}
	if err := G.box(); err != nil {
		return nil, err
	}
	return G, nil
}

//box sets the counts and the diagonal step of a non-periodic grid from
//MinMax. An axis with only one point gets the whole range as its step, so the
//volume of a point is still the volume of the box.
func (G *Grid) box() error {
	for d := 0; d < 3; d++ {
		r := G.MinMax[2*d+1] - G.MinMax[2*d]
		if r < 0 {
			return newError(ErrConfig, "NewGrid", "axis %d has its maximum (%g) below its minimum (%g)", d, G.MinMax[2*d+1], G.MinMax[2*d])
		}
		G.Origin[d] = G.MinMax[2*d]
		G.Counts[d] = axisCount(r, G.Resolution)
		if G.Counts[d] > 1 {
			r /= float64(G.Counts[d] - 1)
		}
		G.Step.Set(d, d, r)
	}
	return nil
}

//NPoints returns the total number of points in the grid.
func (G *Grid) NPoints() int {
	return G.Counts[0] * G.Counts[1] * G.Counts[2]
}

//Index returns the linear index of the point x,y,z.
func (G *Grid) Index(x, y, z int) int {
	return (x*G.Counts[1]+y)*G.Counts[2] + z
}

//Indexes returns the x, y and z indexes of the point with linear index p.
func (G *Grid) Indexes(p int) [3]int {
	nyz := G.Counts[1] * G.Counts[2]
	return [3]int{p / nyz, (p / G.Counts[2]) % G.Counts[1], p % G.Counts[2]}
}

//Point puts in dst (allocated if nil) the position of the point with
//linear index p, and returns it.
func (G *Grid) Point(p int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, 3)
	}
	idx := G.Indexes(p)
	if !G.Periodic {
		for d := 0; d < 3; d++ {
			dst[d] = G.MinMax[2*d] + float64(idx[d])*G.Step.At(d, d)
		}
		return dst
	}
	for k := 0; k < 3; k++ {
		dst[k] = G.Origin[k]
		for d := 0; d < 3; d++ {
			dst[k] += float64(idx[d]) * G.Step.At(d, k)
		}
	}
	return dst
}

//Volume returns the volume of the parallelepiped spanned by the steps of the grid,
//i.e. the volume that corresponds to each point.
func (G *Grid) Volume() float64 {
	return math.Abs(G.Step.Det())
}

//OnBoundary returns true if the point p has the last index along some axis.
func (G *Grid) OnBoundary(p int) bool {
	idx := G.Indexes(p)
	for d, i := range idx {
		if i == G.Counts[d]-1 {
			return true
		}
	}
	return false
}

//Header returns a cube header for the grid, with the ions of geom as atoms.
//The extra points are added as atoms with charge 1.
func (G *Grid) Header(title, comment string, geom Geometry, extra ...[3]float64) *cube.Header {
	H := &cube.Header{Title: title, Comment: comment, Counts: G.Counts, Step: G.Step}
	for d := 0; d < 3; d++ {
		H.Origin[d] = G.MinMax[2*d]
		H.Extent[d] = G.MinMax[2*d+1] - G.MinMax[2*d]
	}
	natoms := geom.NIons() + len(extra)
	if natoms == 0 {
		return H
	}
	H.Coords = v3.Zeros(natoms)
	H.Charges = make([]float64, natoms)
	pos := make([]float64, 3)
	for i := 0; i < geom.NIons(); i++ {
		H.Coords.SetVec(i, geom.IonPos(i, pos))
		H.Charges[i] = geom.IonCharge(i)
	}
	for i, e := range extra {
		H.Coords.SetVec(geom.NIons()+i, e[:])
		H.Charges[geom.NIons()+i] = 1
	}
	return H
}

func (G *Grid) String() string {
	kind := "box"
	if G.Periodic {
		kind = "periodic cell"
		if !G.Step.IsDiagonal() {
			kind = "skewed periodic cell"
		}
	}
	return fmt.Sprintf("%s x: %g %g y: %g %g z: %g %g, %dx%dx%d points (%d)", kind,
		G.MinMax[0], G.MinMax[1], G.MinMax[2], G.MinMax[3], G.MinMax[4], G.MinMax[5],
		G.Counts[0], G.Counts[1], G.Counts[2], G.NPoints())
}
