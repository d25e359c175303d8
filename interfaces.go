/*
 * interfaces.go, part of orbplot.
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

import v3 "github.com/rmera/orbplot/v3"

//Geometry gives the ions and, for periodic systems, the cell of the system.
type Geometry interface {
	NIons() int

	//IonPos puts the position of the ith ion in dst, which is allocated if nil,
	//and returns it.
	IonPos(i int, dst []float64) []float64

	IonCharge(i int) float64

	//Bounds returns the lattice vectors of the cell, one per row, and its origin.
	//ok is false for non-periodic systems.
	Bounds() (lattice *v3.Matrix, origin []float64, ok bool)
}

//Evaluator is the part of an orbital evaluator shared by the real and the
//complex ones. Orbitals are evaluated at the position of one electron.
type Evaluator interface {
	//NMO returns the total number of orbitals available.
	NMO() int

	//SetElectronPos moves the electron e to pos.
	SetElectronPos(e int, pos []float64)
}

//RealEvaluator gives real orbital values.
type RealEvaluator interface {
	Evaluator

	//UpdateVal puts in vals[i] the value of the orbital orbs[i] (0-based)
	//at the position of electron e.
	UpdateVal(e int, orbs []int, vals []float64)
}

//ComplexEvaluator gives complex orbital values.
type ComplexEvaluator interface {
	Evaluator
	UpdateCVal(e int, orbs []int, vals []complex128)
}

//System is a Geometry that can also build the orbital evaluators, from
//the content of the ORBITALS or CORBITALS section of the plot input.
type System interface {
	Geometry
	RealOrbitals(section []string) (RealEvaluator, error)
	ComplexOrbitals(section []string) (ComplexEvaluator, error)
}
