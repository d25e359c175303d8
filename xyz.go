/*
 * xyz.go, part of orbplot.
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
	"fmt"
	"io"
	"math"
	"os"
)

//Labeler is a Geometry that has a label (usually the element symbol) for each ion.
type Labeler interface {
	IonLabel(i int) string
}

//symbols is indexed by atomic number.
var symbols = []string{"X",
	"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr"}

//label returns the label of ion i. Geometries without labels get the symbol of the
//element with the ion charge as atomic number.
func label(geom Geometry, i int) string {
	if l, ok := geom.(Labeler); ok {
		return l.IonLabel(i)
	}
	z := int(math.Round(geom.IonCharge(i)))
	if z < 0 || z >= len(symbols) {
		return symbols[0]
	}
	return symbols[z]
}

//XYZWrite writes the ions of geom to w in XYZ format.
func XYZWrite(w io.Writer, geom Geometry) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%-4d\n\n", geom.NIons())
	pos := make([]float64, 3)
	for i := 0; i < geom.NIons(); i++ {
		geom.IonPos(i, pos)
		fmt.Fprintf(b, "%-2s  %12.6f %12.6f %12.6f\n", label(geom, i), pos[0], pos[1], pos[2])
	}
	if err := b.Flush(); err != nil {
		return newError(ErrIO, "XYZWrite", "%s", err)
	}
	return nil
}

//WriteXYZ writes the ions of geom to an XYZ file with the given name. If the file exists
//it will be overwritten.
func WriteXYZ(name string, geom Geometry) error {
	out, err := os.Create(name)
	if err != nil {
		return errFile(err, "WriteXYZ", name, ErrIO)
	}
	if err = XYZWrite(out, geom); err != nil {
		out.Close()
		return errFile(err, "WriteXYZ", name, ErrIO)
	}
	if err = out.Close(); err != nil {
		return errFile(err, "WriteXYZ", name, ErrIO)
	}
	return nil
}
