/*
 * cube.go, part of orbplot.
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

//Package cube writes and reads volumetric data in the Gaussian cube format.
//
//A cube file has a header with the geometry of the grid and the atoms, followed
//by one value per grid point, with the last axis (z) running fastest. Values are
//written in scientific notation, 20 characters wide with 10 decimals, 6 per line.
//Two header layouts are supported: the usual Gaussian one and the one used by
//the JEEP code for mesh orbitals. Both encode the same values.
package cube

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	v3 "github.com/rmera/orbplot/v3"
)

//Dialect selects the header layout of a cube file.
type Dialect int

const (
	Gaussian Dialect = iota
	Jeep
)

func (d Dialect) String() string {
	if d == Jeep {
		return "jeep"
	}
	return "gaussian"
}

const (
	ValuesPerLine = 6
	valueFormat   = "%20.10e"
)

//Header contains the geometric information written before the values
//of a cube file.
type Header struct {
	Title   string
	Comment string
	Origin  [3]float64 //minimum corner of the box.
	Extent  [3]float64 //box lengths. Only written by the Jeep dialect.
	Counts  [3]int
	Step    *v3.Matrix //one displacement vector per axis
	Coords  *v3.Matrix //atom positions, can be nil if there are no atoms.
	Charges []float64
}

//NAtoms returns the number of atoms in the header.
func (H *Header) NAtoms() int {
	if H.Coords == nil {
		return 0
	}
	return H.Coords.NVecs()
}

//NPoints returns the number of grid points described by the header.
func (H *Header) NPoints() int {
	return H.Counts[0] * H.Counts[1] * H.Counts[2]
}

//num formats a number the way a C++ stream does with its default settings
//(6 significant digits, shortest of fixed and exponential notation).
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func (H *Header) check() error {
	if H.Step == nil || H.Step.NVecs() != 3 {
		return Error{"header needs 3 step vectors", "", []string{"check"}}
	}
	if H.Coords != nil && len(H.Charges) != H.Coords.NVecs() {
		return Error{fmt.Sprintf("%d charges for %d atoms", len(H.Charges), H.Coords.NVecs()), "", []string{"check"}}
	}
	return nil
}

func (H *Header) writeAxes(w io.Writer) {
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "%d   %s  %s  %s\n", H.Counts[i], num(H.Step.At(i, 0)), num(H.Step.At(i, 1)), num(H.Step.At(i, 2)))
	}
}

func (H *Header) writeAtoms(w io.Writer) {
	for i := 0; i < H.NAtoms(); i++ {
		fmt.Fprintf(w, "   %s   0.0000    %s    %s   %s\n", num(H.Charges[i]), num(H.Coords.At(i, 0)), num(H.Coords.At(i, 1)), num(H.Coords.At(i, 2)))
	}
}

func (H *Header) write(w io.Writer, d Dialect) {
	fmt.Fprintf(w, "%s\n%s\n", H.Title, H.Comment)
	natoms := H.NAtoms()
	if d != Jeep {
		fmt.Fprintf(w, "  %d   %s   %s   %s\n", natoms, num(H.Origin[0]), num(H.Origin[1]), num(H.Origin[2]))
		H.writeAxes(w)
		H.writeAtoms(w)
		return
	}
	H.writeAxes(w)
	fmt.Fprint(w, "\n\n\n")
	if natoms > 0 {
		fmt.Fprintf(w, "  %d\n", natoms)
		H.writeAtoms(w)
	} else {
		fmt.Fprint(w, "  1\n\n")
	}
	fmt.Fprint(w, "  1\n")
	fmt.Fprintf(w, "  %s  %s  %s\n", num(H.Origin[0]), num(H.Origin[1]), num(H.Origin[2]))
	fmt.Fprintf(w, "  %s  %s  %s\n", num(H.Extent[0]), num(H.Extent[1]), num(H.Extent[2]))
	fmt.Fprint(w, "\n\n")
	fmt.Fprintf(w, "  %d  %d  %d\n", H.Counts[0], H.Counts[1], H.Counts[2])
}

//Write writes the header H and the values to w, in the dialect d.
//values must have one element per grid point.
func Write(w io.Writer, H *Header, values []float64, d Dialect) error {
	if err := H.check(); err != nil {
		return errDecorate(err, "Write")
	}
	if len(values) != H.NPoints() {
		return Error{fmt.Sprintf("%d values for %d grid points", len(values), H.NPoints()), "", []string{"Write"}}
	}
	b := bufio.NewWriter(w)
	H.write(b, d)
	WriteValues(b, values)
	if err := b.Flush(); err != nil {
		return Error{err.Error(), "", []string{"Write"}}
	}
	return nil
}

//WriteValues writes the value block of a cube file to w. Write
//errors are left to be caught when w is flushed or closed.
func WriteValues(w io.Writer, values []float64) {
	for j, v := range values {
		fmt.Fprintf(w, valueFormat, v)
		if j%ValuesPerLine == ValuesPerLine-1 {
			fmt.Fprint(w, "\n")
		}
	}
	fmt.Fprint(w, "\n")
}

//Errors

//Error is the error type for the cube package.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
}

func (err Error) Error() string {
	if err.filename == "" {
		return fmt.Sprintf("cube: %s", err.message)
	}
	return fmt.Sprintf("cube file %s: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error
func (err Error) FileName() string { return err.filename }

//Critical returns true, all cube errors are critical.
func (err Error) Critical() bool { return true }

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	return err
}

//errFile is errDecorate that also sets the file name of the error.
func errFile(err error, caller, name string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		e.filename = name
		return e
	}
	return fmt.Errorf("%s: %w", name, err)
}

const (
	UnableToOpen   = "Unable to open file"
	UnableToCreate = "Unable to create file"
	WrongFormat    = "Wrong format in the cube file"
)
