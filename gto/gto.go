/*
 * gto.go, part of orbplot.
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

//Package gto provides a simple system for orbplot: ions, an optional periodic cell
//and orbitals made of Cartesian Gaussian-type primitives, all read from a YAML file.
//
//An orbital is a sum of primitives c (x-X)^i (y-Y)^j (z-Z)^k exp(-a r^2), where r is
//the distance to the ion at X,Y,Z. The coefficient c can be complex. For periodic
//systems, the images of each primitive in the neighboring cells are added too.
package gto

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rmera/orbplot/input"
	v3 "github.com/rmera/orbplot/v3"
	"gopkg.in/yaml.v3"
)

//Ion is an atom of the system.
type Ion struct {
	Label  string     `yaml:"label"`
	Charge float64    `yaml:"charge"`
	Pos    [3]float64 `yaml:"pos"`
}

//Primitive is a Cartesian Gaussian centered on an ion.
type Primitive struct {
	//Center is the index of the ion the primitive is centered on.
	Center   int     `yaml:"center"`
	Powers   [3]int  `yaml:"powers"`
	Exponent float64 `yaml:"exponent"`
	Coeff    float64 `yaml:"coeff"`
	//CoeffIm is the imaginary part of the coefficient. It is ignored by
	//the real evaluator.
	CoeffIm float64 `yaml:"coeffIm"`
}

//Orbital is a linear combination of primitives.
type Orbital struct {
	Name  string      `yaml:"name"`
	Terms []Primitive `yaml:"terms"`
}

//System is the content of a system file. It can be obtained with ReadFile or
//Read, or built by hand, in which case Check must be called before using it.
type System struct {
	Ions []Ion `yaml:"ions"`

	//Lattice contains the 3 cell vectors for periodic systems. It
	//is empty for non-periodic ones.
	Lattice [][3]float64 `yaml:"lattice"`

	//Origin is the corner of the cell. Only used for periodic systems.
	Origin [3]float64 `yaml:"origin"`

	Orbitals []Orbital `yaml:"orbitals"`
}

//ReadFile opens and decodes the system file name. It calls Check on the result.
func ReadFile(name string) (*System, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

//Read decodes a system in YAML format from r, and checks it.
func Read(r io.Reader) (*System, error) {
	var s System
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	return &s, nil
}

//Check returns an error if the system is not consistent.
func (S *System) Check() error {
	if len(S.Lattice) != 0 && len(S.Lattice) != 3 {
		return fmt.Errorf("lattice needs 3 vectors, got %d", len(S.Lattice))
	}
	if len(S.Lattice) == 3 {
		if lat := S.lattice(); lat.Det() == 0 {
			return fmt.Errorf("lattice vectors are not independent")
		}
	}
	if len(S.Orbitals) == 0 {
		return fmt.Errorf("no orbitals given")
	}
	for i, o := range S.Orbitals {
		if len(o.Terms) == 0 {
			return fmt.Errorf("orbital %d has no terms", i+1)
		}
		for j, t := range o.Terms {
			if t.Center < 0 || t.Center >= len(S.Ions) {
				return fmt.Errorf("orbital %d, term %d: center %d, but there are %d ions", i+1, j+1, t.Center, len(S.Ions))
			}
			if t.Exponent <= 0 {
				return fmt.Errorf("orbital %d, term %d: exponent must be positive", i+1, j+1)
			}
			for _, p := range t.Powers {
				if p < 0 {
					return fmt.Errorf("orbital %d, term %d: negative power", i+1, j+1)
				}
			}
		}
	}
	return nil
}

func (S *System) lattice() *v3.Matrix {
	lat := v3.Zeros(3)
	for i, v := range S.Lattice {
		lat.SetVec(i, v[:])
	}
	return lat
}

//NIons returns the number of ions in the system.
func (S *System) NIons() int { return len(S.Ions) }

//IonPos puts the position of ion i in dst, allocated if nil, and returns it.
func (S *System) IonPos(i int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, 3)
	}
	copy(dst, S.Ions[i].Pos[:])
	return dst
}

func (S *System) IonCharge(i int) float64 { return S.Ions[i].Charge }

//IonLabel returns the label of ion i.
func (S *System) IonLabel(i int) string { return S.Ions[i].Label }

//Bounds returns the cell of a periodic system. The last value is false
//if the system is not periodic.
func (S *System) Bounds() (*v3.Matrix, []float64, bool) {
	if len(S.Lattice) != 3 {
		return nil, nil, false
	}
	origin := make([]float64, 3)
	copy(origin, S.Origin[:])
	return S.lattice(), origin, true
}

//norb returns the number of orbitals requested in the section of a plot
//input (the NORB keyword), or all of them.
func (S *System) norb(section []string) (int, error) {
	n, ok, err := input.ReadInt(section, 0, "NORB")
	if err != nil {
		return 0, err
	}
	if !ok {
		return len(S.Orbitals), nil
	}
	if n < 1 || n > len(S.Orbitals) {
		return 0, fmt.Errorf("NORB %d, but the system has %d orbitals", n, len(S.Orbitals))
	}
	return n, nil
}
