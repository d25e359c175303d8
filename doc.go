/*
 * doc.go, part of orbplot.
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

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package orbplot samples the orbitals of a many-electron wavefunction on a
//regular grid and writes them, and the electron density they add up to, as
//cube files.
//
//A plot is run by a fixed group of ranks (see package comm). Each rank
//samples its share of the requested orbitals, the partial densities are summed
//over the group, and rank 0 writes the total density. Optionally, rank 0 also
//contracts a two-body density matrix (TBDM) with the sampled orbitals, to
//obtain the pair density around one or more reference points.
//
//The physical system and the orbitals are not handled here. They are provided
//through the Geometry and Evaluator interfaces (package gto has a simple
//implementation).
package orbplot
