/*
 * partition.go, part of orbplot.
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

//PartitionContext identifies a rank in a group of Size ranks
//that share the orbitals to plot.
type PartitionContext struct {
	Rank int
	Size int
}

//block returns the number of consecutive positions every rank owns
//in a list of n elements.
func (P PartitionContext) block(n int) int {
	b := n / P.Size
	if b < 1 {
		b = 1
	}
	return b
}

//Owns returns true if the rank owns position i of a list of n elements.
//Rank r owns the positions in [r*block, (r+1)*block) plus position
//Size*block+r, which exists only when n is not a multiple of Size.
func (P PartitionContext) Owns(i, n int) bool {
	b := P.block(n)
	if i >= P.Rank*b && i < (P.Rank+1)*b {
		return true
	}
	return i == P.Size*b+P.Rank
}

//Orbitals returns the elements of all that belong to the rank, in the
//same order. The result is the same in every run.
func (P PartitionContext) Orbitals(all []int) []int {
	ret := make([]int, 0, P.block(len(all))+1)
	for i, o := range all {
		if P.Owns(i, len(all)) {
			ret = append(ret, o)
		}
	}
	return ret
}

//Local is Orbitals, but it returns an error if the rank gets nothing to do.
func (P PartitionContext) Local(all []int) ([]int, error) {
	if P.Size < 1 || P.Rank < 0 || P.Rank >= P.Size {
		return nil, newError(ErrPrecondition, "Local", "invalid rank %d for %d ranks", P.Rank, P.Size)
	}
	ret := P.Orbitals(all)
	if len(ret) == 0 {
		return nil, newError(ErrPrecondition, "Local", "no orbitals to plot on node %d", P.Rank)
	}
	return ret, nil
}
