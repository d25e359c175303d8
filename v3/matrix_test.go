/*
 * matrix_test.go, part of orbplot.
 *
 * Copyright 2013 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	_, err := NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(Te, err)
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, []float64{4, 5, 6}, A.Vec(nil, 1))
}

func TestNormsAndSums(Te *testing.T) {
	A, err := NewMatrix([]float64{3, 4, 0, 0, 0, 2, 1, 1, 1})
	require.NoError(Te, err)
	assert.InDelta(Te, 5.0, A.VecNorm(0), 1e-12)
	assert.InDelta(Te, 2.0, A.VecNorm(1), 1e-12)
	assert.Equal(Te, []float64{4, 5, 3}, A.SumVecs(nil))
}

func TestDet(Te *testing.T) {
	A := Zeros(3)
	A.SetVec(0, []float64{0.5, 0, 0})
	A.SetVec(1, []float64{0, 0.5, 0})
	A.SetVec(2, []float64{0, 0, 2})
	assert.InDelta(Te, 0.5, A.Det(), 1e-12)
	assert.True(Te, A.IsDiagonal())
	A.Set(0, 1, 0.1)
	assert.False(Te, A.IsDiagonal())
	assert.Panics(Te, func() { Zeros(2).Det() })
}
