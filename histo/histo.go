/*
 * histo.go, part of orbplot.
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

//Package histo builds histograms of the values of a field, such as the
//values of a cube file.
package histo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram. Values out of the range of the dividers are not counted.
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

//Even returns n+1 dividers for n bins of the same width, from min to max.
//max is moved up a tiny bit, so it falls into the last bin.
func Even(min, max float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if max <= min {
		max = min + 1
	}
	d := make([]float64, n+1)
	floats.Span(d, min, max)
	d[n] += (max - min) * 1e-9
	return d
}

//NewData returns a new histogram with the given dividers, filled with rawdata.
//rawdata can be nil, in which case the histogram is empty. The dividers are copied,
//rawdata is not, but it is not modified either.
func NewData(dividers []float64, rawdata []float64) *Data {
	d := new(Data)
	d.dividers = make([]float64, len(dividers))
	copy(d.dividers, dividers)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(rawdata)
	}
	return d
}

//ReHisto replaces the content of the histogram with the counts from rawdata.
func (D *Data) ReHisto(rawdata []float64) {
	s := make([]float64, len(rawdata))
	copy(s, rawdata)
	sort.Float64s(s)
	//stat.Histogram panics with values out of the dividers, so they are removed first.
	maxi := sort.SearchFloat64s(s, D.dividers[len(D.dividers)-1])
	mini := sort.SearchFloat64s(s, D.dividers[0])
	s = s[mini:maxi]
	D.total = len(s)
	D.normalized = false
	D.histo = stat.Histogram(D.histo, D.dividers, s, nil)
}

//Total returns the number of values counted.
func (D *Data) Total() int { return D.total }

//Normalized returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize divides every bin by the total number of values.
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize reverts Normalize.
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	if normalize {
		n = 1 / n
	}
	D.normalized = normalize
	floats.Scale(n, D.histo)
}

//View returns the bins of the histogram, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//String prints one line per bin, with its range and its count.
func (D *Data) String() string {
	lines := make([]string, 0, len(D.histo)+1)
	lines = append(lines, fmt.Sprintf("Normalized: %v, Total: %d", D.normalized, D.total))
	for i, v := range D.View() {
		lines = append(lines, fmt.Sprintf("%12.4e %12.4e %10.4g", D.dividers[i], D.dividers[i+1], v))
	}
	return strings.Join(lines, "\n")
}

//MarshalJSON encodes the bins, the dividers and the normalization state of the histogram.
func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{D.normalized, D.total, D.dividers, D.View()})
}
