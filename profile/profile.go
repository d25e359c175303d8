/*
 * profile.go, part of orbplot.
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

//Package profile reduces a 3D field sampled on a grid to its planar average
//along one axis, and plots it.
package profile

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Planar averages values, sampled on a grid with the given counts (z index running fastest),
//over the planes perpendicular to axis. It returns the mean and the standard deviation
//of each plane.
func Planar(values []float64, counts [3]int, axis int) (mean, std []float64, err error) {
	if axis < 0 || axis > 2 {
		return nil, nil, fmt.Errorf("profile: invalid axis %d", axis)
	}
	if n := counts[0] * counts[1] * counts[2]; n != len(values) || n == 0 {
		return nil, nil, fmt.Errorf("profile: %d values for a %dx%dx%d grid", len(values), counts[0], counts[1], counts[2])
	}
	planes := make([][]float64, counts[axis])
	for k := range planes {
		planes[k] = make([]float64, 0, len(values)/counts[axis])
	}
	var idx [3]int
	for p, v := range values {
		idx[0] = p / (counts[1] * counts[2])
		idx[1] = (p / counts[2]) % counts[1]
		idx[2] = p % counts[2]
		planes[idx[axis]] = append(planes[idx[axis]], v)
	}
	mean = make([]float64, len(planes))
	std = make([]float64, len(planes))
	for k, pl := range planes {
		if len(pl) == 1 {
			mean[k] = pl[0]
			continue
		}
		mean[k], std[k] = stat.MeanStdDev(pl, nil)
	}
	return mean, std, nil
}

func xys(x, y []float64) plotter.XYs {
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = y[i]
	}
	return ret
}

//Plot saves to the PNG file name a plot of mean against pos. If std is not nil, mean-std
//and mean+std are also plotted, as dashed lines.
func Plot(name, title, xlabel string, pos, mean, std []float64) error {
	if len(pos) != len(mean) || (std != nil && len(std) != len(mean)) {
		return fmt.Errorf("profile: %d positions for %d values", len(pos), len(mean))
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Average"
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(xys(pos, mean))
	if err != nil {
		return err
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = color.RGBA{B: 200, A: 255}
	p.Add(l)
	if std != nil {
		lo := make([]float64, len(mean))
		hi := make([]float64, len(mean))
		for i := range mean {
			lo[i] = mean[i] - std[i]
			hi[i] = mean[i] + std[i]
		}
		for _, b := range [][]float64{lo, hi} {
			bl, err := plotter.NewLine(xys(pos, b))
			if err != nil {
				return err
			}
			bl.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
			bl.LineStyle.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
			p.Add(bl)
		}
	}
	return p.Save(5*vg.Inch, 4*vg.Inch, name)
}
