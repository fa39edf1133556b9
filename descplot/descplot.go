/*
 * descplot.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
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

// Package descplot draws descriptor vectors as curves, component index against
// value, together with their mean and spread. It gives a quick look at how
// similar the structures of a run are.
package descplot

import (
	"image/color"
	"math"

	"github.com/res2desc/res2desc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// MaxCurves is the default maximum number of individual vectors drawn.
const MaxCurves = 8

// Stats holds per-component statistics over a set of vectors.
type Stats struct {
	Mean []float64
	Std  []float64
	Min  []float64
	Max  []float64
}

// Summary returns the per-component statistics of vecs, which must all have the same length.
func Summary(vecs []res2desc.Vector) (*Stats, error) {
	if len(vecs) == 0 {
		return nil, res2desc.NewError(res2desc.ErrCompute, "no vectors", "descplot.Summary")
	}
	dim := vecs[0].Len()
	if dim == 0 {
		return nil, res2desc.NewError(res2desc.ErrCompute, "zero-length vectors", "descplot.Summary")
	}
	S := &Stats{
		Mean: make([]float64, dim),
		Std:  make([]float64, dim),
		Min:  make([]float64, dim),
		Max:  make([]float64, dim),
	}
	col := make([]float64, len(vecs))
	for j := 0; j < dim; j++ {
		for i, v := range vecs {
			if v.Len() != dim {
				return nil, res2desc.Errorf(res2desc.ErrCompute, "descplot.Summary", "vector %d has length %d, expected %d", v.Index, v.Len(), dim)
			}
			col[i] = v.Values[j]
		}
		S.Mean[j], S.Std[j] = stat.MeanStdDev(col, nil)
		if len(col) == 1 {
			S.Std[j] = 0 //MeanStdDev gives NaN for one sample
		}
		S.Min[j] = floats.Min(col)
		S.Max[j] = floats.Max(col)
	}
	return S, nil
}

func xys(vals []float64) plotter.XYs {
	pts := make(plotter.XYs, len(vals))
	for i, v := range vals {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}

// Plot returns a plot with the first maxcurves vectors (all of them if maxcurves < 1),
// the mean vector and the mean plus and minus one standard deviation.
func Plot(vecs []res2desc.Vector, title string, maxcurves int) (*plot.Plot, error) {
	S, err := Summary(vecs)
	if err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrCompute, "descplot.Plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = "Component"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())
	if maxcurves < 1 || maxcurves > len(vecs) {
		maxcurves = len(vecs)
	}
	for i, v := range vecs[:maxcurves] {
		l, err := plotter.NewLine(xys(v.Values))
		if err != nil {
			return nil, res2desc.WrapError(res2desc.ErrCompute, err, "", "descplot.Plot")
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(0.5)
		p.Add(l)
	}
	upper := make([]float64, len(S.Mean))
	lower := make([]float64, len(S.Mean))
	floats.AddTo(upper, S.Mean, S.Std)
	floats.SubTo(lower, S.Mean, S.Std)
	mean, err := plotter.NewLine(xys(S.Mean))
	if err != nil {
		return nil, res2desc.WrapError(res2desc.ErrCompute, err, "", "descplot.Plot")
	}
	mean.Color = color.Black
	mean.Width = vg.Points(1.5)
	p.Add(mean)
	p.Legend.Add("mean", mean)
	for _, band := range [][]float64{upper, lower} {
		l, err := plotter.NewLine(xys(band))
		if err != nil {
			return nil, res2desc.WrapError(res2desc.ErrCompute, err, "", "descplot.Plot")
		}
		l.Color = color.Gray{Y: 128}
		l.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(l)
	}
	p.Y.Min = math.Min(p.Y.Min, floats.Min(S.Min))
	p.Y.Max = math.Max(p.Y.Max, floats.Max(S.Max))
	return p, nil
}

// Save draws vecs with Plot and writes the plot to filename. The format
// is taken from the extension (png, svg, pdf...).
func Save(vecs []res2desc.Vector, title, filename string) error {
	p, err := Plot(vecs, title, MaxCurves)
	if err != nil {
		return res2desc.Decorate(err, res2desc.ErrCompute, "descplot.Save")
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return res2desc.WrapError(res2desc.ErrIO, err, filename, "descplot.Save")
	}
	return nil
}
