// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Plot writes a scatter plot of Ka against Ks for rows to the named file.
// The image format is taken from the file extension. A dashed line marks
// Ka/Ks = 1.
func Plot(rows []Row, title, path string) error {
	xys := make(plotter.XYs, 0, len(rows))
	for _, r := range rows {
		if finite(r.DS) && finite(r.DN) {
			xys = append(xys, plotter.XY{X: r.DS, Y: r.DN})
		}
	}
	if len(xys) == 0 {
		return errors.New("report: no finite Ka/Ks values to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Ks"
	p.Y.Label.Text = "Ka"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	neutral := plotter.NewFunction(func(x float64) float64 { return x })
	neutral.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(plotter.NewGrid(), s, neutral)
	p.Legend.Add("Ka/Ks = 1", neutral)
	p.Legend.Top = true

	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}

// Summary holds summary statistics of a report.
type Summary struct {
	Pairs int

	// Means and standard deviations are computed
	// over finite values only.
	MeanKa, StdKa       float64
	MeanKs, StdKs       float64
	MeanOmega, StdOmega float64
}

// Summarize returns summary statistics for rows.
func Summarize(rows []Row) Summary {
	var ka, ks, omega []float64
	for _, r := range rows {
		if finite(r.DN) {
			ka = append(ka, r.DN)
		}
		if finite(r.DS) {
			ks = append(ks, r.DS)
		}
		if finite(r.Omega) {
			omega = append(omega, r.Omega)
		}
	}
	s := Summary{Pairs: len(rows)}
	s.MeanKa, s.StdKa = meanStd(ka)
	s.MeanKs, s.StdKs = meanStd(ks)
	s.MeanOmega, s.StdOmega = meanStd(omega)
	return s
}

func meanStd(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
