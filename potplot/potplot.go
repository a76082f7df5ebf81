/*
 * potplot.go, part of gopot.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

/*Package potplot draws the radial parts of potentials inside the atomic spheres, one
line per lm channel or per atom, with gonum/plot.*/
package potplot

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Curve is one line of a plot.
type Curve struct {
	Label string
	R     []float64
	V     []float64
}

//Channels returns one curve per lm channel of the expansion mt (one row per channel, one column per
//point of the grid r), for the channels in lms. The values are multiplied by scale.
func Channels(r []float64, mt *mat.Dense, lms []int, scale float64) ([]Curve, error) {
	rows, cols := mt.Dims()
	if cols != len(r) {
		return nil, fmt.Errorf("potplot: %d grid points for %d values", len(r), cols)
	}
	ret := make([]Curve, 0, len(lms))
	for _, lm := range lms {
		if lm < 0 || lm >= rows {
			return nil, fmt.Errorf("potplot: channel %d out of range", lm)
		}
		v := mat.Row(nil, lm, mt)
		for i := range v {
			v[i] *= scale
		}
		ret = append(ret, Curve{Label: fmt.Sprintf("lm=%d", lm), R: r, V: v})
	}
	return ret, nil
}

func basicPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "r (bohr)"
	p.Y.Label.Text = "V (Ha)"
	p.Add(plotter.NewGrid())
	return p
}

//Radial plots the curves and saves the plot to filename. The format is taken from the extension
//(png if there is none). Points with |V| larger than clip are left out, which keeps the nuclear
//singularity from flattening the plot. A clip of 0 disables this.
func Radial(curves []Curve, title, filename string, clip float64) error {
	if len(curves) == 0 {
		return fmt.Errorf("potplot: nothing to plot")
	}
	p := basicPlot(title)
	for key, c := range curves {
		pts := make(plotter.XYs, 0, len(c.R))
		for i, r := range c.R {
			if clip > 0 && math.Abs(c.V[i]) > clip {
				continue
			}
			pts = append(pts, plotter.XY{X: r, Y: c.V[i]})
		}
		if len(pts) == 0 {
			return fmt.Errorf("potplot: curve %q has no points under the clip value", c.Label)
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(curves))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(c.Label, l)
	}
	p.Legend.Top = true
	if !strings.Contains(filename, ".") {
		filename += ".png"
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}

//colors returns an evenly spaced color for the curve key out of steps.
func colors(key, steps int) (r, g, b uint8) {
	h := 240 * float64(key) / math.Max(1, float64(steps))
	return hsv2rgb(h, 0.85, 0.9)
}

//hsv2rgb takes hue (0-360), saturation and value (0-1), returns r,g,b (0-255)
func hsv2rgb(h, s, v float64) (uint8, uint8, uint8) {
	if s == 0 {
		c := uint8(255 * v)
		return c, c, c
	}
	h = h / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(255 * r), uint8(255 * g), uint8(255 * b)
}
