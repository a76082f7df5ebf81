/*
 * xc_test.go, part of gopot.
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

package xc

import (
	"math"
	"testing"
)

func TestRegistry(Te *testing.T) {
	fs, err := NewList([]string{"XC_LDA_X", "xc_gga_x_pbe"})
	if err != nil {
		Te.Fatal(err)
	}
	if fs[0].IsGGA() || !fs[1].IsGGA() {
		Te.Error("wrong functional kinds")
	}
	if _, err := New("XC_NOPE"); err == nil {
		Te.Error("unknown functional accepted")
	}
}

func TestSlater(Te *testing.T) {
	f, _ := New("XC_LDA_X")
	rho := []float64{0.01, 0.3, 2.5, 0}
	in := &Input{Up: rho}
	out := NewOutput(len(rho), false, false)
	if err := f.Evaluate(in, out); err != nil {
		Te.Fatal(err)
	}
	for i, r := range rho {
		v := -math.Cbrt(3 * r / math.Pi)
		if math.Abs(out.VUp[i]-v) > 1e-14 {
			Te.Errorf("wrong potential at %v: %v, expected %v", r, out.VUp[i], v)
		}
		if r > 0 && math.Abs(out.Eps[i]-0.75*v) > 1e-14 {
			Te.Errorf("wrong energy at %v: %v, expected %v", r, out.Eps[i], 0.75*v)
		}
	}
	//an unpolarized density split in two equal spins gives the same.
	half := make([]float64, len(rho))
	for i := range rho {
		half[i] = rho[i] / 2
	}
	pout := NewOutput(len(rho), true, false)
	if err := f.Evaluate(&Input{Up: half, Dn: half}, pout); err != nil {
		Te.Fatal(err)
	}
	for i := range rho {
		if math.Abs(pout.VUp[i]-out.VUp[i]) > 1e-13 || math.Abs(pout.VDn[i]-out.VUp[i]) > 1e-13 || math.Abs(pout.Eps[i]-out.Eps[i]) > 1e-13 {
			Te.Errorf("polarized evaluation differs at %d", i)
		}
	}
}

//TestPBExDerivatives compares the potential with finite differences of the energy.
func TestPBExDerivatives(Te *testing.T) {
	f, _ := New("XC_GGA_X_PBE")
	energy := func(rho, sigma float64) float64 {
		out := NewOutput(1, false, true)
		f.Evaluate(&Input{Up: []float64{rho}, SigmaUU: []float64{sigma}}, out)
		return out.Eps[0] * rho
	}
	for _, c := range []struct{ rho, sigma float64 }{{0.1, 0.02}, {1.3, 0.7}, {0.02, 1e-4}} {
		out := NewOutput(1, false, true)
		if err := f.Evaluate(&Input{Up: []float64{c.rho}, SigmaUU: []float64{c.sigma}}, out); err != nil {
			Te.Fatal(err)
		}
		h := 1e-6 * c.rho
		dr := (energy(c.rho+h, c.sigma) - energy(c.rho-h, c.sigma)) / (2 * h)
		hs := 1e-6 * c.sigma
		ds := (energy(c.rho, c.sigma+hs) - energy(c.rho, c.sigma-hs)) / (2 * hs)
		if math.Abs(dr-out.VUp[0]) > 1e-6*math.Abs(dr) {
			Te.Errorf("rho=%v sigma=%v: vrho %v, finite difference %v", c.rho, c.sigma, out.VUp[0], dr)
		}
		if math.Abs(ds-out.VSigmaUU[0]) > 1e-6*math.Abs(ds) {
			Te.Errorf("rho=%v sigma=%v: vsigma %v, finite difference %v", c.rho, c.sigma, out.VSigmaUU[0], ds)
		}
	}
	//zero gradient reduces to Slater
	s, _ := New("XC_LDA_X")
	o1 := NewOutput(1, false, true)
	o2 := NewOutput(1, false, false)
	f.Evaluate(&Input{Up: []float64{0.4}, SigmaUU: []float64{0}}, o1)
	s.Evaluate(&Input{Up: []float64{0.4}}, o2)
	if math.Abs(o1.VUp[0]-o2.VUp[0]) > 1e-14 {
		Te.Error("PBE exchange without gradient differs from Slater", o1.VUp[0], o2.VUp[0])
	}
}

func TestMissingGradients(Te *testing.T) {
	f, _ := New("XC_GGA_X_PBE")
	if err := f.Evaluate(&Input{Up: []float64{1}}, NewOutput(1, false, false)); err == nil {
		Te.Error("GGA evaluation without gradients accepted")
	}
}
