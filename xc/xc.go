/*
 * xc.go, part of gopot.
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

/*Package xc defines the interface of the exchange-correlation functionals used by the potential,
and ships two reference functionals: Slater exchange (LDA) and PBE exchange (GGA).

Functionals are evaluated point by point on arrays. Evaluate adds its contributions to the
output arrays, so a list of functionals can be evaluated into the same output.*/
package xc

import (
	"fmt"
	"sort"
	"strings"
)

//Input contains the density, and for GGA functionals its gradients, at a set of points.
//For unpolarized evaluations Dn is nil and Up contains the total density.
type Input struct {
	Up, Dn []float64
	//SigmaUU is |grad up|^2, SigmaUD is grad up . grad dn, SigmaDD is |grad dn|^2.
	//Only SigmaUU is used for unpolarized evaluations.
	SigmaUU, SigmaUD, SigmaDD []float64
}

//Polarized returns true for spin-polarized input.
func (I *Input) Polarized() bool { return I.Dn != nil }

//Len returns the number of points.
func (I *Input) Len() int { return len(I.Up) }

//Output accumulates the results of the functionals. VUp and VDn are the derivatives of
//the energy density with respect to the densities, Eps the energy per particle and the VSigma
//the derivatives with respect to the Sigma of the Input.
type Output struct {
	VUp, VDn                     []float64
	Eps                          []float64
	VSigmaUU, VSigmaUD, VSigmaDD []float64
}

//NewOutput allocates a zero output for n points.
func NewOutput(n int, polarized, gga bool) *Output {
	o := &Output{VUp: make([]float64, n), Eps: make([]float64, n)}
	if polarized {
		o.VDn = make([]float64, n)
	}
	if gga {
		o.VSigmaUU = make([]float64, n)
		if polarized {
			o.VSigmaUD = make([]float64, n)
			o.VSigmaDD = make([]float64, n)
		}
	}
	return o
}

//Functional is an exchange-correlation functional. Evaluate must be safe for concurrent use
//on different inputs.
type Functional interface {
	Label() string
	IsGGA() bool
	IsVdW() bool
	//SetDensThreshold sets the density below which points give no contribution.
	SetDensThreshold(t float64)
	//UpdateUnitCell is called when the lattice changes. Non-local functionals
	//rebuild their kernels here.
	UpdateUnitCell(lattice [3][3]float64)
	//Evaluate adds the contributions of the functional at the points of in to out.
	Evaluate(in *Input, out *Output) error
}

const defaultThreshold = 1e-12

var registry = map[string]func() Functional{
	"XC_LDA_X":     func() Functional { return &Slater{threshold: defaultThreshold} },
	"XC_GGA_X_PBE": func() Functional { return &PBEx{threshold: defaultThreshold} },
}

//New returns the functional with the given label.
func New(label string) (Functional, error) {
	f, ok := registry[strings.ToUpper(label)]
	if !ok {
		return nil, fmt.Errorf("xc: unknown functional %q (available: %s)", label, strings.Join(Labels(), ", "))
	}
	return f(), nil
}

//NewList returns the functionals with the given labels.
func NewList(labels []string) ([]Functional, error) {
	ret := make([]Functional, 0, len(labels))
	for _, l := range labels {
		f, err := New(l)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

//Labels returns the labels of the available functionals, sorted.
func Labels() []string {
	ret := make([]string, 0, len(registry))
	for k := range registry {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func checkOutput(in *Input, out *Output, gga bool) error {
	n := in.Len()
	if len(out.VUp) < n || len(out.Eps) < n {
		return fmt.Errorf("xc: output arrays shorter than the input")
	}
	if in.Polarized() && (len(in.Dn) < n || len(out.VDn) < n) {
		return fmt.Errorf("xc: missing spin-down arrays")
	}
	if gga {
		if len(in.SigmaUU) < n || len(out.VSigmaUU) < n {
			return fmt.Errorf("xc: missing gradient arrays for a GGA functional")
		}
		if in.Polarized() && (len(in.SigmaDD) < n || len(out.VSigmaDD) < n) {
			return fmt.Errorf("xc: missing spin-down gradient arrays for a GGA functional")
		}
	}
	return nil
}
