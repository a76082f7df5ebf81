/*
 * radint.go, part of gopot.
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

/*Package radint assembles the radial integrals of the potential (and of the magnetic field) with
pairs of atomic radial functions, the building blocks of the Hamiltonian matrix elements
of one atom.

The lm channels of the potential are split in contiguous blocks over the ranks of the
process group, and each rank spreads its channels over goroutines. The tables are summed over
the group at the end, which is a blocking collective: every rank must call Generate.*/
package radint

import (
	"fmt"

	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/radial"
	"github.com/rmera/gopot/sf"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//Input contains what is needed to build the radial integrals of one atom.
type Input struct {
	Grid *radial.Grid
	//RadialFunctions has one column per radial function, one row per grid point.
	RadialFunctions *mat.Dense
	//L is the angular momentum of each radial function.
	L []int
	//HSpherical contains the integrals of the spherical Hamiltonian, which are copied
	//to the lm=0 channel of the potential table.
	HSpherical *mat.Dense
	//Veff is the potential, one row per lm channel, one column per grid point.
	Veff *mat.Dense
	//Beff are the components of the magnetic field, with the same layout as Veff.
	//They can be nil or empty.
	Beff []*mat.Dense
}

//Result contains the tables for the potential and each magnetic field component.
type Result struct {
	H *Table
	B []*Table
}

func (in Input) validate() error {
	if in.Grid == nil || in.RadialFunctions == nil || in.Veff == nil {
		return Error{"incomplete input", []string{"validate"}, true}
	}
	nmtp := in.Grid.Len()
	r, nrf := in.RadialFunctions.Dims()
	if r != nmtp {
		return Error{fmt.Sprintf("%d radial function points for %d grid points", r, nmtp), []string{"validate"}, true}
	}
	if len(in.L) != nrf {
		return Error{fmt.Sprintf("%d angular momenta for %d radial functions", len(in.L), nrf), []string{"validate"}, true}
	}
	if in.HSpherical != nil {
		if hr, hc := in.HSpherical.Dims(); hr != nrf || hc != nrf {
			return Error{fmt.Sprintf("spherical integrals are %dx%d, expected %dx%d", hr, hc, nrf, nrf), []string{"validate"}, true}
		}
	}
	lmmax, c := in.Veff.Dims()
	if c != nmtp {
		return Error{fmt.Sprintf("potential has %d points, expected %d", c, nmtp), []string{"validate"}, true}
	}
	for j, b := range in.Beff {
		if br, bc := b.Dims(); br != lmmax || bc != nmtp {
			return Error{fmt.Sprintf("magnetic component %d is %dx%d, expected %dx%d", j, br, bc, lmmax, nmtp), []string{"validate"}, true}
		}
	}
	return nil
}

//Generate computes the radial integral tables for one atom. The lm channels are split among the ranks
//of c, and threads goroutines are used on each rank. The tables are reduced over c, so every
//rank gets the complete result.
func Generate(in Input, c comm.Communicator, threads int) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, errDecorate(err, "radint.Generate")
	}
	lmmax, _ := in.Veff.Dims()
	_, nrf := in.RadialFunctions.Dims()
	lbylm := sf.LByLm(sf.Lmax(lmmax))
	rf := make([]*radial.Spline, nrf)
	rfv := make([][]float64, nrf)
	for i := range rf {
		rfv[i] = mat.Col(nil, i, in.RadialFunctions)
		s, err := radial.NewSplineFrom(in.Grid, rfv[i])
		if err != nil {
			return nil, errDecorate(Error{err.Error(), nil, true}, "radint.Generate")
		}
		rf[i] = s
	}
	res := &Result{H: NewTable(lmmax, nrf), B: make([]*Table, len(in.Beff))}
	for j := range res.B {
		res.B[j] = NewTable(lmmax, nrf)
	}
	spl := comm.Split(lmmax, c)
	var eg errgroup.Group
	if threads > 0 {
		eg.SetLimit(threads)
	}
	for iloc := 0; iloc < spl.LocalSize(); iloc++ {
		lm := spl.GlobalIndex(iloc)
		eg.Go(func() error {
			//private scratch for this channel
			vrf := radial.NewSpline(in.Grid)
			l := lbylm[lm]
			if lm == 0 {
				//the spherical part is handled by the atomic solver.
				for i1 := 0; in.HSpherical != nil && i1 < nrf; i1++ {
					for i2 := 0; i2 < nrf; i2++ {
						if (in.L[i1]+in.L[i2])%2 == 0 {
							res.H.Set(0, i1, i2, in.HSpherical.At(i1, i2))
						}
					}
				}
			} else {
				if err := channel(res.H, lm, l, in.L, in.Veff, rf, rfv, vrf); err != nil {
					return err
				}
			}
			for j, b := range in.Beff {
				if err := channel(res.B[j], lm, l, in.L, b, rf, rfv, vrf); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errDecorate(Error{err.Error(), nil, true}, "radint.Generate")
	}
	c.AllReduce(res.H.data)
	for _, b := range res.B {
		c.AllReduce(b.data)
	}
	return res, nil
}

//channel fills the lm channel of t with the integrals of the potential channel v
//between all the pairs of radial functions allowed by parity. The splines in rf, and their
//values rfv, are shared among goroutines and only read.
func channel(t *Table, lm, l int, L []int, v *mat.Dense, rf []*radial.Spline, rfv [][]float64, vrf *radial.Spline) error {
	nrf := len(rf)
	for i2 := 0; i2 < nrf; i2++ {
		r2 := rfv[i2]
		vals := vrf.Values()
		for ir := range vals {
			vals[ir] = r2[ir] * v.At(lm, ir)
		}
		if err := vrf.Interpolate(); err != nil {
			return err
		}
		for i1 := 0; i1 <= i2; i1++ {
			if (l+L[i1]+L[i2])%2 != 0 {
				continue
			}
			x := rf[i1].Integrate(vrf, 2)
			t.Set(lm, i1, i2, x)
			t.Set(lm, i2, i1, x)
		}
	}
	return nil
}
