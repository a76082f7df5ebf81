/*
 * table.go, part of gopot.
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

package radint

import "fmt"

//Table holds radial integrals indexed by (lm, i1, i2), where lm is the channel of the potential
//and i1, i2 are radial functions. It is symmetric in i1, i2.
type Table struct {
	lmmax, nrf int
	data       []float64
}

//NewTable returns a zero table.
func NewTable(lmmax, nrf int) *Table {
	return &Table{lmmax: lmmax, nrf: nrf, data: make([]float64, lmmax*nrf*nrf)}
}

//Lmmax returns the number of lm channels.
func (T *Table) Lmmax() int { return T.lmmax }

//NumRadialFunctions returns the number of radial functions.
func (T *Table) NumRadialFunctions() int { return T.nrf }

func (T *Table) idx(lm, i1, i2 int) int {
	if lm < 0 || lm >= T.lmmax || i1 < 0 || i1 >= T.nrf || i2 < 0 || i2 >= T.nrf {
		panic(fmt.Sprintf("radint.Table: index (%d,%d,%d) out of range (%d,%d,%d)", lm, i1, i2, T.lmmax, T.nrf, T.nrf))
	}
	return (lm*T.nrf+i1)*T.nrf + i2
}

//At returns the integral for channel lm and radial functions i1, i2.
func (T *Table) At(lm, i1, i2 int) float64 { return T.data[T.idx(lm, i1, i2)] }

//Set sets the element (lm, i1, i2).
func (T *Table) Set(lm, i1, i2 int, v float64) { T.data[T.idx(lm, i1, i2)] = v }

//Data returns the underlying storage.
func (T *Table) Data() []float64 { return T.data }

//Clone returns a deep copy of the table.
func (T *Table) Clone() *Table {
	return &Table{lmmax: T.lmmax, nrf: T.nrf, data: append([]float64(nil), T.data...)}
}
