/*
 * checkpoint_test.go, part of gopot.
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

package checkpoint

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestHash(Te *testing.T) {
	x := []float64{1, 2.5, -3}
	if HashFloat64(x) != HashFloat64([]float64{1, 2.5, -3}) {
		Te.Error("hash is not deterministic")
	}
	y := []float64{1, 2.5, math.Nextafter(-3, 0)}
	if HashFloat64(x) == HashFloat64(y) {
		Te.Error("one ulp change not detected")
	}
	if HashComplex([]complex128{1 + 2i}) == HashComplex([]complex128{2 + 1i}) {
		Te.Error("real and imaginary parts not distinguished")
	}
}

func TestSnapshot(Te *testing.T) {
	dir := filepath.Join(Te.TempDir(), "ckp")
	w, err := NewWriter(dir)
	if err != nil {
		Te.Fatal(err)
	}
	s := &Snapshot{Label: "Vha+Vxc", Header: map[string]string{"rank": "0", "omega": "125"},
		Values: []complex128{1, 0.1 + 1e-300i, complex(math.Pi, -math.E), -2.5e17}}
	name, err := w.Write(s)
	if err != nil {
		Te.Fatal(err)
	}
	if filepath.Base(name) != "000-Vha_Vxc.ckp.zst" {
		Te.Error("unexpected file name", name)
	}
	fmt.Println("snapshot written to", name)
	r, err := Read(name)
	if err != nil {
		Te.Fatal(err)
	}
	if r.Label != s.Label || r.Header["omega"] != "125" || r.Header["rank"] != "0" {
		Te.Errorf("wrong header %+v", r)
	}
	if HashComplex(r.Values) != HashComplex(s.Values) {
		Te.Error("values changed", r.Values)
	}
	name2, err := w.Write(&Snapshot{Label: "V(G)"})
	if err != nil {
		Te.Fatal(err)
	}
	r2, err := Read(name2)
	if err != nil || len(r2.Values) != 0 || filepath.Base(name2) != "001-V_G_.ckp.zst" {
		Te.Error("empty snapshot", err, name2)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad"), []byte("not compressed"), 0o644); err != nil {
		Te.Fatal(err)
	}
	if _, err := Read(filepath.Join(dir, "bad")); err == nil {
		Te.Error("garbage accepted")
	}
}
