package sht

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/rmera/gopot/sf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestRoundTrip(Te *testing.T) {
	for _, cov := range []Coverage{CoverageMinimal, CoverageDense} {
		for lmax := 0; lmax <= 12; lmax++ {
			T, err := New(lmax, cov)
			if err != nil {
				Te.Fatal(err)
			}
			if err := T.Check(); err != nil {
				Te.Errorf("lmax=%d coverage=%d: %v", lmax, cov, err)
			}
			//lower lmmax on the same grid
			rnd := rand.New(rand.NewSource(int64(lmax)))
			for l := 0; l <= lmax; l++ {
				lmmax := sf.Lmmax(l)
				c := make([]float64, lmmax)
				for i := range c {
					c[i] = rnd.NormFloat64()
				}
				c2 := T.Forward(T.Backward(c, lmmax, nil), lmmax, nil)
				if !floats.EqualApprox(c, c2, Tolerance) {
					Te.Errorf("lmax=%d l=%d coverage=%d: round trip failed", lmax, l, cov)
				}
			}
		}
	}
}

func TestWeights(Te *testing.T) {
	T, err := New(7, CoverageDense)
	if err != nil {
		Te.Fatal(err)
	}
	s := 0.0
	for i := 0; i < T.NumPoints(); i++ {
		s += T.Weight(i)
		p := T.Point(i)
		if math.Abs(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]-1) > 1e-13 {
			Te.Fatal("grid point not on the unit sphere", p)
		}
	}
	if math.Abs(s-4*math.Pi) > 1e-12 {
		Te.Error("weights add up to", s)
	}
	fmt.Println("dense grid for lmax=7:", T.NumPoints(), "points")
}

//TestProduct checks that the dense grid gives the exact coefficients of the product of two functions.
func TestProduct(Te *testing.T) {
	lmax := 4
	T, err := New(2*lmax, CoverageMinimal)
	if err != nil {
		Te.Fatal(err)
	}
	//z^2 = (1/3) + (2/3)P2(z) -> sqrt(4pi)/3 Y00 + (4/3) sqrt(pi/5) Y20
	c := make([]float64, sf.Lmmax(1))
	c[sf.LM(1, 0)] = math.Sqrt(4 * math.Pi / 3) //z
	v := T.Backward(c, len(c), nil)
	for i := range v {
		v[i] *= v[i]
	}
	p := T.Forward(v, sf.Lmmax(2), nil)
	if math.Abs(p[0]-math.Sqrt(4*math.Pi)/3) > 1e-12 || math.Abs(p[sf.LM(2, 0)]-4.0/3*math.Sqrt(math.Pi/5)) > 1e-12 {
		Te.Error("wrong coefficients of z^2", p)
	}
}

func TestDense(Te *testing.T) {
	T, err := New(5, CoverageMinimal)
	if err != nil {
		Te.Fatal(err)
	}
	nr := 7
	rnd := rand.New(rand.NewSource(3))
	c := mat.NewDense(T.Lmmax(), nr, nil)
	for i := 0; i < T.Lmmax(); i++ {
		for j := 0; j < nr; j++ {
			c.Set(i, j, rnd.Float64())
		}
	}
	v := T.BackwardDense(c)
	if r, cc := v.Dims(); r != T.NumPoints() || cc != nr {
		Te.Fatal("wrong dims", r, cc)
	}
	c2 := T.ForwardDense(v, T.Lmmax())
	if !mat.EqualApprox(c, c2, Tolerance) {
		Te.Error("dense round trip failed")
	}
	col := mat.Col(nil, 3, c)
	vcol := T.Backward(col, T.Lmmax(), nil)
	if !floats.EqualApprox(vcol, mat.Col(nil, 3, v), 1e-13) {
		Te.Error("dense and single transforms differ")
	}
}
