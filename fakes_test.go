package orbplot

import (
	"math"

	v3 "github.com/rmera/orbplot/v3"
)

//fakeGeom is a Geometry with fixed ions and, optionally, a cell.
type fakeGeom struct {
	pos     [][3]float64
	charges []float64
	lattice []float64 //9 numbers or nil
	origin  []float64
}

func (F *fakeGeom) NIons() int { return len(F.pos) }

func (F *fakeGeom) IonPos(i int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, 3)
	}
	copy(dst, F.pos[i][:])
	return dst
}

func (F *fakeGeom) IonCharge(i int) float64 { return F.charges[i] }

func (F *fakeGeom) Bounds() (*v3.Matrix, []float64, bool) {
	if F.lattice == nil {
		return nil, nil, false
	}
	lat, err := v3.NewMatrix(append([]float64(nil), F.lattice...))
	if err != nil {
		panic(err)
	}
	return lat, F.origin, true
}

//fakeOrbs gives orbital k the value exp(-(k+1)*|r-c|^2/4)*(1+0.1*k*x), with c = (0.1*k, 0, 0).
//In complex mode, the imaginary part is k*0.5 times the real one.
type fakeOrbs struct {
	n   int
	pos [3]float64
}

func (F *fakeOrbs) NMO() int { return F.n }

func (F *fakeOrbs) SetElectronPos(e int, pos []float64) { copy(F.pos[:], pos) }

func (F *fakeOrbs) value(k int) float64 {
	c := [3]float64{0.1 * float64(k), 0, 0}
	r2 := 0.0
	for i := range c {
		r2 += (F.pos[i] - c[i]) * (F.pos[i] - c[i])
	}
	return math.Exp(-float64(k+1)*r2/4) * (1 + 0.1*float64(k)*F.pos[0])
}

type fakeReal struct{ *fakeOrbs }

func (F fakeReal) UpdateVal(e int, orbs []int, vals []float64) {
	for i, o := range orbs {
		vals[i] = F.value(o)
	}
}

type fakeComplex struct{ *fakeOrbs }

func (F fakeComplex) UpdateCVal(e int, orbs []int, vals []complex128) {
	for i, o := range orbs {
		v := F.value(o)
		vals[i] = complex(v, 0.5*float64(o)*v)
	}
}

func newFakeReal(n int) fakeReal { return fakeReal{&fakeOrbs{n: n}} }

func newFakeComplex(n int) fakeComplex { return fakeComplex{&fakeOrbs{n: n}} }

func seq(n int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = i
	}
	return ret
}

//fakeDual gives both real and complex values, with the same convention as fakeComplex.
type fakeDual struct{ *fakeOrbs }

func (F fakeDual) UpdateVal(e int, orbs []int, vals []float64) {
	fakeReal{F.fakeOrbs}.UpdateVal(e, orbs, vals)
}

func (F fakeDual) UpdateCVal(e int, orbs []int, vals []complex128) {
	fakeComplex{F.fakeOrbs}.UpdateCVal(e, orbs, vals)
}

//fakeSystem returns the same evaluator for both kinds of orbitals.
type fakeSystem struct {
	*fakeGeom
	ev fakeDual
}

func (F *fakeSystem) RealOrbitals(section []string) (RealEvaluator, error) { return F.ev, nil }

func (F *fakeSystem) ComplexOrbitals(section []string) (ComplexEvaluator, error) { return F.ev, nil }
