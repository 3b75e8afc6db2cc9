package utils

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

var ErrShapeMismatch = errors.New("utils: tensor shape mismatch")

/*
Tensor holds a field sampled on a uniform 2D grid with the layout
(batch, channel, height, width). Each (batch, channel) pair owns one
row-major Matrix plane, stored at Planes[b*Nc+c].

Binary operations broadcast a tensor with a single plane across all planes
of the other operand, which is how shape masks are applied to batches.
*/
type Tensor struct {
	Nb, Nc int
	Planes []Matrix
}

func NewTensor(nb, nc, nr, ncol int) (T Tensor) {
	T = Tensor{
		Nb:     nb,
		Nc:     nc,
		Planes: make([]Matrix, nb*nc),
	}
	for n := range T.Planes {
		T.Planes[n] = NewMatrix(nr, ncol)
	}
	return
}

// NewTensorFromMatrix promotes a 2D array by inserting singleton batch and
// channel axes.
func NewTensorFromMatrix(m Matrix) Tensor {
	return Tensor{
		Nb:     1,
		Nc:     1,
		Planes: []Matrix{m},
	}
}

// NewTensorFromData builds a tensor from row-major (b, c, h, w) data.
func NewTensorFromData(nb, nc, nr, ncol int, data []float64) (T Tensor, err error) {
	var (
		planeSize = nr * ncol
	)
	if len(data) != nb*nc*planeSize {
		err = fmt.Errorf("%w: %d values for shape [%d %d %d %d]",
			ErrShapeMismatch, len(data), nb, nc, nr, ncol)
		return
	}
	T = NewTensor(nb, nc, nr, ncol)
	for n := range T.Planes {
		copy(T.Planes[n].DataP, data[n*planeSize:(n+1)*planeSize])
	}
	return
}

func NewTensorConst(nb, nc, nr, ncol int, val float64) (T Tensor) {
	T = NewTensor(nb, nc, nr, ncol)
	for _, p := range T.Planes {
		for i := range p.DataP {
			p.DataP[i] = val
		}
	}
	return
}

// Dims returns the height and width of every plane.
func (t Tensor) Dims() (nr, nc int) {
	if len(t.Planes) == 0 {
		return 0, 0
	}
	return t.Planes[0].Dims()
}

func (t Tensor) Shape() [4]int {
	nr, nc := t.Dims()
	return [4]int{t.Nb, t.Nc, nr, nc}
}

func (t Tensor) Plane(b, c int) Matrix {
	if b < 0 || b >= t.Nb || c < 0 || c >= t.Nc {
		panic(fmt.Errorf("plane (%d,%d) out of range for %d x %d tensor", b, c, t.Nb, t.Nc))
	}
	return t.Planes[b*t.Nc+c]
}

func (t Tensor) At(b, c, i, j int) float64 {
	return t.Plane(b, c).At(i, j)
}

func (t Tensor) Copy() (R Tensor) {
	R = Tensor{Nb: t.Nb, Nc: t.Nc, Planes: make([]Matrix, len(t.Planes))}
	for n, p := range t.Planes {
		R.Planes[n] = p.Copy()
	}
	return
}

// Data returns a flattened copy in row-major (b, c, h, w) order.
func (t Tensor) Data() (data []float64) {
	for _, p := range t.Planes {
		data = append(data, p.DataP...)
	}
	return
}

func (t Tensor) mapPlanes(f func(p Matrix) Matrix) (R Tensor) {
	R = Tensor{Nb: t.Nb, Nc: t.Nc, Planes: make([]Matrix, len(t.Planes))}
	for n, p := range t.Planes {
		R.Planes[n] = f(p)
	}
	return
}

// broadcastShape checks that A can be combined with t and returns the
// batch/channel dimensions of the result.
func (t Tensor) broadcastShape(A Tensor) (nb, nc int, err error) {
	var (
		nr, ncol   = t.Dims()
		nrA, ncolA = A.Dims()
	)
	if nr != nrA || ncol != ncolA {
		err = fmt.Errorf("%w: planes %dx%d and %dx%d", ErrShapeMismatch, nr, ncol, nrA, ncolA)
		return
	}
	switch {
	case t.Nb == A.Nb && t.Nc == A.Nc:
		nb, nc = t.Nb, t.Nc
	case len(A.Planes) == 1:
		nb, nc = t.Nb, t.Nc
	case len(t.Planes) == 1:
		nb, nc = A.Nb, A.Nc
	default:
		err = fmt.Errorf("%w: %v and %v", ErrShapeMismatch, t.Shape(), A.Shape())
	}
	return
}

func planeOf(T Tensor, n int) Matrix {
	if len(T.Planes) == 1 {
		return T.Planes[0]
	}
	return T.Planes[n]
}

// Combine returns t op A elementwise.
func (t Tensor) Combine(op ArithOp, A Tensor) (R Tensor, err error) {
	var (
		nb, nc int
	)
	if nb, nc, err = t.broadcastShape(A); err != nil {
		return
	}
	nr, ncol := t.Dims()
	R = NewTensor(nb, nc, nr, ncol)
	for n, p := range R.Planes {
		var (
			dst = p.DataP
			s   = planeOf(t, n).DataP
			a   = planeOf(A, n).DataP
		)
		switch op {
		case OpAdd:
			floats.AddTo(dst, s, a)
		case OpSub:
			floats.SubTo(dst, s, a)
		case OpMul:
			floats.MulTo(dst, s, a)
		case OpDiv:
			floats.DivTo(dst, s, a)
		case OpPow:
			for i := range dst {
				dst[i] = math.Pow(s[i], a[i])
			}
		}
	}
	return
}

// CombineScalar returns t op a elementwise.
func (t Tensor) CombineScalar(op ArithOp, a float64) (R Tensor) {
	R = t.Copy()
	for _, p := range R.Planes {
		switch op {
		case OpAdd:
			floats.AddConst(a, p.DataP)
		case OpSub:
			floats.AddConst(-a, p.DataP)
		case OpMul:
			floats.Scale(a, p.DataP)
		case OpDiv:
			floats.Scale(1./a, p.DataP)
		case OpPow:
			for i, val := range p.DataP {
				p.DataP[i] = math.Pow(val, a)
			}
		}
	}
	return
}

// ScalarCombine returns a op t elementwise, the mirror of CombineScalar.
func (t Tensor) ScalarCombine(op ArithOp, a float64) (R Tensor) {
	R = t.Copy()
	for _, p := range R.Planes {
		for i, val := range p.DataP {
			p.DataP[i] = op.Eval(a, val)
		}
	}
	return
}

// LinearCombination returns sum(coeffs[n] * T[n]); all tensors must share a shape.
func LinearCombination(coeffs []float64, T ...Tensor) (R Tensor, err error) {
	if len(coeffs) != len(T) || len(T) == 0 {
		err = fmt.Errorf("%w: %d coefficients for %d tensors", ErrShapeMismatch, len(coeffs), len(T))
		return
	}
	R = T[0].CombineScalar(OpMul, coeffs[0])
	for n := 1; n < len(T); n++ {
		if R.Shape() != T[n].Shape() {
			err = fmt.Errorf("%w: %v and %v", ErrShapeMismatch, R.Shape(), T[n].Shape())
			return
		}
		for k, p := range R.Planes {
			floats.AddScaled(p.DataP, coeffs[n], T[n].Planes[k].DataP)
		}
	}
	return
}

func (t Tensor) Pad(left, right, top, bottom int, mode PadMode) Tensor {
	return t.mapPlanes(func(p Matrix) Matrix {
		return p.Pad(left, right, top, bottom, mode)
	})
}

// Window applies Matrix.Window to every plane.
func (t Tensor) Window(rowOff, colOff, h, w int) Tensor {
	return t.mapPlanes(func(p Matrix) Matrix {
		return p.Window(rowOff, colOff, h, w)
	})
}

func (t Tensor) Rows(i1, i2 int) Tensor {
	_, nc := t.Dims()
	return t.Window(i1, 0, i2-i1, nc)
}

func (t Tensor) Cols(j1, j2 int) Tensor {
	nr, _ := t.Dims()
	return t.Window(0, j1, nr, j2-j1)
}

// AssignRow overwrites row i of every plane with the single row of src.
func (t Tensor) AssignRow(i int, src Tensor) (err error) { // Changes receiver
	var (
		nr, nc   = t.Dims()
		nrS, ncS = src.Dims()
	)
	if nrS != 1 || ncS != nc || len(src.Planes) != len(t.Planes) || i < 0 || i >= nr {
		err = fmt.Errorf("%w: cannot assign %v to row %d of %v", ErrShapeMismatch, src.Shape(), i, t.Shape())
		return
	}
	for n, p := range t.Planes {
		p.checkWritable()
		copy(p.DataP[i*nc:(i+1)*nc], src.Planes[n].DataP)
	}
	return
}

// AssignCol overwrites column j of every plane with the single column of src.
func (t Tensor) AssignCol(j int, src Tensor) (err error) { // Changes receiver
	var (
		nr, nc   = t.Dims()
		nrS, ncS = src.Dims()
	)
	if ncS != 1 || nrS != nr || len(src.Planes) != len(t.Planes) || j < 0 || j >= nc {
		err = fmt.Errorf("%w: cannot assign %v to column %d of %v", ErrShapeMismatch, src.Shape(), j, t.Shape())
		return
	}
	for n, p := range t.Planes {
		p.checkWritable()
		for i := 0; i < nr; i++ {
			p.DataP[i*nc+j] = src.Planes[n].DataP[i]
		}
	}
	return
}

// Where selects t where mask > 0.5 and other elsewhere.
func (t Tensor) Where(mask, other Tensor) (R Tensor, err error) {
	var (
		nb, nc     int
		nr, ncol   = t.Dims()
		nrM, ncolM = mask.Dims()
	)
	if nb, nc, err = t.broadcastShape(other); err != nil {
		return
	}
	if nrM != nr || ncolM != ncol || (len(mask.Planes) != 1 && len(mask.Planes) != nb*nc) {
		err = fmt.Errorf("%w: mask %v for %v", ErrShapeMismatch, mask.Shape(), t.Shape())
		return
	}
	R = NewTensor(nb, nc, nr, ncol)
	for n, p := range R.Planes {
		var (
			s = planeOf(t, n).DataP
			o = planeOf(other, n).DataP
			m = planeOf(mask, n).DataP
		)
		for i := range p.DataP {
			if m[i] > 0.5 {
				p.DataP[i] = s[i]
			} else {
				p.DataP[i] = o[i]
			}
		}
	}
	return
}

// Threshold returns 1 where op(value, target) holds and 0 elsewhere.
func (t Tensor) Threshold(op EvalOp, target float64) Tensor {
	return t.mapPlanes(func(p Matrix) Matrix {
		nr, nc := p.Dims()
		R := NewMatrix(nr, nc)
		for i, val := range p.DataP {
			if op.Eval(val, target) {
				R.DataP[i] = 1
			}
		}
		return R
	})
}

/*
Correlate applies a valid-mode correlation with kernel to every plane. The
planes are split into ParallelDegree partitions, each handled by its own
goroutine; ParallelDegree <= 0 uses one goroutine per CPU.
*/
func (t Tensor) Correlate(kernel Matrix, ParallelDegree int) (R Tensor) {
	var (
		nPlanes = len(t.Planes)
		wg      sync.WaitGroup
	)
	R = Tensor{Nb: t.Nb, Nc: t.Nc, Planes: make([]Matrix, nPlanes)}
	if ParallelDegree <= 0 {
		ParallelDegree = runtime.NumCPU()
	}
	if ParallelDegree > nPlanes {
		ParallelDegree = nPlanes
	}
	if ParallelDegree <= 1 {
		for n, p := range t.Planes {
			R.Planes[n] = p.Correlate(kernel)
		}
		return
	}
	pm := NewPartitionMap(ParallelDegree, nPlanes)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for n := kMin; n < kMax; n++ {
				R.Planes[n] = t.Planes[n].Correlate(kernel)
			}
		}(np)
	}
	wg.Wait()
	return
}

// ConcatChannels stacks tensors with equal batch and plane sizes along the
// channel axis.
func ConcatChannels(T ...Tensor) (R Tensor, err error) {
	if len(T) == 0 {
		return
	}
	var (
		nb       = T[0].Nb
		nr, ncol = T[0].Dims()
	)
	for _, A := range T {
		nrA, ncolA := A.Dims()
		if A.Nb != nb || nrA != nr || ncolA != ncol {
			err = fmt.Errorf("%w: cannot concatenate %v with %v", ErrShapeMismatch, A.Shape(), T[0].Shape())
			return
		}
		R.Nc += A.Nc
	}
	R.Nb = nb
	R.Planes = make([]Matrix, 0, R.Nb*R.Nc)
	for b := 0; b < nb; b++ {
		for _, A := range T {
			for c := 0; c < A.Nc; c++ {
				R.Planes = append(R.Planes, A.Plane(b, c))
			}
		}
	}
	return
}

func (t Tensor) Equal(A Tensor) bool {
	if t.Shape() != A.Shape() {
		return false
	}
	for n, p := range t.Planes {
		if !floats.Equal(p.DataP, A.Planes[n].DataP) {
			return false
		}
	}
	return true
}

func (t Tensor) EqualApprox(A Tensor, tol float64) bool {
	if t.Shape() != A.Shape() {
		return false
	}
	for n, p := range t.Planes {
		if !floats.EqualApprox(p.DataP, A.Planes[n].DataP, tol) {
			return false
		}
	}
	return true
}

// MaxAbs returns the infinity norm over all planes.
func (t Tensor) MaxAbs() (m float64) {
	for _, p := range t.Planes {
		m = math.Max(m, floats.Norm(p.DataP, math.Inf(1)))
	}
	return
}
