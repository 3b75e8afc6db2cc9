package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Matrix is one row-major (height x width) plane of a field.
type Matrix struct {
	M        *mat.Dense
	DataP    []float64
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:     m,
		DataP: m.RawMatrix().Data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }

// Chainable methods (extended)
func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) IsReadOnly() bool { return m.readOnly }

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

// Window returns an h x w matrix R with R[i,j] = m[i+rowOff, j+colOff] and
// zero where the source index falls outside m.
func (m Matrix) Window(rowOff, colOff, h, w int) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(h, w)
	for i := 0; i < h; i++ {
		iS := i + rowOff
		if iS < 0 || iS >= nr {
			continue
		}
		for j := 0; j < w; j++ {
			jS := j + colOff
			if jS < 0 || jS >= nc {
				continue
			}
			R.DataP[i*w+j] = m.DataP[iS*nc+jS]
		}
	}
	return
}

type PadMode uint8

const (
	PadZero PadMode = iota
	PadCircular
)

// Pad grows the matrix by the given number of cells on each side, filling
// with zeros or by wrapping the opposite edge.
func (m Matrix) Pad(left, right, top, bottom int, mode PadMode) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		nrR    = nr + top + bottom
		ncR    = nc + left + right
	)
	if mode == PadZero {
		return m.Window(-top, -left, nrR, ncR)
	}
	R = NewMatrix(nrR, ncR)
	for i := 0; i < nrR; i++ {
		iS := mod(i-top, nr)
		for j := 0; j < ncR; j++ {
			jS := mod(j-left, nc)
			R.DataP[i*ncR+j] = m.DataP[iS*nc+jS]
		}
	}
	return
}

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Correlate slides kernel over m without further padding (valid mode) and
// returns the weighted sums, the same arithmetic as a stride-1 conv2d.
func (m Matrix) Correlate(kernel Matrix) (R Matrix) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		kr, kc   = kernel.Dims()
		nrR, ncR = nr - kr + 1, nc - kc + 1
	)
	if nrR < 1 || ncR < 1 {
		panic(fmt.Errorf("kernel %dx%d larger than matrix %dx%d", kr, kc, nr, nc))
	}
	type tap struct {
		offset int
		w      float64
	}
	var taps []tap
	for a := 0; a < kr; a++ {
		for b := 0; b < kc; b++ {
			if w := kernel.DataP[a*kc+b]; w != 0 {
				taps = append(taps, tap{a*nc + b, w})
			}
		}
	}
	R = NewMatrix(nrR, ncR)
	for i := 0; i < nrR; i++ {
		for j := 0; j < ncR; j++ {
			var (
				base = i*nc + j
				sum  float64
			)
			for _, t := range taps {
				sum += t.w * m.DataP[base+t.offset]
			}
			R.DataP[i*ncR+j] = sum
		}
	}
	return
}

func (m Matrix) Equal(A Matrix) bool {
	return mat.Equal(m.M, A.M)
}

func (m Matrix) Print(msgI ...string) (o string) {
	var (
		name = ""
	)
	if len(msgI) != 0 {
		name = msgI[0]
	}
	o = fmt.Sprintf("%s = \n%v\n", name, mat.Formatted(m.M, mat.Squeeze()))
	return
}
