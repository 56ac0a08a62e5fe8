package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel is a small dense matrix of weights. Both dimensions are expected to be odd
// so the kernel has an exact centre. A 1D kernel is a 1xN row; T() turns it into a column.
type Kernel struct {
	m *mat.Dense
}

// NewKernel builds a rows x cols kernel from row major data. data is copied.
func NewKernel(rows int, cols int, data []float64) *Kernel {
	d := make([]float64, rows*cols)
	copy(d, data)
	return &Kernel{m: mat.NewDense(rows, cols, d)}
}

func (k *Kernel) Rows() int {
	r, _ := k.m.Dims()
	return r
}

func (k *Kernel) Cols() int {
	_, c := k.m.Dims()
	return c
}

func (k *Kernel) At(r int, c int) float64 {
	return k.m.At(r, c)
}

// IsOdd reports whether both dimensions are odd.
func (k *Kernel) IsOdd() bool {
	r, c := k.m.Dims()
	return r%2 == 1 && c%2 == 1
}

// Flip returns the kernel reversed along both axes.
func (k *Kernel) Flip() *Kernel {
	r, c := k.m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return k.m.At(r-1-i, c-1-j)
	}, out)
	return &Kernel{m: out}
}

// T returns the transposed kernel.
func (k *Kernel) T() *Kernel {
	return &Kernel{m: mat.DenseCopyOf(k.m.T())}
}

func (k *Kernel) Sum() float64 {
	return mat.Sum(k.m)
}

// Data returns a row major copy of the weights.
func (k *Kernel) Data() []float64 {
	r, c := k.m.Dims()
	d := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		d = append(d, k.m.RawRowView(i)...)
	}
	return d
}

// GaussianKernel builds a height x width circular Gaussian normalised to sum to 1.
// The 1/(2*pi*sigma) prefactor is cancelled by the normalisation, so only the shape matters.
func GaussianKernel(sigma float64, height int, width int) *Kernel {
	halfHeight := height / 2
	halfWidth := width / 2

	data := make([]float64, height*width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x - halfWidth)
			dy := float64(y - halfHeight)
			data[y*width+x] = (1 / (2 * math.Pi * sigma)) * math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
		}
	}
	floats.Scale(1/floats.Sum(data), data)

	return &Kernel{m: mat.NewDense(height, width, data)}
}

// PyramidKernel is the 5 tap binomial [1 4 6 4 1]/16 used to blur pyramid levels.
func PyramidKernel() *Kernel {
	return NewKernel(1, 5, []float64{0.0625, 0.25, 0.375, 0.25, 0.0625})
}

// BoxKernel generates a uniform height x width kernel, every entry 1/(height*width).
func BoxKernel(height int, width int) *Kernel {
	data := make([]float64, height*width)
	val := 1.0 / float64(height*width)
	for i := range data {
		data[i] = val
	}
	return &Kernel{m: mat.NewDense(height, width, data)}
}
