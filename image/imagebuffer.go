package image

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/hybrid-go/util"
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

const (
	TYPE_UINT8 = 0
	TYPE_FLOAT = 1
)

var ErrShapeMismatch = errors.New("image buffers have different shapes")

// ImageBuffer is a height x width x channels block of samples stored row major
// with channels interleaved. Samples are always held as float64; BufferType
// records whether they came from 8 bit data (0..255) or are already floating point.
//
// A rank 2 buffer is a single channel image without a channel axis. It behaves
// exactly like a rank 3 buffer with one channel but keeps its rank through
// every operation.
type ImageBuffer struct {
	Height     int
	Width      int
	Channels   int
	BufferType int

	Pix []float64

	rank int
}

// NewImageBuffer creates a zeroed rank 3 buffer.
func NewImageBuffer(t int, height int, width int, channels int) (*ImageBuffer, error) {
	if height <= 0 || width <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%dx%d", height, width, channels)
	}
	return &ImageBuffer{
		Height:     height,
		Width:      width,
		Channels:   channels,
		BufferType: t,
		Pix:        make([]float64, height*width*channels),
		rank:       3,
	}, nil
}

// NewGrayImageBuffer creates a zeroed rank 2 buffer.
func NewGrayImageBuffer(t int, height int, width int) (*ImageBuffer, error) {
	ib, err := NewImageBuffer(t, height, width, 1)
	if err != nil {
		return nil, err
	}
	ib.rank = 2
	return ib, nil
}

// NewImageBufferFromSamples copies samples into a new buffer. A channels value of 0
// produces a rank 2 buffer. []uint8 input is tagged TYPE_UINT8, everything else TYPE_FLOAT.
func NewImageBufferFromSamples[T constraints.Integer | constraints.Float](height int, width int, channels int, samples []T) (*ImageBuffer, error) {
	t := TYPE_FLOAT
	if _, ok := any(samples).([]uint8); ok {
		t = TYPE_UINT8
	}

	var ib *ImageBuffer
	var err error
	if channels == 0 {
		ib, err = NewGrayImageBuffer(t, height, width)
	} else {
		ib, err = NewImageBuffer(t, height, width, channels)
	}
	if err != nil {
		return nil, err
	}

	if len(samples) != len(ib.Pix) {
		return nil, fmt.Errorf("expected %d samples for %v, got %d", len(ib.Pix), ib.Shape(), len(samples))
	}
	for i, s := range samples {
		ib.Pix[i] = float64(s)
	}
	return ib, nil
}

func (ib *ImageBuffer) IsFloat() bool {
	return ib.BufferType == TYPE_FLOAT
}

func (ib *ImageBuffer) IsUint8() bool {
	return ib.BufferType == TYPE_UINT8
}

// Rank is 2 for single channel buffers created without a channel axis, 3 otherwise.
func (ib *ImageBuffer) Rank() int {
	return ib.rank
}

func (ib *ImageBuffer) Shape() []int {
	if ib.rank == 2 {
		return []int{ib.Height, ib.Width}
	}
	return []int{ib.Height, ib.Width, ib.Channels}
}

func (ib *ImageBuffer) SameShape(other *ImageBuffer) bool {
	return ib.Height == other.Height && ib.Width == other.Width &&
		ib.Channels == other.Channels && ib.rank == other.rank
}

func (ib *ImageBuffer) Index(y int, x int, c int) int {
	return (y*ib.Width+x)*ib.Channels + c
}

func (ib *ImageBuffer) At(y int, x int, c int) float64 {
	return ib.Pix[ib.Index(y, x, c)]
}

func (ib *ImageBuffer) Set(y int, x int, c int, v float64) {
	ib.Pix[ib.Index(y, x, c)] = v
}

// NewLike returns a zeroed buffer with the same shape and rank as ib.
func (ib *ImageBuffer) NewLike(t int) *ImageBuffer {
	return ib.NewSized(t, ib.Height, ib.Width)
}

// NewSized returns a zeroed buffer with ib's channel count and rank but a new height and width.
func (ib *ImageBuffer) NewSized(t int, height int, width int) *ImageBuffer {
	return &ImageBuffer{
		Height:     height,
		Width:      width,
		Channels:   ib.Channels,
		BufferType: t,
		Pix:        make([]float64, height*width*ib.Channels),
		rank:       ib.rank,
	}
}

func (ib *ImageBuffer) Clone() *ImageBuffer {
	out := ib.NewLike(ib.BufferType)
	copy(out.Pix, ib.Pix)
	return out
}

// Add returns ib + other as a new float buffer.
func (ib *ImageBuffer) Add(other *ImageBuffer) (*ImageBuffer, error) {
	if !ib.SameShape(other) {
		return nil, fmt.Errorf("add %v and %v: %w", ib.Shape(), other.Shape(), ErrShapeMismatch)
	}
	out := ib.NewLike(TYPE_FLOAT)
	floats.AddTo(out.Pix, ib.Pix, other.Pix)
	return out, nil
}

// Sub returns ib - other as a new float buffer.
func (ib *ImageBuffer) Sub(other *ImageBuffer) (*ImageBuffer, error) {
	if !ib.SameShape(other) {
		return nil, fmt.Errorf("subtract %v and %v: %w", ib.Shape(), other.Shape(), ErrShapeMismatch)
	}
	out := ib.NewLike(TYPE_FLOAT)
	floats.SubTo(out.Pix, ib.Pix, other.Pix)
	return out, nil
}

// Scale returns ib * f as a new float buffer.
func (ib *ImageBuffer) Scale(f float64) *ImageBuffer {
	out := ib.NewLike(TYPE_FLOAT)
	floats.ScaleTo(out.Pix, f, ib.Pix)
	return out
}

// Divide returns ib / d as a new float buffer.
func (ib *ImageBuffer) Divide(d float64) *ImageBuffer {
	out := ib.NewLike(TYPE_FLOAT)
	for i, v := range ib.Pix {
		out.Pix[i] = v / d
	}
	return out
}

// AddInPlace accumulates other into ib. Only call this on buffers the caller owns.
func (ib *ImageBuffer) AddInPlace(other *ImageBuffer) error {
	if !ib.SameShape(other) {
		return fmt.Errorf("accumulate %v into %v: %w", other.Shape(), ib.Shape(), ErrShapeMismatch)
	}
	floats.Add(ib.Pix, other.Pix)
	ib.BufferType = TYPE_FLOAT
	return nil
}

// ScaleInPlace multiplies every sample of ib by f. Only call this on buffers the caller owns.
func (ib *ImageBuffer) ScaleInPlace(f float64) {
	floats.Scale(f, ib.Pix)
	ib.BufferType = TYPE_FLOAT
}

// Normalised returns a float copy with 8 bit samples mapped into [0,1].
// Float buffers are copied unchanged.
func (ib *ImageBuffer) Normalised() *ImageBuffer {
	if ib.IsUint8() {
		return ib.Divide(255)
	}
	return ib.AsFloat()
}

// AsFloat returns a copy with the same sample values tagged TYPE_FLOAT.
func (ib *ImageBuffer) AsFloat() *ImageBuffer {
	out := ib.Clone()
	out.BufferType = TYPE_FLOAT
	return out
}

// ToUint8 treats samples as [0,1] floats, scales them to 0..255, clips and
// truncates to whole values. The result is tagged TYPE_UINT8.
func (ib *ImageBuffer) ToUint8() *ImageBuffer {
	out := ib.NewLike(TYPE_UINT8)
	for i, v := range ib.Pix {
		out.Pix[i] = float64(uint8(util.Clamp(v*255.0, 0, 255)))
	}
	return out
}

// Bytes returns the samples clipped to 0..255 as 8 bit values.
func (ib *ImageBuffer) Bytes() []uint8 {
	b := make([]uint8, len(ib.Pix))
	for i, v := range ib.Pix {
		b[i] = uint8(util.Clamp(v, 0, 255))
	}
	return b
}

// Equals compares two ImageBuffers and returns true if they are equal.
func (ib *ImageBuffer) Equals(other ImageBuffer) bool {
	if !ib.SameShape(&other) || ib.BufferType != other.BufferType {
		return false
	}
	return floats.Equal(ib.Pix, other.Pix)
}

// EqualsWithTolerance ignores BufferType and allows each sample to differ by tol.
func (ib *ImageBuffer) EqualsWithTolerance(other *ImageBuffer, tol float64) bool {
	if !ib.SameShape(other) {
		return false
	}
	return floats.EqualApprox(ib.Pix, other.Pix, tol)
}

// ImageBufferSliceEquals compares two lists of buffers element by element.
func ImageBufferSliceEquals(a []*ImageBuffer, b []*ImageBuffer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(*b[i]) {
			return false
		}
	}
	return true
}
