package pyramid

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/hybrid-go/filter"
	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/kernel"
	"github.com/kpfaulkner/hybrid-go/util"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidLevels         = errors.New("pyramid needs at least one level")
	ErrIndivisibleDimensions = errors.New("image dimensions not divisible by 2^(levels-1)")
	ErrWeightCount           = errors.New("need exactly one weight per pyramid level")
	ErrEmptyPyramid          = errors.New("pyramid has no levels")
)

// Pyramid is a Laplacian pyramid. Entry i < len-1 holds the detail lost between
// Gaussian levels i and i+1, at 1/2^i of the original resolution. The last entry
// is the coarsest low pass image.
type Pyramid []*image.ImageBuffer

func (p Pyramid) Levels() int {
	return len(p)
}

// Clone deep copies every level.
func (p Pyramid) Clone() Pyramid {
	c := make(Pyramid, len(p))
	for i, level := range p {
		c[i] = level.Clone()
	}
	return c
}

func checkDimensions(img *image.ImageBuffer, levels int) error {
	if levels < 1 {
		return fmt.Errorf("%d levels: %w", levels, ErrInvalidLevels)
	}
	if !util.IsPowerOfTwoMultiple(img.Height, levels-1) || !util.IsPowerOfTwoMultiple(img.Width, levels-1) {
		return fmt.Errorf("%dx%d with %d levels: %w", img.Height, img.Width, levels, ErrIndivisibleDimensions)
	}
	return nil
}

// GaussianPyramid returns levels images, each the previous one blurred with the
// 5 tap pyramid kernel and decimated by 2 in both directions. Level 0 is a float
// copy of img.
func GaussianPyramid(img *image.ImageBuffer, levels int) (Pyramid, error) {
	if err := checkDimensions(img, levels); err != nil {
		return nil, err
	}

	k := kernel.PyramidKernel()
	gauss := make(Pyramid, levels)
	gauss[0] = img.AsFloat()
	for i := 1; i < levels; i++ {
		blurred, err := filter.SeparableFilter(gauss[i-1], k)
		if err != nil {
			log.Errorf("Error blurring pyramid level %d %v", i-1, err)
			return nil, err
		}
		gauss[i] = Decimate(blurred)
		log.Debugf("gaussian level %d is %v", i, gauss[i].Shape())
	}
	return gauss, nil
}

// Build decomposes img into a Laplacian pyramid with the given number of levels.
// Height and width must both be divisible by 2^(levels-1); this is checked before
// any filtering happens.
func Build(img *image.ImageBuffer, levels int) (Pyramid, error) {
	gauss, err := GaussianPyramid(img, levels)
	if err != nil {
		return nil, err
	}

	lap := make(Pyramid, levels)
	lap[levels-1] = gauss[levels-1].Clone()
	for i := levels - 2; i >= 0; i-- {
		diff, err := gauss[i].Sub(Upsample(gauss[i+1]))
		if err != nil {
			return nil, fmt.Errorf("laplacian level %d: %w", i, err)
		}
		lap[i] = diff
	}
	return lap, nil
}

// Decimate keeps every second row and column starting at 0.
func Decimate(img *image.ImageBuffer) *image.ImageBuffer {
	out := img.NewSized(img.BufferType, (img.Height+1)/2, (img.Width+1)/2)
	ch := img.Channels
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			copy(out.Pix[out.Index(y, x, 0):out.Index(y, x, 0)+ch], img.Pix[img.Index(2*y, 2*x, 0):img.Index(2*y, 2*x, 0)+ch])
		}
	}
	return out
}

// Upsample doubles the resolution of img by copying each pixel into a 2x2 block.
// Channel count and rank follow img.
func Upsample(img *image.ImageBuffer) *image.ImageBuffer {
	out := img.NewSized(img.BufferType, 2*img.Height, 2*img.Width)
	upsampleInto(out.Pix, img)
	return out
}

// upsampleInto writes the 2x nearest neighbour enlargement of src into dst, which
// must hold 4*len(src.Pix) samples.
func upsampleInto(dst []float64, src *image.ImageBuffer) {
	ch := src.Channels
	dstWidth := 2 * src.Width
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			s := src.Pix[src.Index(y, x, 0) : src.Index(y, x, 0)+ch]
			for _, off := range [4][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
				d := ((2*y+off[0])*dstWidth + 2*x + off[1]) * ch
				copy(dst[d:d+ch], s)
			}
		}
	}
}

// Reconstruct collapses p back into a single image. With nil weights the result
// equals the image p was built from. Otherwise each level is first multiplied by
// its weight, which must be supplied for every level.
//
// p itself is never modified; the accumulation happens on a private copy.
func Reconstruct(p Pyramid, weights []float64) (*image.ImageBuffer, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPyramid
	}
	if weights != nil && len(weights) != len(p) {
		return nil, fmt.Errorf("%d weights for %d levels: %w", len(weights), len(p), ErrWeightCount)
	}

	var work Pyramid
	if weights == nil {
		work = p.Clone()
	} else {
		work = make(Pyramid, len(p))
		for i, w := range weights {
			work[i] = p[i].Scale(w)
		}
	}

	for i := len(work) - 1; i > 0; i-- {
		coarse := work[i]
		finer := work[i-1]
		if finer.Height != 2*coarse.Height || finer.Width != 2*coarse.Width || finer.Channels != coarse.Channels {
			return nil, fmt.Errorf("level %d is %v but level %d is %v: %w",
				i-1, finer.Shape(), i, coarse.Shape(), image.ErrShapeMismatch)
		}

		scratch := util.GetFloat64Slice(len(finer.Pix))
		upsampleInto(scratch, coarse)
		floats.Add(finer.Pix, scratch)
		util.ReturnFloat64Slice(scratch)
		finer.BufferType = image.TYPE_FLOAT
	}
	return work[0], nil
}
