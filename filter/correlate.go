package filter

import (
	"errors"
	"fmt"

	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/kernel"
	log "github.com/sirupsen/logrus"
)

var ErrEvenKernel = errors.New("kernel dimensions must be odd")

// Correlate slides k over img without flipping it. The image is treated as
// zero padded by Rows()/2 above and below and Cols()/2 left and right, so the
// output has exactly the shape and rank of img. Each channel is processed
// independently and the result is always a float buffer.
func Correlate(img *image.ImageBuffer, k *kernel.Kernel) (*image.ImageBuffer, error) {
	if !k.IsOdd() {
		return nil, fmt.Errorf("correlate with %dx%d kernel: %w", k.Rows(), k.Cols(), ErrEvenKernel)
	}

	kRows := k.Rows()
	kCols := k.Cols()
	halfRows := kRows / 2
	halfCols := kCols / 2
	weights := k.Data()

	log.Debugf("correlating %v with %dx%d kernel summing to %v", img.Shape(), kRows, kCols, k.Sum())

	out := img.NewLike(image.TYPE_FLOAT)
	channels := img.Channels
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			base := out.Index(y, x, 0)
			for ky := 0; ky < kRows; ky++ {
				sy := y + ky - halfRows
				if sy < 0 || sy >= img.Height {
					continue
				}
				for kx := 0; kx < kCols; kx++ {
					sx := x + kx - halfCols
					if sx < 0 || sx >= img.Width {
						continue
					}
					w := weights[ky*kCols+kx]
					src := img.Index(sy, sx, 0)
					for c := 0; c < channels; c++ {
						out.Pix[base+c] += w * img.Pix[src+c]
					}
				}
			}
		}
	}
	return out, nil
}

// Convolve is true convolution: correlation with k flipped along both axes.
func Convolve(img *image.ImageBuffer, k *kernel.Kernel) (*image.ImageBuffer, error) {
	return Correlate(img, k.Flip())
}

// SeparableFilter correlates with a 1D kernel and then with its transpose.
// For a 1xN row kernel this equals correlating with the outer product of the kernel with itself.
func SeparableFilter(img *image.ImageBuffer, k1d *kernel.Kernel) (*image.ImageBuffer, error) {
	tmp, err := Correlate(img, k1d)
	if err != nil {
		return nil, err
	}
	return Correlate(tmp, k1d.T())
}
