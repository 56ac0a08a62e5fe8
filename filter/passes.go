package filter

import (
	"fmt"

	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/kernel"
	"github.com/kpfaulkner/hybrid-go/options"
)

// LowPass blurs img with a size x size Gaussian of the given sigma.
func LowPass(img *image.ImageBuffer, sigma float64, size int) (*image.ImageBuffer, error) {
	return Convolve(img, kernel.GaussianKernel(sigma, size, size))
}

// HighPass returns img minus its LowPass, leaving the fine detail.
func HighPass(img *image.ImageBuffer, sigma float64, size int) (*image.ImageBuffer, error) {
	return highPass(img, kernel.GaussianKernel(sigma, size, size))
}

func highPass(img *image.ImageBuffer, k *kernel.Kernel) (*image.ImageBuffer, error) {
	low, err := Convolve(img, k)
	if err != nil {
		return nil, err
	}
	return img.Sub(low)
}

// blurKernel is the size x size kernel opts asks for.
func blurKernel(opts options.FilterOptions) *kernel.Kernel {
	if opts.IsBox() {
		return kernel.BoxKernel(opts.Size, opts.Size)
	}
	return kernel.GaussianKernel(opts.Sigma, opts.Size, opts.Size)
}

// Apply runs a low or high pass depending on opts.Mode, blurring with the
// kernel named by opts.Kernel.
func Apply(img *image.ImageBuffer, opts options.FilterOptions) (*image.ImageBuffer, error) {
	k := blurKernel(opts)

	var out *image.ImageBuffer
	var err error
	if opts.IsLowPass() {
		out, err = Convolve(img, k)
	} else {
		out, err = highPass(img, k)
	}
	if err != nil {
		return nil, fmt.Errorf("%s pass %s sigma %v size %d: %w", opts.ModeName(), opts.KernelName(), opts.Sigma, opts.Size, err)
	}
	return out, nil
}
