package hybrid

import (
	"fmt"

	"github.com/kpfaulkner/hybrid-go/filter"
	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/kpfaulkner/hybrid-go/options"
	log "github.com/sirupsen/logrus"
)

// Hybridize filters img1 and img2 according to opts, blends them at
// opts.MixinRatio and returns an 8 bit buffer.
//
// img1 is weighted by 2*(1-ratio) and img2 by 2*ratio, so at 0.5 each
// contributes its full filtered value. If img1 holds 8 bit samples both
// images are first mapped into [0,1].
func Hybridize(img1 *image.ImageBuffer, img2 *image.ImageBuffer, opts options.HybridOptions) (*image.ImageBuffer, error) {
	if !img1.SameShape(img2) {
		return nil, fmt.Errorf("hybridize %v with %v: %w", img1.Shape(), img2.Shape(), image.ErrShapeMismatch)
	}

	a, b := img1, img2
	if img1.IsUint8() {
		a = img1.Divide(255)
		b = img2.Divide(255)
	}

	fa, err := filter.Apply(a, opts.First)
	if err != nil {
		log.Errorf("Error filtering first image %v", err)
		return nil, err
	}
	fb, err := filter.Apply(b, opts.Second)
	if err != nil {
		log.Errorf("Error filtering second image %v", err)
		return nil, err
	}

	ratio := opts.MixinRatio
	log.Debugf("hybrid %s/%s ratio %v", opts.First.ModeName(), opts.Second.ModeName(), ratio)

	fa.ScaleInPlace(2 * (1 - ratio))
	fb.ScaleInPlace(2 * ratio)
	if err := fa.AddInPlace(fb); err != nil {
		return nil, err
	}
	return fa.ToUint8(), nil
}

// HybridizeWith is Hybridize with every parameter spelled out.
func HybridizeWith(img1 *image.ImageBuffer, img2 *image.ImageBuffer,
	sigma1 float64, size1 int, mode1 string,
	sigma2 float64, size2 int, mode2 string,
	ratio float64) (*image.ImageBuffer, error) {

	return Hybridize(img1, img2, options.HybridOptions{
		First:      options.FilterOptions{Sigma: sigma1, Size: size1, Mode: mode1},
		Second:     options.FilterOptions{Sigma: sigma2, Size: size2, Mode: mode2},
		MixinRatio: ratio,
	})
}
