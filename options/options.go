package options

import (
	"strings"

	"github.com/kpfaulkner/hybrid-go/util"
)

const (
	ModeLow  = "low"
	ModeHigh = "high"

	KernelGaussian = "gaussian"
	KernelBox      = "box"
)

// FilterOptions selects one low or high pass. Any Mode other than "low"
// (case insensitive) is treated as a high pass. Kernel picks the blur, a
// Gaussian unless it is "box"; Sigma is ignored for box blurs.
type FilterOptions struct {
	Sigma  float64
	Size   int
	Mode   string
	Kernel string
}

func (f FilterOptions) IsBox() bool {
	return strings.ToLower(f.Kernel) == KernelBox
}

func (f FilterOptions) IsLowPass() bool {
	return strings.ToLower(f.Mode) == ModeLow
}

// ModeName is the normalised mode, either "low" or "high".
func (f FilterOptions) ModeName() string {
	return util.IfThenElse(f.IsLowPass(), ModeLow, ModeHigh)
}

func (f FilterOptions) KernelName() string {
	return util.IfThenElse(f.IsBox(), KernelBox, KernelGaussian)
}

type HybridOptions struct {
	First      FilterOptions
	Second     FilterOptions
	MixinRatio float64
}

func NewHybridOptions(options *HybridOptions) *HybridOptions {

	opt := &HybridOptions{
		First:      FilterOptions{Sigma: 2, Size: 9, Mode: ModeLow, Kernel: KernelGaussian},
		Second:     FilterOptions{Sigma: 2, Size: 9, Mode: ModeHigh, Kernel: KernelGaussian},
		MixinRatio: 0.5,
	}
	if options != nil {
		opt.First = options.First
		opt.Second = options.Second
		opt.MixinRatio = options.MixinRatio
	}
	return opt
}

type PyramidOptions struct {
	Debug   bool
	Levels  int
	Weights []float64
}

func NewPyramidOptions(options *PyramidOptions) *PyramidOptions {

	opt := &PyramidOptions{Levels: 4}
	if options != nil {
		opt.Debug = options.Debug
		opt.Levels = options.Levels
		if options.Weights != nil {
			opt.Weights = make([]float64, len(options.Weights))
			copy(opt.Weights, options.Weights)
		}
	}
	return opt
}
