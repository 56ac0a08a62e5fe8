package pyramid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomImage(t *testing.T, seed int64, height int, width int, channels int) *image.ImageBuffer {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	n := height * width * channels
	if channels == 0 {
		n = height * width
	}
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = r.Float64() * 255
	}
	img, err := image.NewImageBufferFromSamples(height, width, channels, samples)
	require.Nil(t, err)
	return img
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestZeroImageTwoLevels(t *testing.T) {
	img, err := image.NewImageBuffer(image.TYPE_FLOAT, 4, 4, 3)
	require.Nil(t, err)

	p, err := Build(img, 2)
	require.Nil(t, err)
	require.Equal(t, 2, p.Levels())

	assert.Equal(t, []int{4, 4, 3}, p[0].Shape())
	assert.Equal(t, []int{2, 2, 3}, p[1].Shape())
	for _, level := range p {
		for _, v := range level.Pix {
			assert.Equal(t, 0.0, v)
		}
	}

	rec, err := Reconstruct(p, nil)
	require.Nil(t, err)
	assert.Equal(t, []int{4, 4, 3}, rec.Shape())
	assert.True(t, img.Equals(*rec))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		height, width, channels int
	}{
		{16, 16, 3},
		{8, 24, 0},
		{32, 16, 1},
		{16, 8, 4},
	}

	for _, tt := range tests {
		for levels := 1; levels <= 4; levels++ {
			img := randomImage(t, int64(levels), tt.height, tt.width, tt.channels)

			p, err := Build(img, levels)
			require.Nil(t, err)
			require.Equal(t, levels, p.Levels())

			rec, err := Reconstruct(p, nil)
			require.Nil(t, err)

			assert.Equal(t, img.Shape(), rec.Shape())
			if diff := cmp.Diff(img.Pix, rec.Pix, approx); diff != "" {
				t.Errorf("round trip %v levels %d mismatch (-orig +rec):\n%s", img.Shape(), levels, diff)
			}
		}
	}
}

func TestRoundTripUint8Input(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	samples := make([]uint8, 8*8*3)
	for i := range samples {
		samples[i] = uint8(r.Intn(256))
	}
	img, err := image.NewImageBufferFromSamples(8, 8, 3, samples)
	require.Nil(t, err)

	p, err := Build(img, 3)
	require.Nil(t, err)
	for _, level := range p {
		assert.True(t, level.IsFloat())
	}

	rec, err := Reconstruct(p, nil)
	require.Nil(t, err)
	assert.True(t, img.EqualsWithTolerance(rec, 1e-9))
}

func TestLevelShapes(t *testing.T) {
	img := randomImage(t, 1, 16, 32, 3)

	p, err := Build(img, 4)
	require.Nil(t, err)

	want := [][]int{{16, 32, 3}, {8, 16, 3}, {4, 8, 3}, {2, 4, 3}}
	for i, level := range p {
		assert.Equal(t, want[i], level.Shape())
	}

	gauss, err := GaussianPyramid(img, 4)
	require.Nil(t, err)
	for i, level := range gauss {
		assert.Equal(t, want[i], level.Shape())
	}
	// coarsest laplacian level is the coarsest gaussian level
	assert.True(t, gauss[3].Equals(*p[3]))
}

func TestWeightedOnesEqualsUnweighted(t *testing.T) {
	img := randomImage(t, 5, 16, 16, 3)

	p, err := Build(img, 4)
	require.Nil(t, err)
	again, err := Build(img, 4)
	require.Nil(t, err)
	assert.True(t, image.ImageBufferSliceEquals(p, again))

	unweighted, err := Reconstruct(p, nil)
	require.Nil(t, err)
	weighted, err := Reconstruct(p, []float64{1, 1, 1, 1})
	require.Nil(t, err)

	assert.True(t, unweighted.Equals(*weighted))
}

func TestWeightsIsolateBase(t *testing.T) {
	img := randomImage(t, 6, 8, 8, 0)

	p, err := Build(img, 3)
	require.Nil(t, err)

	rec, err := Reconstruct(p, []float64{0, 0, 1})
	require.Nil(t, err)

	want := Upsample(Upsample(p[2]))
	if diff := cmp.Diff(want.Pix, rec.Pix, approx); diff != "" {
		t.Errorf("base only reconstruction mismatch (-want +got):\n%s", diff)
	}
}

func TestWeightsScaleDetail(t *testing.T) {
	img := randomImage(t, 7, 8, 8, 3)

	p, err := Build(img, 2)
	require.Nil(t, err)

	rec, err := Reconstruct(p, []float64{2, 1})
	require.Nil(t, err)

	// doubling the detail band adds exactly one more copy of it
	want, err := img.Add(p[0])
	require.Nil(t, err)
	if diff := cmp.Diff(want.Pix, rec.Pix, approx); diff != "" {
		t.Errorf("sharpened reconstruction mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstructDoesNotMutatePyramid(t *testing.T) {
	img := randomImage(t, 8, 8, 8, 3)

	p, err := Build(img, 3)
	require.Nil(t, err)
	orig := p.Clone()

	_, err = Reconstruct(p, nil)
	require.Nil(t, err)
	_, err = Reconstruct(p, []float64{0.5, 3, -1})
	require.Nil(t, err)

	assert.True(t, image.ImageBufferSliceEquals(orig, p))
}

func TestBuildDoesNotMutateImage(t *testing.T) {
	img := randomImage(t, 9, 8, 8, 3)
	orig := img.Clone()

	_, err := Build(img, 4)
	require.Nil(t, err)
	assert.True(t, orig.Equals(*img))
}

func TestBuildIndivisible(t *testing.T) {
	tests := []struct {
		height, width, levels int
	}{
		{6, 8, 3},
		{8, 6, 3},
		{12, 12, 4},
		{5, 4, 2},
	}

	for _, tt := range tests {
		img, err := image.NewImageBuffer(image.TYPE_FLOAT, tt.height, tt.width, 3)
		require.Nil(t, err)

		_, err = Build(img, tt.levels)
		assert.True(t, errors.Is(err, ErrIndivisibleDimensions), "%dx%d levels %d", tt.height, tt.width, tt.levels)
	}

	// any size works with a single level
	img, _ := image.NewImageBuffer(image.TYPE_FLOAT, 5, 7, 3)
	p, err := Build(img, 1)
	require.Nil(t, err)
	assert.Equal(t, 1, p.Levels())
}

func TestBuildInvalidLevels(t *testing.T) {
	img, _ := image.NewImageBuffer(image.TYPE_FLOAT, 4, 4, 3)

	_, err := Build(img, 0)
	assert.True(t, errors.Is(err, ErrInvalidLevels))
}

func TestReconstructErrors(t *testing.T) {
	_, err := Reconstruct(nil, nil)
	assert.True(t, errors.Is(err, ErrEmptyPyramid))

	img := randomImage(t, 10, 4, 4, 3)
	p, err := Build(img, 2)
	require.Nil(t, err)

	_, err = Reconstruct(p, []float64{1})
	assert.True(t, errors.Is(err, ErrWeightCount))

	bad := Pyramid{p[0], p[0]}
	_, err = Reconstruct(bad, nil)
	assert.True(t, errors.Is(err, image.ErrShapeMismatch))
}

func TestUpsampleSinglePixel(t *testing.T) {
	img, err := image.NewImageBufferFromSamples(1, 1, 3, []float64{1, 2, 3})
	require.Nil(t, err)

	up := Upsample(img)
	assert.Equal(t, []int{2, 2, 3}, up.Shape())
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, 1.0, up.At(y, x, 0))
			assert.Equal(t, 2.0, up.At(y, x, 1))
			assert.Equal(t, 3.0, up.At(y, x, 2))
		}
	}
}

func TestUpsampleChannelsAndRank(t *testing.T) {
	for _, channels := range []int{0, 1, 3, 4} {
		img := randomImage(t, int64(channels), 2, 3, channels)

		up := Upsample(img)
		assert.Equal(t, img.Rank(), up.Rank())
		assert.Equal(t, img.Channels, up.Channels)
		assert.Equal(t, 4, up.Height)
		assert.Equal(t, 6, up.Width)

		for y := 0; y < up.Height; y++ {
			for x := 0; x < up.Width; x++ {
				for c := 0; c < up.Channels; c++ {
					assert.Equal(t, img.At(y/2, x/2, c), up.At(y, x, c))
				}
			}
		}
	}
}

func TestDecimate(t *testing.T) {
	img, err := image.NewImageBufferFromSamples(4, 4, 0, []float64{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
		12, 13, 14, 15,
	})
	require.Nil(t, err)

	d := Decimate(img)
	assert.Equal(t, []int{2, 2}, d.Shape())
	assert.Equal(t, []float64{0, 2, 8, 10}, d.Pix)

	// odd sizes keep the trailing row and column like a [::2] slice
	odd, _ := image.NewImageBuffer(image.TYPE_FLOAT, 5, 3, 2)
	assert.Equal(t, []int{3, 2, 2}, Decimate(odd).Shape())
}
