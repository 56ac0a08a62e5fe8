package imageformats

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kpfaulkner/hybrid-go/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPFMRoundTrip(t *testing.T) {
	gray, err := image.NewImageBufferFromSamples(2, 3, 0, []float64{-1.5, 0, 2.25, 3, 4.5, -6})
	require.Nil(t, err)
	rgb, err := image.NewImageBufferFromSamples(2, 1, 3, []float64{-1.5, 0, 2.25, 3, 4.5, -6})
	require.Nil(t, err)

	for _, buf := range []*image.ImageBuffer{gray, rgb} {
		var b bytes.Buffer
		require.Nil(t, WritePFM(buf, &b))

		read, err := ReadPFM(&b)
		require.Nil(t, err)
		assert.Equal(t, buf.Shape(), read.Shape())
		assert.Equal(t, buf.Pix, read.Pix)
	}
}

func TestPFMHeader(t *testing.T) {
	buf, err := image.NewImageBuffer(image.TYPE_FLOAT, 2, 4, 3)
	require.Nil(t, err)

	var b bytes.Buffer
	require.Nil(t, WritePFM(buf, &b))

	assert.True(t, strings.HasPrefix(b.String(), "PF\n4 2\n1.0\n"))
	assert.Equal(t, len("PF\n4 2\n1.0\n")+2*4*3*4, b.Len())
}

func TestPFMBottomToTop(t *testing.T) {
	buf, err := image.NewImageBufferFromSamples(2, 1, 0, []float64{1, 2})
	require.Nil(t, err)

	var b bytes.Buffer
	require.Nil(t, WritePFM(buf, &b))

	data := b.Bytes()[len("Pf\n1 2\n1.0\n"):]
	// 2.0 big endian is 0x40000000 and comes first
	assert.Equal(t, []byte{0x40, 0x00, 0x00, 0x00, 0x3f, 0x80, 0x00, 0x00}, data)
}

func TestReadPFMLittleEndian(t *testing.T) {
	data := []byte("Pf\n1 1\n-1.0\n")
	data = append(data, 0x00, 0x00, 0x80, 0x3f)

	buf, err := ReadPFM(bytes.NewReader(data))
	require.Nil(t, err)
	assert.Equal(t, []float64{1}, buf.Pix)
}

func TestPFMUnsupportedChannels(t *testing.T) {
	buf, err := image.NewImageBuffer(image.TYPE_FLOAT, 1, 1, 4)
	require.Nil(t, err)

	err = WritePFM(buf, &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrUnsupportedChannels))

	_, err = ReadPFM(strings.NewReader("P6\n1 1\n255\n"))
	assert.NotNil(t, err)
}
