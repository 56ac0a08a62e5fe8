package imageformats

import (
	"fmt"
	goimage "image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/kpfaulkner/hybrid-go/image"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Decode reads any registered format (png, jpeg, gif, bmp, tiff) into an 8 bit buffer.
func Decode(r io.Reader) (*image.ImageBuffer, error) {
	img, format, err := goimage.Decode(r)
	if err != nil {
		return nil, err
	}
	log.Debugf("decoded %s image %v", format, img.Bounds())
	return FromImage(img)
}

// FromImage converts img into a TYPE_UINT8 buffer. Gray sources become rank 2
// buffers, everything else 3 channel RGB. Alpha is dropped.
func FromImage(img goimage.Image) (*image.ImageBuffer, error) {
	b := img.Bounds()
	height, width := b.Dy(), b.Dx()

	switch src := img.(type) {
	case *goimage.Gray:
		buf, err := image.NewGrayImageBuffer(image.TYPE_UINT8, height, width)
		if err != nil {
			return nil, err
		}
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				buf.Set(y, x, 0, float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
		return buf, nil
	}

	buf, err := image.NewImageBuffer(image.TYPE_UINT8, height, width, 3)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := buf.Index(y, x, 0)
			buf.Pix[i] = float64(c.R)
			buf.Pix[i+1] = float64(c.G)
			buf.Pix[i+2] = float64(c.B)
		}
	}
	return buf, nil
}

// ToImage converts buf into a Go image. Float buffers are taken to be in [0,1],
// 8 bit buffers in 0..255. 1 channel gives *image.Gray, 3 or 4 give *image.NRGBA.
func ToImage(buf *image.ImageBuffer) (goimage.Image, error) {
	q := buf
	if buf.IsFloat() {
		q = buf.ToUint8()
	}
	pix := q.Bytes()

	rect := goimage.Rect(0, 0, buf.Width, buf.Height)
	switch buf.Channels {
	case 1:
		out := goimage.NewGray(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: pix[buf.Index(y, x, 0)]})
			}
		}
		return out, nil
	case 3, 4:
		out := goimage.NewNRGBA(rect)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				i := buf.Index(y, x, 0)
				c := color.NRGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: 255}
				if buf.Channels == 4 {
					c.A = pix[i+3]
				}
				out.SetNRGBA(x, y, c)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("image with %d channels: %w", buf.Channels, ErrUnsupportedChannels)
}

func WritePNG(buf *image.ImageBuffer, output io.Writer) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	return png.Encode(output, img)
}
