package imageformats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kpfaulkner/hybrid-go/image"
)

var ErrUnsupportedChannels = errors.New("unsupported channel count")

// WritePFM writes buf as a portable float map. Samples are written as is, so
// negative Laplacian detail survives. Rows go bottom to top as the format requires.
func WritePFM(buf *image.ImageBuffer, output io.Writer) error {

	var pf string
	switch buf.Channels {
	case 1:
		pf = "Pf"
	case 3:
		pf = "PF"
	default:
		return fmt.Errorf("pfm with %d channels: %w", buf.Channels, ErrUnsupportedChannels)
	}

	header := fmt.Sprintf("%s\n%d %d\n1.0\n", pf, buf.Width, buf.Height)
	if _, err := output.Write([]byte(header)); err != nil {
		return err
	}

	rowLen := buf.Width * buf.Channels
	row := make([]float32, rowLen)
	var b bytes.Buffer
	for y := buf.Height - 1; y >= 0; y-- {
		start := buf.Index(y, 0, 0)
		for i := 0; i < rowLen; i++ {
			row[i] = float32(buf.Pix[start+i])
		}
		b.Reset()
		if err := binary.Write(&b, binary.BigEndian, row); err != nil {
			return err
		}
		if _, err := output.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// ReadPFM reads a portable float map. "Pf" maps to a rank 2 buffer, "PF" to a
// 3 channel one. A negative scale marks little endian data.
func ReadPFM(r io.Reader) (*image.ImageBuffer, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height int
	var scale float64
	if _, err := fmt.Fscan(br, &magic, &width, &height, &scale); err != nil {
		return nil, fmt.Errorf("reading pfm header: %w", err)
	}
	// exactly one whitespace byte separates the header from the samples
	if _, err := br.ReadByte(); err != nil {
		return nil, err
	}

	var buf *image.ImageBuffer
	var err error
	switch magic {
	case "Pf":
		buf, err = image.NewGrayImageBuffer(image.TYPE_FLOAT, height, width)
	case "PF":
		buf, err = image.NewImageBuffer(image.TYPE_FLOAT, height, width, 3)
	default:
		return nil, fmt.Errorf("unknown pfm magic %q", magic)
	}
	if err != nil {
		return nil, err
	}

	var order binary.ByteOrder = binary.BigEndian
	if scale < 0 {
		order = binary.LittleEndian
	}

	rowLen := width * buf.Channels
	row := make([]float32, rowLen)
	for y := height - 1; y >= 0; y-- {
		if err := binary.Read(br, order, row); err != nil {
			return nil, fmt.Errorf("reading pfm row %d: %w", y, err)
		}
		start := buf.Index(y, 0, 0)
		for i, v := range row {
			buf.Pix[start+i] = float64(v)
		}
	}
	return buf, nil
}
