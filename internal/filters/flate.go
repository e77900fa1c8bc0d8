package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and reverses any predictor. Data after a
// truncated or corrupt tail is kept when something was already inflated.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil && !(len(out) > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum))) {
		return nil, fmt.Errorf("flate: %w", err)
	}
	return unpredict(out, params)
}

// unpredict reverses the /Predictor transform.
func unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", 1)
	switch {
	case predictor <= 1:
		return data, nil
	case predictor == 2:
		return tiffPredictor(data, params)
	case predictor >= 10 && predictor <= 15:
		return pngPredictor(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor %d", predictor)
}

type rowGeometry struct {
	colors, bpc, columns int
}

func geometry(params Params) rowGeometry {
	return rowGeometry{
		colors:  params.Int("Colors", 1),
		bpc:     params.Int("BitsPerComponent", 8),
		columns: params.Int("Columns", 1),
	}
}

func (g rowGeometry) rowBytes() int {
	return (g.colors*g.bpc*g.columns + 7) / 8
}

func (g rowGeometry) pixelBytes() int {
	n := (g.colors*g.bpc + 7) / 8
	if n < 1 {
		return 1
	}
	return n
}

func pngPredictor(data []byte, params Params) ([]byte, error) {
	g := geometry(params)
	rowLen := g.rowBytes()
	if rowLen <= 0 {
		return nil, fmt.Errorf("png predictor: invalid row length")
	}
	bpp := g.pixelBytes()
	stride := rowLen + 1

	rows := len(data) / stride
	out := make([]byte, 0, rows*rowLen)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)

	for r := 0; r < rows; r++ {
		line := data[r*stride : (r+1)*stride]
		filter := line[0]
		copy(cur, line[1:])
		for i := range cur {
			var left, up, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]
			switch filter {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("png predictor: unknown row filter %d in row %d", filter, r)
			}
		}
		out = append(out, cur...)
		prev, cur = cur, prev
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// tiffPredictor reverses TIFF predictor 2 for 8-bit components.
func tiffPredictor(data []byte, params Params) ([]byte, error) {
	g := geometry(params)
	if g.bpc != 8 {
		return nil, fmt.Errorf("tiff predictor: %d bits per component not supported", g.bpc)
	}
	rowLen := g.rowBytes()
	if rowLen <= 0 || len(data)%rowLen != 0 {
		return nil, fmt.Errorf("tiff predictor: data length %d is not a multiple of row length %d", len(data), rowLen)
	}
	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(out); row += rowLen {
		for i := g.colors; i < rowLen; i++ {
			out[row+i] += out[row+i-g.colors]
		}
	}
	return out, nil
}
