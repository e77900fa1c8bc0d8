package docx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/tsawler/pdfconv/format"
)

var (
	errEmptyImage  = errors.New("empty image data")
	errNoImageSize = errors.New("image has no size")
	errUnsupported = errors.New("unsupported image format")
)

// picture is an image ready to be stored in word/media.
type picture struct {
	data []byte
	kind format.ImageType
	// pixel size, used when the element carries no extent
	width, height int
}

// preparePicture checks an image payload and converts formats Word does
// not render natively to PNG.
func preparePicture(data []byte) (*picture, error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}
	kind := format.DetectImage(data)
	switch kind {
	case format.ImagePNG, format.ImageJPEG, format.ImageGIF:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("reading %s header: %w", kind, err)
		}
		return &picture{data: data, kind: kind, width: cfg.Width, height: cfg.Height}, nil
	case format.ImageBMP, format.ImageTIFF, format.ImageWebP:
		img, err := decodeOther(kind, data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", kind, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("re-encoding %s as PNG: %w", kind, err)
		}
		b := img.Bounds()
		return &picture{data: buf.Bytes(), kind: format.ImagePNG, width: b.Dx(), height: b.Dy()}, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnsupported, kind)
}

func decodeOther(kind format.ImageType, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch kind {
	case format.ImageBMP:
		return bmp.Decode(r)
	case format.ImageTIFF:
		return tiff.Decode(r)
	case format.ImageWebP:
		return webp.Decode(r)
	}
	return nil, errUnsupported
}

// contentType returns the media type for a stored picture.
func (p *picture) contentType() string {
	return p.kind.MIMEType()
}

func (p *picture) extension() string {
	return p.kind.Extension()[1:]
}
