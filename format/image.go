package format

import "bytes"

// ImageType is an encoded image format.
type ImageType int

const (
	ImageUnknown ImageType = iota
	ImagePNG
	ImageJPEG
	ImageGIF
	ImageBMP
	ImageTIFF
	ImageWebP
	ImageJPEG2000
)

func (t ImageType) String() string {
	switch t {
	case ImagePNG:
		return "PNG"
	case ImageJPEG:
		return "JPEG"
	case ImageGIF:
		return "GIF"
	case ImageBMP:
		return "BMP"
	case ImageTIFF:
		return "TIFF"
	case ImageWebP:
		return "WebP"
	case ImageJPEG2000:
		return "JPEG2000"
	default:
		return "Unknown"
	}
}

// Extension returns the usual file extension, including the dot.
func (t ImageType) Extension() string {
	switch t {
	case ImagePNG:
		return ".png"
	case ImageJPEG:
		return ".jpeg"
	case ImageGIF:
		return ".gif"
	case ImageBMP:
		return ".bmp"
	case ImageTIFF:
		return ".tiff"
	case ImageWebP:
		return ".webp"
	case ImageJPEG2000:
		return ".jp2"
	default:
		return ""
	}
}

// MIMEType returns the media type, or application/octet-stream.
func (t ImageType) MIMEType() string {
	switch t {
	case ImagePNG:
		return "image/png"
	case ImageJPEG:
		return "image/jpeg"
	case ImageGIF:
		return "image/gif"
	case ImageBMP:
		return "image/bmp"
	case ImageTIFF:
		return "image/tiff"
	case ImageWebP:
		return "image/webp"
	case ImageJPEG2000:
		return "image/jp2"
	default:
		return "application/octet-stream"
	}
}

var (
	magicPNG      = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG     = []byte{0xFF, 0xD8, 0xFF}
	magicJP2      = []byte("\x00\x00\x00\x0cjP  \r\n\x87\n")
	magicJ2K      = []byte{0xFF, 0x4F, 0xFF, 0x51}
	magicTIFFLE   = []byte("II*\x00")
	magicTIFFBE   = []byte("MM\x00*")
	magicGIF87    = []byte("GIF87a")
	magicGIF89    = []byte("GIF89a")
	magicBMP      = []byte("BM")
	magicRIFF     = []byte("RIFF")
	magicWebPFour = []byte("WEBP")
)

// DetectImage identifies an encoded image by its leading bytes.
func DetectImage(data []byte) ImageType {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return ImagePNG
	case bytes.HasPrefix(data, magicJPEG):
		return ImageJPEG
	case bytes.HasPrefix(data, magicGIF87), bytes.HasPrefix(data, magicGIF89):
		return ImageGIF
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return ImageTIFF
	case bytes.HasPrefix(data, magicJP2), bytes.HasPrefix(data, magicJ2K):
		return ImageJPEG2000
	case len(data) >= 12 && bytes.HasPrefix(data, magicRIFF) && bytes.Equal(data[8:12], magicWebPFour):
		return ImageWebP
	case len(data) >= 14 && bytes.HasPrefix(data, magicBMP):
		return ImageBMP
	}
	return ImageUnknown
}
