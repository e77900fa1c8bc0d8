package format

import "testing"

func TestDetectImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want ImageType
		ext  string
		mime string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), ImagePNG, ".png", "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, ImageJPEG, ".jpeg", "image/jpeg"},
		{"gif87", []byte("GIF87a..."), ImageGIF, ".gif", "image/gif"},
		{"gif89", []byte("GIF89a..."), ImageGIF, ".gif", "image/gif"},
		{"tiff little endian", []byte("II*\x00\x08\x00"), ImageTIFF, ".tiff", "image/tiff"},
		{"tiff big endian", []byte("MM\x00*\x00\x08"), ImageTIFF, ".tiff", "image/tiff"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), ImageWebP, ".webp", "image/webp"},
		{"riff not webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), ImageUnknown, "", "application/octet-stream"},
		{"bmp", append([]byte("BM"), make([]byte, 20)...), ImageBMP, ".bmp", "image/bmp"},
		{"short bm", []byte("BM"), ImageUnknown, "", "application/octet-stream"},
		{"jp2", []byte("\x00\x00\x00\x0cjP  \r\n\x87\n\x00"), ImageJPEG2000, ".jp2", "image/jp2"},
		{"j2k codestream", []byte{0xFF, 0x4F, 0xFF, 0x51, 0x00}, ImageJPEG2000, ".jp2", "image/jp2"},
		{"empty", nil, ImageUnknown, "", "application/octet-stream"},
		{"text", []byte("hello"), ImageUnknown, "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectImage(tt.data)
			if got != tt.want {
				t.Fatalf("DetectImage = %v, want %v", got, tt.want)
			}
			if got.Extension() != tt.ext || got.MIMEType() != tt.mime {
				t.Errorf("extension %q mime %q", got.Extension(), got.MIMEType())
			}
		})
	}
}

func TestImageTypeString(t *testing.T) {
	if ImagePNG.String() != "PNG" || ImageJPEG2000.String() != "JPEG2000" || ImageType(77).String() != "Unknown" {
		t.Error("unexpected image type names")
	}
}
