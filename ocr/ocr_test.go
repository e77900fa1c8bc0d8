//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// blockPNG draws a black rectangle on white; it contains no text.
func blockPNG(width, height int) []byte {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.White
			if x >= 10 && x < 50 && y >= 10 && y < 30 {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestRecognize(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	if _, err := client.Recognize(blockPNG(100, 50)); err != nil {
		t.Errorf("Recognize failed: %v", err)
	}
}

func TestRecognizeConcurrent(t *testing.T) {
	client, err := New("eng")
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer client.Close()

	img := blockPNG(60, 40)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Recognize(img); err != nil {
				t.Errorf("Recognize failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestUnknownLanguage(t *testing.T) {
	if _, err := New("no-such-language"); err == nil {
		t.Skip("engine accepted an unknown language")
	}
}

func TestCloseTwice(t *testing.T) {
	client, err := New()
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	client.client = nil
	if err := client.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
