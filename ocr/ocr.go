//go:build ocr

package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Enabled reports whether OCR support was compiled in.
const Enabled = true

// Client wraps a Tesseract instance. It is safe for concurrent use;
// calls are serialized.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New returns a client for the given languages, "eng" when none are
// given. Close it to release the engine.
func New(languages ...string) (*Client, error) {
	if len(languages) == 0 {
		languages = []string{DefaultLanguage}
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(languages...); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR language %s: %w", strings.Join(languages, "+"), err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases the engine. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.Close()
}

// Recognize returns the text found in an encoded image (PNG, JPEG,
// TIFF), with surrounding white-space trimmed.
func (c *Client) Recognize(image []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
