//go:build !ocr

package ocr

// Enabled reports whether OCR support was compiled in.
const Enabled = false

// Client is a placeholder that recognizes nothing.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(languages ...string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled.
func (c *Client) Recognize(image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
