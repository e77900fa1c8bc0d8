//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestNewReturnsError(t *testing.T) {
	client, err := New("eng")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when OCR is disabled")
	}
	if Enabled {
		t.Error("Enabled should be false without the ocr tag")
	}
}

func TestCloseOnNilClient(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client should not error: %v", err)
	}
}

func TestRecognizeReturnsError(t *testing.T) {
	var client Client
	if _, err := client.Recognize([]byte{1}); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got: %v", err)
	}
}
