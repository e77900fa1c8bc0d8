// Package ocr recognizes text in page images, for scanned documents whose
// pages carry no text layer.
//
// Recognition uses the Tesseract engine through gosseract and is only
// compiled in with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Tesseract and its language data must be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, [New] returns [ErrOCRNotEnabled] and [Enabled] is
// false.
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is used when no language is given.
const DefaultLanguage = "eng"
