package model

import "fmt"

// Kind distinguishes text runs from images.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DefaultFontSize is used when a text element carries no size.
const DefaultFontSize = 10.0

// Element is one positioned visual unit on a page.
type Element struct {
	Kind Kind

	// Content is the trimmed, non-empty text of a KindText element.
	Content string
	// ImageData is the encoded image file (PNG, JPEG, ...) of a KindImage
	// element.
	ImageData []byte

	X, Y float64
	// Width and Height are set for images only.
	Width, Height *float64

	FontSize    *float64
	FontFamily  string
	Bold        bool
	Italic      bool
	CharSpacing float64
	WordSpacing float64
}

// NewText returns a text element at (x, y).
func NewText(content string, x, y float64) Element {
	return Element{Kind: KindText, Content: content, X: x, Y: y}
}

// NewImage returns an image element with its bottom-left corner at (x, y).
func NewImage(data []byte, x, y, width, height float64) Element {
	return Element{
		Kind:      KindImage,
		ImageData: data,
		X:         x,
		Y:         y,
		Width:     &width,
		Height:    &height,
	}
}

// IsText reports whether e is a text run.
func (e Element) IsText() bool { return e.Kind == KindText }

// IsImage reports whether e is an image.
func (e Element) IsImage() bool { return e.Kind == KindImage }

// Size returns the font size, or DefaultFontSize when absent.
func (e Element) Size() float64 {
	if e.FontSize == nil || *e.FontSize <= 0 {
		return DefaultFontSize
	}
	return *e.FontSize
}

// Extent returns width and height, zero when absent.
func (e Element) Extent() (w, h float64) {
	if e.Width != nil {
		w = *e.Width
	}
	if e.Height != nil {
		h = *e.Height
	}
	return w, h
}

// SkippedAsset records an image that an output format could not embed.
type SkippedAsset struct {
	Page   int    `json:"page" yaml:"page"`
	Index  int    `json:"index" yaml:"index"` // position of the element within its page
	Reason string `json:"reason" yaml:"reason"`
}

func (s SkippedAsset) String() string {
	return fmt.Sprintf("page %d, element %d: %s", s.Page, s.Index, s.Reason)
}
