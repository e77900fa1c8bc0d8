// Package format names the output formats a document can be converted to
// and recognizes embedded image formats.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTarget is returned for an unrecognized target name.
var ErrInvalidTarget = errors.New("invalid target")

// Target is an output format.
type Target int

const (
	// Text is flattened plain text.
	Text Target = iota
	// RichDoc is a word-processor document (.docx).
	RichDoc
	// Presentation is a slide deck (.pptx).
	Presentation
	// Markup is rich text format (.rtf).
	Markup
	// LegacyText is a Word 97 binary document (.doc).
	LegacyText
	// HTML is a single HTML page.
	HTML
)

var targets = []Target{Text, RichDoc, Presentation, Markup, LegacyText, HTML}

// Targets returns every target in declaration order.
func Targets() []Target {
	out := make([]Target, len(targets))
	copy(out, targets)
	return out
}

// String returns the canonical name of the target.
func (t Target) String() string {
	switch t {
	case Text:
		return "text"
	case RichDoc:
		return "richdoc"
	case Presentation:
		return "presentation"
	case Markup:
		return "markup"
	case LegacyText:
		return "legacytext"
	case HTML:
		return "html"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared targets.
func (t Target) Valid() bool {
	return t >= Text && t <= HTML
}

// Extension returns the output file extension, including the dot.
func (t Target) Extension() string {
	switch t {
	case Text:
		return ".txt"
	case RichDoc:
		return ".docx"
	case Presentation:
		return ".pptx"
	case Markup:
		return ".rtf"
	case LegacyText:
		return ".doc"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// MIMEType returns the media type of the output.
func (t Target) MIMEType() string {
	switch t {
	case Text:
		return "text/plain; charset=utf-8"
	case RichDoc:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case Presentation:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case Markup:
		return "application/rtf"
	case LegacyText:
		return "application/msword"
	case HTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

var aliases = map[string]Target{
	"text":         Text,
	"txt":          Text,
	"plain":        Text,
	"richdoc":      RichDoc,
	"docx":         RichDoc,
	"word":         RichDoc,
	"presentation": Presentation,
	"pptx":         Presentation,
	"slides":       Presentation,
	"markup":       Markup,
	"rtf":          Markup,
	"legacy":       LegacyText,
	"legacytext":   LegacyText,
	"doc":          LegacyText,
	"html":         HTML,
	"htm":          HTML,
}

// ParseTarget returns the target named s. Names are case-insensitive and
// a leading dot is ignored, so file extensions are accepted.
func ParseTarget(s string) (Target, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(b []byte) error {
	v, err := ParseTarget(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
