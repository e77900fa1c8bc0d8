package extract

import (
	"strings"

	"github.com/tsawler/pdfconv/model"
	"github.com/tsawler/pdfconv/reader"
	"github.com/tsawler/pdfconv/text"
)

// EventKind is the kind of a walker event.
type EventKind int

const (
	// TextShown carries one line of text at a synthetic position.
	TextShown EventKind = iota
	// ImagePainted carries an encoded image and its transform.
	ImagePainted
)

func (k EventKind) String() string {
	if k == ImagePainted {
		return "ImagePainted"
	}
	return "TextShown"
}

// Event is something a page shows.
type Event struct {
	Kind EventKind

	// Text, X and Y are set for TextShown.
	Text string
	X, Y float64
	// Style is the dominant style of the source line, nil when unknown.
	Style *text.Style

	// Image and CTM are set for ImagePainted.
	Image []byte
	CTM   model.Matrix
}

// Layout places text lines on the page.
type Layout struct {
	// Left is the x of every line.
	Left float64
	// Top is the y of the first line.
	Top float64
	// Advance is subtracted from y for every line, blank or not.
	Advance float64
}

// DefaultLayout is a 40pt left margin, starting at 800pt, 18pt apart.
var DefaultLayout = Layout{Left: 40, Top: 800, Advance: 18}

func (l Layout) orDefault() Layout {
	if l.Advance <= 0 {
		return DefaultLayout
	}
	return l
}

// TextEvents applies the line policy to page text: split on line breaks,
// trim, drop empty lines, and advance y for every line.
func TextEvents(lines []text.Line, layout Layout) []Event {
	layout = layout.orDefault()
	var events []Event
	y := layout.Top
	for _, line := range lines {
		for _, raw := range strings.Split(line.Text, "\n") {
			if s := strings.TrimSpace(raw); s != "" {
				ev := Event{Kind: TextShown, Text: s, X: layout.Left, Y: y}
				if !line.IsBreak() {
					style := line.Style
					ev.Style = &style
				}
				events = append(events, ev)
			}
			y -= layout.Advance
		}
	}
	return events
}

// PlainTextEvents applies the line policy to a string, as produced by
// OCR.
func PlainTextEvents(s string, layout Layout) []Event {
	var lines []text.Line
	for _, l := range strings.Split(s, "\n") {
		lines = append(lines, text.Line{Text: l})
	}
	return TextEvents(lines, layout)
}

// ImageEvents returns one event per image that has data.
func ImageEvents(images []reader.Image) []Event {
	var events []Event
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		events = append(events, Event{Kind: ImagePainted, Image: img.Data, CTM: img.CTM})
	}
	return events
}
