package text

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfconv/graphicsstate"
)

// Fragment is one string shown on the page, in device space.
type Fragment struct {
	Text  string
	X, Y  float64
	Width float64
	// SpaceWidth is the width of a space in the fragment's font and size.
	SpaceWidth float64
	Style      Style
	Direction  Direction
}

// Style is the typographic style of a fragment or line.
type Style struct {
	FontFamily  string
	FontSize    float64
	Bold        bool
	Italic      bool
	CharSpacing float64
	WordSpacing float64
}

// Line is a run of fragments sharing a baseline, in reading order. An
// empty Line marks a paragraph break.
type Line struct {
	Text      string
	X, Y      float64
	Style     Style
	Direction Direction
	Fragments []Fragment
}

// IsBreak reports whether the line is a paragraph break marker.
func (l Line) IsBreak() bool { return len(l.Fragments) == 0 }

// Collector gathers text runs from a content stream interpreter. Painted
// images are ignored.
type Collector struct {
	fragments []Fragment
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// ShowText records a text run. Empty runs are ignored.
func (c *Collector) ShowText(run graphicsstate.TextRun) {
	if run.Text == "" {
		return
	}
	c.Add(FromRun(run))
}

// PaintImage implements graphicsstate.Handler.
func (c *Collector) PaintImage(graphicsstate.ImagePaint) {}

// Add records a fragment.
func (c *Collector) Add(f Fragment) {
	c.fragments = append(c.fragments, f)
}

// Fragments returns the fragments in stream order.
func (c *Collector) Fragments() []Fragment {
	return c.fragments
}

// FromRun converts an interpreter text run into a fragment.
func FromRun(run graphicsstate.TextRun) Fragment {
	f := Fragment{
		Text:      run.Text,
		X:         run.X,
		Y:         run.Y,
		Width:     run.Width,
		Direction: DetectDirection(run.Text),
		Style: Style{
			FontSize:    run.FontSize,
			CharSpacing: run.CharSpacing,
			WordSpacing: run.WordSpacing,
		},
	}
	if run.Font != nil {
		f.Style.FontFamily = run.Font.Family
		f.Style.Bold = run.Font.Bold
		f.Style.Italic = run.Font.Italic
		if !run.Font.IsComposite() {
			f.SpaceWidth = run.Font.Width([]byte{' '}) * run.FontSize
		}
	}
	if f.SpaceWidth <= 0 {
		f.SpaceWidth = run.FontSize * 0.25
	}
	return f
}

// Lines groups the fragments into lines. Fragments are grouped in stream
// order: a fragment whose baseline moves by more than half the font size
// starts a new line.
func (c *Collector) Lines() []Line {
	groups := groupByBaseline(c.fragments)
	lines := make([]Line, 0, len(groups))
	for i, g := range groups {
		line := assemble(g)
		if i > 0 {
			prev := lines[len(lines)-1]
			if math.Abs(prev.Y-line.Y) > prev.Style.FontSize*1.5 {
				lines = append(lines, Line{})
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// Text returns the lines joined with newlines.
func (c *Collector) Text() string {
	lines := c.Lines()
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

func groupByBaseline(frags []Fragment) [][]Fragment {
	if len(frags) == 0 {
		return nil
	}
	var groups [][]Fragment
	current := []Fragment{frags[0]}
	for i := 1; i < len(frags); i++ {
		prev := frags[i-1]
		tolerance := prev.Style.FontSize * 0.5
		if tolerance < 1 {
			tolerance = 1
		}
		if math.Abs(frags[i].Y-prev.Y) <= tolerance {
			current = append(current, frags[i])
			continue
		}
		groups = append(groups, current)
		current = []Fragment{frags[i]}
	}
	return append(groups, current)
}

func assemble(frags []Fragment) Line {
	dir := lineDirection(frags)
	ordered := make([]Fragment, len(frags))
	copy(ordered, frags)
	sort.SliceStable(ordered, func(i, j int) bool {
		if dir == RTL {
			return ordered[i].X > ordered[j].X
		}
		return ordered[i].X < ordered[j].X
	})

	m := measure(ordered, dir)
	var sb strings.Builder
	for i, f := range ordered {
		if i > 0 && m.needsSpace(ordered[i-1], f, gap(ordered[i-1], f, dir)) {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Text)
	}

	line := Line{
		Text:      sb.String(),
		X:         ordered[0].X,
		Y:         frags[0].Y,
		Style:     dominantStyle(ordered),
		Direction: dir,
		Fragments: ordered,
	}
	for _, f := range ordered {
		line.X = math.Min(line.X, f.X)
	}
	return line
}

func lineDirection(frags []Fragment) Direction {
	var ltr, rtl int
	for _, f := range frags {
		switch f.Direction {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	if rtl > ltr {
		return RTL
	}
	return LTR
}

// gap is the distance from the end of a to the start of b in reading
// order.
func gap(a, b Fragment, dir Direction) float64 {
	if dir == RTL {
		return a.X - (b.X + b.Width)
	}
	return b.X - (a.X + a.Width)
}

// lineMetrics describes how a line was laid down, which decides how wide
// a gap must be to count as a word break.
type lineMetrics struct {
	charLevel      bool
	explicitSpaces bool
	// smallGap and typicalGap are the 10th and 25th percentile of the
	// positive gaps between non-space fragments.
	smallGap   float64
	typicalGap float64
}

func measure(frags []Fragment, dir Direction) lineMetrics {
	var m lineMetrics
	chars := 0
	for _, f := range frags {
		chars += utf8.RuneCountInString(f.Text)
		if strings.TrimSpace(f.Text) == "" || strings.Contains(f.Text, " ") {
			m.explicitSpaces = true
		}
	}
	m.charLevel = float64(chars)/float64(len(frags)) <= 2

	var gaps []float64
	for i := 1; i < len(frags); i++ {
		if strings.TrimSpace(frags[i-1].Text) == "" || strings.TrimSpace(frags[i].Text) == "" {
			continue
		}
		if g := gap(frags[i-1], frags[i], dir); g > 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) > 0 {
		sort.Float64s(gaps)
		m.smallGap = gaps[len(gaps)/10]
		m.typicalGap = gaps[len(gaps)/4]
	}
	return m
}

func (m lineMetrics) needsSpace(a, b Fragment, dist float64) bool {
	if strings.HasSuffix(a.Text, " ") || strings.HasPrefix(b.Text, " ") {
		return false
	}
	if dist < 0 || dist < a.Style.FontSize*0.05 {
		return false
	}
	switch {
	case m.charLevel && m.explicitSpaces:
		// The stream carries its own spaces; only a very wide gap counts.
		return m.typicalGap > 0 && dist >= m.typicalGap*5
	case m.charLevel:
		threshold := math.Max(a.Style.FontSize*0.8, m.smallGap*3)
		return dist >= threshold
	}
	return dist >= a.SpaceWidth*0.5
}

// dominantStyle returns the style covering the most characters. Ties go
// to the style seen first.
func dominantStyle(frags []Fragment) Style {
	counts := make(map[Style]int)
	var order []Style
	for _, f := range frags {
		if _, ok := counts[f.Style]; !ok {
			order = append(order, f.Style)
		}
		counts[f.Style] += utf8.RuneCountInString(f.Text)
	}
	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
