package graphicsstate

import (
	"errors"
	"math"

	"github.com/tsawler/pdfconv/font"
	"github.com/tsawler/pdfconv/model"
)

// ErrStackUnderflow is returned by Restore when nothing was saved.
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// TextState holds the text parameters of the graphics state.
type TextState struct {
	Font     *font.Font
	FontName string
	FontSize float64

	CharSpacing float64
	WordSpacing float64
	// Scale is the horizontal scaling as a fraction (Tz 100 = 1).
	Scale   float64
	Leading float64
	Rise    float64
	// RenderMode 3 draws nothing.
	RenderMode int

	Matrix     model.Matrix
	LineMatrix model.Matrix
}

// State is the current graphics state plus its save stack.
type State struct {
	CTM  model.Matrix
	Text TextState

	stack []saved
}

type saved struct {
	ctm  model.Matrix
	text TextState
}

// NewState returns the initial graphics state for a page.
func NewState() *State {
	return &State{
		CTM: model.Identity(),
		Text: TextState{
			FontSize:   12,
			Scale:      1,
			Matrix:     model.Identity(),
			LineMatrix: model.Identity(),
		},
	}
}

// Save pushes the current state (q).
func (s *State) Save() {
	s.stack = append(s.stack, saved{ctm: s.CTM, text: s.Text})
}

// Restore pops the last saved state (Q).
func (s *State) Restore() error {
	if len(s.stack) == 0 {
		return ErrStackUnderflow
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.CTM = top.ctm
	s.Text = top.text
	return nil
}

// Depth returns the number of saved states.
func (s *State) Depth() int { return len(s.stack) }

// Concat pre-multiplies m onto the CTM (cm).
func (s *State) Concat(m model.Matrix) {
	s.CTM = m.Multiply(s.CTM)
}

// BeginText resets the text matrices (BT).
func (s *State) BeginText() {
	s.Text.Matrix = model.Identity()
	s.Text.LineMatrix = model.Identity()
}

// SetTextMatrix sets both text matrices (Tm).
func (s *State) SetTextMatrix(m model.Matrix) {
	s.Text.Matrix = m
	s.Text.LineMatrix = m
}

// MoveText starts a new line offset from the current one (Td).
func (s *State) MoveText(tx, ty float64) {
	s.Text.LineMatrix = model.Translate(tx, ty).Multiply(s.Text.LineMatrix)
	s.Text.Matrix = s.Text.LineMatrix
}

// MoveTextSetLeading is Td that also sets the leading to -ty (TD).
func (s *State) MoveTextSetLeading(tx, ty float64) {
	s.Text.Leading = -ty
	s.MoveText(tx, ty)
}

// NextLine moves down by the leading (T*).
func (s *State) NextLine() {
	s.MoveText(0, -s.Text.Leading)
}

// RenderingMatrix returns the text rendering matrix at the current
// position: [Tfs×Th 0 0 Tfs 0 Trise] × Tm × CTM.
func (s *State) RenderingMatrix() model.Matrix {
	t := s.Text
	params := model.Matrix{t.FontSize * t.Scale, 0, 0, t.FontSize, 0, t.Rise}
	return params.Multiply(t.Matrix).Multiply(s.CTM)
}

// Origin returns the device-space position of the current text origin.
func (s *State) Origin() (x, y float64) {
	return s.RenderingMatrix().Translation()
}

// EffectiveFontSize returns the font size after the text matrix and CTM.
func (s *State) EffectiveFontSize() float64 {
	m := s.Text.Matrix.Multiply(s.CTM)
	return math.Abs(s.Text.FontSize) * math.Hypot(m[2], m[3])
}

// Advance moves the text matrix past glyphs and returns the horizontal
// displacement in text space:
//
//	tx = ((w0 × Tfs) + Tc + Tw) × Th
//
// where Tw applies only to glyphs flagged as spaces.
func (s *State) Advance(glyphs []font.Glyph) float64 {
	t := s.Text
	tx := 0.0
	for _, g := range glyphs {
		w := g.Width*t.FontSize + t.CharSpacing
		if g.Space {
			w += t.WordSpacing
		}
		tx += w * t.Scale
	}
	s.Kern(tx)
	return tx
}

// Kern moves the text matrix by tx text-space units along the baseline.
func (s *State) Kern(tx float64) {
	s.Text.Matrix = model.Translate(tx, 0).Multiply(s.Text.Matrix)
}

// Adjust applies a TJ array number, given in thousandths of an em.
func (s *State) Adjust(n float64) {
	s.Kern(-n / 1000 * s.Text.FontSize * s.Text.Scale)
}
