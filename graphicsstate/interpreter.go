package graphicsstate

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/tsawler/pdfconv/contentstream"
	"github.com/tsawler/pdfconv/core"
	"github.com/tsawler/pdfconv/font"
	"github.com/tsawler/pdfconv/model"
)

// maxFormDepth bounds nested form XObjects.
const maxFormDepth = 16

// TextRun is one string shown by Tj, TJ, ' or ".
type TextRun struct {
	Text   string
	Glyphs []font.Glyph
	Font   *font.Font
	// X and Y are the device-space origin of the first glyph.
	X, Y float64
	// Width is the device-space advance of the whole run.
	Width float64
	// FontSize is the size after the text matrix and CTM.
	FontSize    float64
	CharSpacing float64
	WordSpacing float64
	// Invisible is set for render mode 3, typical of OCR text layers.
	Invisible bool
}

// ImagePaint is an image XObject drawn by Do, or an inline image.
type ImagePaint struct {
	Name   string
	CTM    model.Matrix
	Stream *core.Stream
	Inline bool
	// Resources is the resource dictionary in effect, needed to resolve
	// named colour spaces of inline images.
	Resources core.Dict
}

// Handler receives what a content stream paints.
type Handler interface {
	ShowText(run TextRun)
	PaintImage(img ImagePaint)
}

// Interpreter executes content streams. It is not safe for concurrent
// use; create one per page.
type Interpreter struct {
	resolver core.Resolver
	handler  Handler
	fonts    map[int]*font.Font
	active   map[int]bool
	warnings []string
}

// NewInterpreter returns an interpreter reporting to h.
func NewInterpreter(r core.Resolver, h Handler) *Interpreter {
	return &Interpreter{
		resolver: r,
		handler:  h,
		fonts:    make(map[int]*font.Font),
		active:   make(map[int]bool),
	}
}

// Warnings returns the non-fatal problems met so far.
func (in *Interpreter) Warnings() []string {
	return in.warnings
}

func (in *Interpreter) warnf(format string, args ...interface{}) {
	in.warnings = append(in.warnings, fmt.Sprintf(format, args...))
}

// Run executes a page content stream with the page's resources.
func (in *Interpreter) Run(content []byte, resources core.Dict) error {
	return in.run(content, newScope(resources), NewState(), 0)
}

// scope is one resource dictionary with the fonts loaded from it.
type scope struct {
	res   core.Dict
	fonts map[string]*font.Font
}

func newScope(res core.Dict) *scope {
	if res == nil {
		res = core.Dict{}
	}
	return &scope{res: res, fonts: make(map[string]*font.Font)}
}

func (in *Interpreter) run(content []byte, sc *scope, s *State, depth int) error {
	base := s.Depth()
	p := contentstream.NewParser(content)
	for {
		op, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		in.exec(op, sc, s, base, depth)
	}
	for s.Depth() > base {
		_ = s.Restore()
	}
	return nil
}

func (in *Interpreter) exec(op contentstream.Operation, sc *scope, s *State, base, depth int) {
	args := numbers(op.Operands)
	switch op.Operator {
	case "q":
		s.Save()
	case "Q":
		if s.Depth() <= base {
			in.warnf("unbalanced Q ignored")
			return
		}
		_ = s.Restore()
	case "cm":
		if len(args) == 6 {
			s.Concat(model.Matrix{args[0], args[1], args[2], args[3], args[4], args[5]})
		}

	case "BT":
		s.BeginText()
	case "Tf":
		if len(op.Operands) == 2 {
			name, _ := op.Operands[0].(core.Name)
			size, _ := core.Number(op.Operands[1])
			s.Text.FontName = string(name)
			s.Text.FontSize = size
			s.Text.Font = in.font(sc, string(name))
		}
	case "Tc":
		if len(args) == 1 {
			s.Text.CharSpacing = args[0]
		}
	case "Tw":
		if len(args) == 1 {
			s.Text.WordSpacing = args[0]
		}
	case "Tz":
		if len(args) == 1 {
			s.Text.Scale = args[0] / 100
		}
	case "TL":
		if len(args) == 1 {
			s.Text.Leading = args[0]
		}
	case "Ts":
		if len(args) == 1 {
			s.Text.Rise = args[0]
		}
	case "Tr":
		if len(args) == 1 {
			s.Text.RenderMode = int(args[0])
		}
	case "Tm":
		if len(args) == 6 {
			s.SetTextMatrix(model.Matrix{args[0], args[1], args[2], args[3], args[4], args[5]})
		}
	case "Td":
		if len(args) == 2 {
			s.MoveText(args[0], args[1])
		}
	case "TD":
		if len(args) == 2 {
			s.MoveTextSetLeading(args[0], args[1])
		}
	case "T*":
		s.NextLine()

	case "Tj":
		if str, ok := lastString(op.Operands); ok {
			in.show(s, str)
		}
	case "'":
		s.NextLine()
		if str, ok := lastString(op.Operands); ok {
			in.show(s, str)
		}
	case "\"":
		if len(op.Operands) == 3 {
			s.Text.WordSpacing, _ = core.Number(op.Operands[0])
			s.Text.CharSpacing, _ = core.Number(op.Operands[1])
		}
		s.NextLine()
		if str, ok := lastString(op.Operands); ok {
			in.show(s, str)
		}
	case "TJ":
		if len(op.Operands) == 1 {
			arr, _ := op.Operands[0].(core.Array)
			for _, item := range arr {
				switch v := item.(type) {
				case core.String:
					in.show(s, v)
				case core.Int, core.Real:
					n, _ := core.Number(v)
					s.Adjust(n)
				}
			}
		}

	case "Do":
		if len(op.Operands) == 1 {
			if name, ok := op.Operands[0].(core.Name); ok {
				in.do(sc, s, string(name), depth)
			}
		}
	case "BI":
		if img, ok := op.InlineImage(); ok {
			in.handler.PaintImage(ImagePaint{Name: "inline", CTM: s.CTM, Stream: img, Inline: true, Resources: sc.res})
		}
	}
}

func (in *Interpreter) show(s *State, str core.String) {
	f := s.Text.Font
	if f == nil {
		f = font.Fallback()
		s.Text.Font = f
		in.warnf("text shown before any font was selected")
	}
	glyphs := f.Decode([]byte(str))
	x0, y0 := s.Origin()
	run := TextRun{
		Text:        font.TextOf(glyphs),
		Glyphs:      glyphs,
		Font:        f,
		X:           x0,
		Y:           y0,
		FontSize:    s.EffectiveFontSize(),
		CharSpacing: s.Text.CharSpacing,
		WordSpacing: s.Text.WordSpacing,
		Invisible:   s.Text.RenderMode == 3,
	}
	s.Advance(glyphs)
	x1, y1 := s.Origin()
	run.Width = math.Hypot(x1-x0, y1-y0)
	in.handler.ShowText(run)
}

// font loads a font resource, caching by object number.
func (in *Interpreter) font(sc *scope, name string) *font.Font {
	if f, ok := sc.fonts[name]; ok {
		return f
	}
	fonts, _ := core.ResolveDict(in.resolver, sc.res.Get("Font"))
	obj := fonts.Get(name)
	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if f, ok := in.fonts[ref.Number]; ok {
			sc.fonts[name] = f
			return f
		}
	}

	var f *font.Font
	dict, ok := core.ResolveDict(in.resolver, obj)
	if ok {
		var err error
		f, err = font.Load(dict, in.resolver)
		if err != nil {
			in.warnf("font /%s: %v", name, err)
			f = nil
		}
	} else {
		in.warnf("font /%s not found in resources", name)
	}
	if f == nil {
		f = font.Fallback()
	}
	sc.fonts[name] = f
	if isRef {
		in.fonts[ref.Number] = f
	}
	return f
}

func (in *Interpreter) do(sc *scope, s *State, name string, depth int) {
	xobjects, _ := core.ResolveDict(in.resolver, sc.res.Get("XObject"))
	obj := xobjects.Get(name)
	stream, ok := core.ResolveStream(in.resolver, obj)
	if !ok {
		in.warnf("XObject /%s not found", name)
		return
	}

	subtype, _ := stream.Dict.GetName("Subtype")
	switch subtype {
	case "Image":
		in.handler.PaintImage(ImagePaint{Name: name, CTM: s.CTM, Stream: stream, Resources: sc.res})
	case "Form":
		ref, isRef := obj.(core.IndirectRef)
		if isRef && in.active[ref.Number] {
			in.warnf("form /%s invokes itself, skipped", name)
			return
		}
		if depth >= maxFormDepth {
			in.warnf("form /%s nested deeper than %d, skipped", name, maxFormDepth)
			return
		}
		data, err := stream.Decode()
		if err != nil {
			in.warnf("form /%s: %v", name, err)
			return
		}

		res := sc.res
		if r, ok := core.ResolveDict(in.resolver, stream.Dict.Get("Resources")); ok {
			res = r
		}
		if isRef {
			in.active[ref.Number] = true
			defer delete(in.active, ref.Number)
		}

		s.Save()
		if m, ok := core.ResolveArray(in.resolver, stream.Dict.Get("Matrix")); ok {
			if v, ok := m.Floats(); ok && len(v) == 6 {
				s.Concat(model.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]})
			}
		}
		if err := in.run(data, newScope(res), s, depth+1); err != nil {
			in.warnf("form /%s: %v", name, err)
		}
		_ = s.Restore()
	}
}

func numbers(objs []core.Object) []float64 {
	out := make([]float64, 0, len(objs))
	for _, o := range objs {
		n, ok := core.Number(o)
		if !ok {
			return nil
		}
		out = append(out, n)
	}
	return out
}

func lastString(objs []core.Object) (core.String, bool) {
	if len(objs) == 0 {
		return "", false
	}
	s, ok := objs[len(objs)-1].(core.String)
	return s, ok
}
