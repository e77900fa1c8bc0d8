package font

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tsawler/pdfconv/core"
	"golang.org/x/text/unicode/norm"
)

// Descriptor flag bits.
const (
	flagSymbolic  = 1 << 2
	flagItalic    = 1 << 6
	flagForceBold = 1 << 18
)

// Glyph is one decoded character code.
type Glyph struct {
	Code int
	// Text is the Unicode text for the code, possibly empty.
	Text string
	// Width is the horizontal advance in text space units for a font size
	// of 1.
	Width float64
	// Space is set for the single-byte code 32, the only code word spacing
	// applies to.
	Space bool
}

// Font is a loaded font resource.
type Font struct {
	BaseFont string
	Subtype  string
	Family   string
	Bold     bool
	Italic   bool
	Vertical bool

	composite bool
	toUnicode *CMap
	encCMap   *CMap
	encoding  *Encoding
	ucs2      bool
	widths    *widthTable
	scale     float64
}

// Load builds a Font from a font dictionary.
func Load(dict core.Dict, r core.Resolver) (*Font, error) {
	if dict == nil {
		return nil, fmt.Errorf("nil font dictionary")
	}
	subtype, _ := core.ResolveName(r, dict.Get("Subtype"))
	base, _ := core.ResolveName(r, dict.Get("BaseFont"))
	f := &Font{BaseFont: string(base), Subtype: string(subtype), scale: 0.001}

	if s, ok := core.ResolveStream(r, dict.Get("ToUnicode")); ok {
		if cm, err := ParseCMap(s); err == nil && cm.Len() > 0 {
			f.toUnicode = cm
		}
	}

	var desc core.Dict
	switch subtype {
	case "Type0":
		desc = f.loadComposite(dict, r)
	case "Type3":
		f.loadSimple(dict, core.Dict{}, r)
		if m, ok := core.ResolveArray(r, dict.Get("FontMatrix")); ok {
			if a, ok := core.ResolveNumber(r, m.Get(0)); ok && a != 0 {
				f.scale = a
			}
		}
	default:
		desc, _ = core.ResolveDict(r, dict.Get("FontDescriptor"))
		if desc == nil {
			desc = core.Dict{}
		}
		f.loadSimple(dict, desc, r)
	}
	f.deriveStyle(desc, r)
	return f, nil
}

func (f *Font) loadSimple(dict, desc core.Dict, r core.Resolver) {
	f.encoding = f.simpleEncoding(dict, desc, r)
	f.widths = simpleWidths(dict, desc, f.BaseFont, r)
}

// simpleEncoding picks the base table and applies /Differences.
func (f *Font) simpleEncoding(dict, desc core.Dict, r core.Resolver) *Encoding {
	base := StandardEncoding
	flags, _ := core.ResolveNumber(r, desc.Get("Flags"))
	switch {
	case strings.HasPrefix(f.BaseFont, "Symbol"), strings.HasPrefix(f.BaseFont, "ZapfDingbats"):
		base = identityEncoding()
	case f.Subtype == "TrueType" && int(flags)&flagSymbolic != 0:
		// Symbolic TrueType fonts address glyphs by code.
		base = identityEncoding()
	case f.Subtype == "TrueType":
		base = WinAnsiEncoding
	}

	encObj, err := core.ResolveFully(r, dict.Get("Encoding"))
	if err != nil {
		return base
	}
	switch enc := encObj.(type) {
	case core.Name:
		if e := BaseEncoding(string(enc)); e != nil {
			return e
		}
	case core.Dict:
		if n, ok := core.ResolveName(r, enc.Get("BaseEncoding")); ok {
			if e := BaseEncoding(string(n)); e != nil {
				base = e
			}
		}
		diffs, ok := core.ResolveArray(r, enc.Get("Differences"))
		if !ok {
			return base
		}
		e := base.Clone()
		code := 0
		for _, o := range diffs {
			switch v := o.(type) {
			case core.Int:
				code = int(v)
			case core.Name:
				if code >= 0 && code < 256 {
					if s, ok := GlyphRune(string(v)); ok {
						e[code] = []rune(s)[0]
					}
				}
				code++
			}
		}
		return e
	}
	return base
}

func identityEncoding() *Encoding {
	var e Encoding
	for i := 32; i < 256; i++ {
		e[i] = rune(i)
	}
	return &e
}

// loadComposite reads the encoding CMap and the descendant CIDFont. It
// returns the descendant's font descriptor.
func (f *Font) loadComposite(dict core.Dict, r core.Resolver) core.Dict {
	f.composite = true
	encObj, _ := core.ResolveFully(r, dict.Get("Encoding"))
	switch enc := encObj.(type) {
	case core.Name:
		name := string(enc)
		f.Vertical = strings.HasSuffix(name, "-V")
		f.ucs2 = strings.Contains(name, "UCS2") || strings.Contains(name, "UTF16")
	case *core.Stream:
		if cm, err := ParseCMap(enc); err == nil {
			f.encCMap = cm
			f.Vertical = strings.HasSuffix(cm.Name, "-V")
		}
	}

	desc := core.Dict{}
	f.widths = &widthTable{widths: map[int]float64{}, dflt: 1000}
	kids, _ := core.ResolveArray(r, dict.Get("DescendantFonts"))
	if len(kids) == 0 {
		return desc
	}
	cidFont, ok := core.ResolveDict(r, kids[0])
	if !ok {
		return desc
	}
	f.widths = cidWidths(cidFont, r)
	if f.BaseFont == "" {
		if n, ok := core.ResolveName(r, cidFont.Get("BaseFont")); ok {
			f.BaseFont = string(n)
		}
	}
	if d, ok := core.ResolveDict(r, cidFont.Get("FontDescriptor")); ok {
		desc = d
	}
	return desc
}

// deriveStyle sets Family, Bold and Italic.
func (f *Font) deriveStyle(desc core.Dict, r core.Resolver) {
	name := stripSubset(f.BaseFont)
	lower := strings.ToLower(name)

	flags, _ := core.ResolveNumber(r, desc.Get("Flags"))
	weight, _ := core.ResolveNumber(r, desc.Get("FontWeight"))
	angle, _ := core.ResolveNumber(r, desc.Get("ItalicAngle"))

	f.Bold = int(flags)&flagForceBold != 0 || weight >= 600 ||
		strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy") || strings.Contains(lower, "semibold")
	f.Italic = int(flags)&flagItalic != 0 || angle != 0 ||
		strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")

	f.Family = familyName(name)
	if f.Family == "" {
		if fam, ok := desc.GetString("FontFamily"); ok {
			f.Family = DecodeTextString([]byte(fam))
		}
	}
}

// stripSubset removes a six-letter subset tag such as "ABCDEF+".
func stripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}

// familyName reduces a PostScript name like "TimesNewRomanPS-BoldMT" to a
// family name like "TimesNewRoman".
func familyName(name string) string {
	if i := strings.IndexAny(name, ",-"); i >= 0 {
		name = name[:i]
	}
	for _, suffix := range []string{"PSMT", "MT", "PS"} {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	return name
}

// IsComposite reports whether f is a Type0 font with multi-byte codes.
func (f *Font) IsComposite() bool { return f.composite }

// Decode splits data into glyphs.
func (f *Font) Decode(data []byte) []Glyph {
	var glyphs []Glyph
	for len(data) > 0 {
		code, n := f.nextCode(data)
		raw := data[:n]
		data = data[n:]

		g := Glyph{Code: code, Space: n == 1 && code == 32}
		g.Text = f.text(code, raw)
		wcode := code
		if f.composite {
			wcode = f.encCMap.CID(code)
		}
		g.Width = f.widths.width(wcode) * f.scale
		glyphs = append(glyphs, g)
	}
	return glyphs
}

func (f *Font) nextCode(data []byte) (int, int) {
	if !f.composite {
		return int(data[0]), 1
	}
	if f.encCMap.HasCodespace() {
		return f.encCMap.NextCode(data, 2)
	}
	if f.toUnicode.HasCodespace() {
		return f.toUnicode.NextCode(data, 2)
	}
	return (&CMap{}).NextCode(data, 2)
}

func (f *Font) text(code int, raw []byte) string {
	if s, ok := f.toUnicode.Lookup(code); ok {
		return s
	}
	if !f.composite {
		if r := f.encoding.Decode(byte(code)); r != 0 {
			return string(r)
		}
		return ""
	}
	if f.ucs2 {
		return DecodeUTF16BE(raw)
	}
	r := rune(code)
	if code > 0 && code < unicode.MaxRune && unicode.IsPrint(r) {
		return string(r)
	}
	return ""
}

// Text decodes data to NFC-normalized Unicode.
func (f *Font) Text(data []byte) string {
	return TextOf(f.Decode(data))
}

// TextOf joins the text of glyphs and normalizes it to NFC.
func TextOf(glyphs []Glyph) string {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	return norm.NFC.String(sb.String())
}

// Width returns the total advance of data at font size 1, ignoring
// character and word spacing.
func (f *Font) Width(data []byte) float64 {
	total := 0.0
	for _, g := range f.Decode(data) {
		total += g.Width
	}
	return total
}

// Fallback returns the font used when a content stream selects a font
// that is missing from the resources.
func Fallback() *Font {
	f, _ := Load(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
		"Encoding": core.Name("WinAnsiEncoding"),
	}, core.ObjectTable{})
	return f
}
