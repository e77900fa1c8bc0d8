package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdfconv/core"
)

// Operation is an operator with the operands that preceded it.
type Operation struct {
	Operator string
	Operands []core.Object
}

// InlineImage returns the image stream of a BI operation.
func (op Operation) InlineImage() (*core.Stream, bool) {
	if op.Operator != "BI" || len(op.Operands) != 1 {
		return nil, false
	}
	s, ok := op.Operands[0].(*core.Stream)
	return s, ok
}

// Parser reads operations one at a time. Each Parser owns its operand
// stack, so parsers may run concurrently on different streams.
type Parser struct {
	p        *core.Parser
	operands []core.Object
}

// NewParser returns a parser over a decoded content stream.
func NewParser(data []byte) *Parser {
	return &Parser{p: core.NewParser(data)}
}

// Parse returns every operation in data.
func Parse(data []byte) ([]Operation, error) {
	return NewParser(data).Parse()
}

// Parse reads operations until the end of the stream.
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	for {
		op, err := p.Next()
		if errors.Is(err, io.EOF) {
			return ops, nil
		}
		if err != nil {
			return ops, err
		}
		ops = append(ops, op)
	}
}

// Next returns the next operation, or io.EOF. Operands left over at the
// end of the stream are discarded.
func (p *Parser) Next() (Operation, error) {
	for {
		tok, err := p.p.NextToken()
		if err != nil {
			return Operation{}, err
		}
		if tok.Type == core.TokenEOF {
			p.operands = p.operands[:0]
			return Operation{}, io.EOF
		}

		if tok.Type == core.TokenKeyword {
			switch string(tok.Value) {
			case "true", "false", "null":
			case "BI":
				img, err := p.readInlineImage()
				if err != nil {
					return Operation{}, fmt.Errorf("inline image at offset %d: %w", tok.Pos, err)
				}
				p.operands = p.operands[:0]
				return Operation{Operator: "BI", Operands: []core.Object{img}}, nil
			default:
				op := Operation{Operator: string(tok.Value)}
				if len(p.operands) > 0 {
					op.Operands = make([]core.Object, len(p.operands))
					copy(op.Operands, p.operands)
				}
				p.operands = p.operands[:0]
				return op, nil
			}
		}

		obj, err := p.p.ParseObjectFrom(tok)
		if err != nil {
			return Operation{}, err
		}
		p.operands = append(p.operands, obj)
	}
}

// readInlineImage reads the dictionary after BI, then the data after ID
// up to the terminating EI.
func (p *Parser) readInlineImage() (*core.Stream, error) {
	dict := core.Dict{}
	var id core.Token
	for {
		tok, err := p.p.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Is("ID") {
			id = tok
			break
		}
		if tok.Type == core.TokenEOF {
			return nil, core.ErrUnexpectedEOF
		}
		if tok.Type != core.TokenName {
			return nil, fmt.Errorf("key at offset %d is not a name", tok.Pos)
		}
		val, err := p.p.ParseObject()
		if err != nil {
			return nil, err
		}
		dict[expandKey(string(tok.Value))] = expandValue(string(tok.Value), val)
	}

	data := p.p.Data()
	start := id.Pos + len("ID")
	if start < len(data) && core.IsWhitespace(data[start]) {
		start++
	}
	end, next := findEI(data, start, expectedLength(dict))
	if end < 0 {
		return nil, fmt.Errorf("missing EI: %w", core.ErrUnexpectedEOF)
	}
	p.p.Seek(next)
	return &core.Stream{Dict: dict, Data: data[start:end:end]}, nil
}

// findEI locates the EI operator that ends inline image data. A known
// unfiltered length is tried first; otherwise the first "EI" surrounded by
// white-space is taken. It returns the end of the data and the offset
// after EI.
func findEI(data []byte, start, length int) (end, next int) {
	isEI := func(i int) bool {
		if i+2 > len(data) || data[i] != 'E' || data[i+1] != 'I' {
			return false
		}
		return i+2 == len(data) || core.IsWhitespace(data[i+2]) || core.IsDelimiter(data[i+2])
	}

	if length >= 0 && start+length <= len(data) {
		i := start + length
		for i < len(data) && core.IsWhitespace(data[i]) {
			i++
		}
		if isEI(i) {
			return start + length, i + 2
		}
	}

	for i := start; i+1 < len(data); {
		k := bytes.Index(data[i:], []byte("EI"))
		if k < 0 {
			break
		}
		at := i + k
		if (at == start || core.IsWhitespace(data[at-1])) && isEI(at) {
			end := at
			if end > start && core.IsWhitespace(data[end-1]) {
				end--
			}
			return end, at + 2
		}
		i = at + 1
	}
	return -1, -1
}

// expectedLength is the byte size of unfiltered image data, or -1 when it
// cannot be known.
func expectedLength(dict core.Dict) int {
	if dict.Has("Filter") {
		if n, ok := dict.GetInt("Length"); ok {
			return int(n)
		}
		return -1
	}
	w, _ := dict.GetInt("Width")
	h, _ := dict.GetInt("Height")
	if w <= 0 || h <= 0 {
		return -1
	}
	bpc := 1
	comps := 1
	if mask, _ := dict.GetBool("ImageMask"); !mask {
		if b, ok := dict.GetInt("BitsPerComponent"); ok {
			bpc = int(b)
		}
		switch cs := dict.Get("ColorSpace").(type) {
		case nil:
		case core.Name:
			switch cs {
			case "DeviceRGB", "CalRGB":
				comps = 3
			case "DeviceCMYK":
				comps = 4
			case "DeviceGray", "CalGray":
			default:
				return -1 // named resource, size unknown here
			}
		case core.Array:
			if base, _ := cs.Get(0).(core.Name); base != "Indexed" {
				return -1
			}
		default:
			return -1
		}
	}
	return (int(w)*comps*bpc + 7) / 8 * int(h)
}

var inlineKeys = map[string]string{
	"BPC": "BitsPerComponent",
	"CS":  "ColorSpace",
	"D":   "Decode",
	"DP":  "DecodeParms",
	"F":   "Filter",
	"H":   "Height",
	"IM":  "ImageMask",
	"I":   "Interpolate",
	"W":   "Width",
	"L":   "Length",
}

var inlineNames = map[string]string{
	"G":    "DeviceGray",
	"RGB":  "DeviceRGB",
	"CMYK": "DeviceCMYK",
	"I":    "Indexed",
	"AHx":  "ASCIIHexDecode",
	"A85":  "ASCII85Decode",
	"LZW":  "LZWDecode",
	"Fl":   "FlateDecode",
	"RL":   "RunLengthDecode",
	"CCF":  "CCITTFaxDecode",
	"DCT":  "DCTDecode",
}

func expandKey(k string) string {
	if full, ok := inlineKeys[k]; ok {
		return full
	}
	return k
}

// expandValue expands abbreviated filter and colour space names.
func expandValue(key string, v core.Object) core.Object {
	switch expandKey(key) {
	case "Filter", "ColorSpace":
	default:
		return v
	}
	switch o := v.(type) {
	case core.Name:
		if full, ok := inlineNames[string(o)]; ok {
			return core.Name(full)
		}
	case core.Array:
		out := make(core.Array, len(o))
		for i, e := range o {
			out[i] = e
			if n, ok := e.(core.Name); ok {
				if full, ok := inlineNames[string(n)]; ok {
					out[i] = core.Name(full)
				}
			}
		}
		return out
	}
	return v
}
