package font

import (
	"fmt"

	"github.com/tsawler/pdfconv/core"
)

// CMap maps character codes to Unicode text (bfchar/bfrange) and to CIDs
// (cidchar/cidrange). Its codespace ranges determine how many bytes make
// up each code.
type CMap struct {
	Name string

	codespaces []codespace
	chars      map[int]string
	ranges     []bfRange
	cids       map[int]int
	cidRanges  []cidRange
}

type codespace struct {
	lo, hi []byte
}

type bfRange struct {
	lo, hi int
	dst    []byte   // UTF-16BE, last unit incremented across the range
	list   []string // explicit per-code destinations
}

type cidRange struct {
	lo, hi, cid int
}

// ParseCMap decodes and parses a CMap stream.
func ParseCMap(stream *core.Stream) (*CMap, error) {
	if stream == nil {
		return nil, fmt.Errorf("nil CMap stream")
	}
	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding CMap: %w", err)
	}
	cm := ParseCMapData(data)
	if n, ok := stream.Dict.GetName("CMapName"); ok && cm.Name == "" {
		cm.Name = string(n)
	}
	return cm, nil
}

// ParseCMapData parses CMap program text. Unrecognized PostScript is
// skipped; a malformed section ends parsing and keeps what was read.
func ParseCMapData(data []byte) *CMap {
	cm := &CMap{chars: make(map[int]string), cids: make(map[int]int)}
	p := core.NewParser(data)

	var operands []core.Object
	for {
		start := p.Pos()
		tok, err := p.NextToken()
		if err != nil {
			if p.Pos() <= start {
				break
			}
			operands = operands[:0]
			continue
		}
		if tok.Type == core.TokenEOF {
			break
		}
		if tok.Type != core.TokenKeyword {
			obj, err := p.ParseObjectFrom(tok)
			if err != nil {
				operands = operands[:0]
				continue
			}
			operands = append(operands, obj)
			continue
		}

		switch string(tok.Value) {
		case "def":
			if len(operands) >= 2 {
				if k, ok := operands[len(operands)-2].(core.Name); ok && k == "CMapName" {
					if v, ok := operands[len(operands)-1].(core.Name); ok {
						cm.Name = string(v)
					}
				}
			}
		case "endcodespacerange":
			for i := 0; i+1 < len(operands); i += 2 {
				lo, ok1 := operands[i].(core.String)
				hi, ok2 := operands[i+1].(core.String)
				if ok1 && ok2 && len(lo) == len(hi) && len(lo) > 0 {
					cm.codespaces = append(cm.codespaces, codespace{[]byte(lo), []byte(hi)})
				}
			}
		case "endbfchar":
			for i := 0; i+1 < len(operands); i += 2 {
				src, ok1 := operands[i].(core.String)
				if !ok1 {
					continue
				}
				switch dst := operands[i+1].(type) {
				case core.String:
					cm.chars[codeOf([]byte(src))] = unicodeOf([]byte(dst))
				case core.Name:
					if s, ok := GlyphRune(string(dst)); ok {
						cm.chars[codeOf([]byte(src))] = s
					}
				}
			}
		case "endbfrange":
			for i := 0; i+2 < len(operands); i += 3 {
				lo, ok1 := operands[i].(core.String)
				hi, ok2 := operands[i+1].(core.String)
				if !ok1 || !ok2 {
					continue
				}
				r := bfRange{lo: codeOf([]byte(lo)), hi: codeOf([]byte(hi))}
				switch dst := operands[i+2].(type) {
				case core.String:
					r.dst = []byte(dst)
				case core.Array:
					for _, o := range dst {
						s, _ := o.(core.String)
						r.list = append(r.list, unicodeOf([]byte(s)))
					}
				default:
					continue
				}
				if r.hi >= r.lo {
					cm.ranges = append(cm.ranges, r)
				}
			}
		case "endcidchar":
			for i := 0; i+1 < len(operands); i += 2 {
				src, ok1 := operands[i].(core.String)
				cid, ok2 := operands[i+1].(core.Int)
				if ok1 && ok2 {
					cm.cids[codeOf([]byte(src))] = int(cid)
				}
			}
		case "endcidrange":
			for i := 0; i+2 < len(operands); i += 3 {
				lo, ok1 := operands[i].(core.String)
				hi, ok2 := operands[i+1].(core.String)
				cid, ok3 := operands[i+2].(core.Int)
				if ok1 && ok2 && ok3 {
					cm.cidRanges = append(cm.cidRanges, cidRange{codeOf([]byte(lo)), codeOf([]byte(hi)), int(cid)})
				}
			}
		}
		operands = operands[:0]
	}
	return cm
}

func codeOf(b []byte) int {
	c := 0
	for _, x := range b {
		c = c<<8 | int(x)
	}
	return c
}

// unicodeOf decodes a bfchar/bfrange destination. Destinations are UTF-16BE;
// a single byte is read as a Latin-1 code point.
func unicodeOf(b []byte) string {
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	return DecodeUTF16BE(b)
}

// HasCodespace reports whether codespace ranges were declared.
func (cm *CMap) HasCodespace() bool {
	return cm != nil && len(cm.codespaces) > 0
}

// NextCode reads one code from data using the codespace ranges. When no
// range matches, fallback bytes are consumed.
func (cm *CMap) NextCode(data []byte, fallback int) (code, n int) {
	if cm != nil {
		for n := 1; n <= 4 && n <= len(data); n++ {
			for _, cs := range cm.codespaces {
				if len(cs.lo) == n && inCodespace(data[:n], cs) {
					return codeOf(data[:n]), n
				}
			}
		}
	}
	if fallback > len(data) {
		fallback = len(data)
	}
	if fallback < 1 {
		fallback = 1
	}
	return codeOf(data[:fallback]), fallback
}

func inCodespace(b []byte, cs codespace) bool {
	for i := range b {
		if b[i] < cs.lo[i] || b[i] > cs.hi[i] {
			return false
		}
	}
	return true
}

// Lookup returns the Unicode text for code.
func (cm *CMap) Lookup(code int) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.chars[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code < r.lo || code > r.hi {
			continue
		}
		off := code - r.lo
		if r.list != nil {
			if off < len(r.list) {
				return r.list[off], true
			}
			return "", false
		}
		return incrementDst(r.dst, off), true
	}
	return "", false
}

func incrementDst(dst []byte, off int) string {
	if len(dst) == 0 {
		return ""
	}
	b := make([]byte, len(dst))
	copy(b, dst)
	if len(b) == 1 {
		return string(rune(int(b[0]) + off))
	}
	n := len(b)
	v := int(b[n-2])<<8 | int(b[n-1]) + off
	b[n-2], b[n-1] = byte(v>>8), byte(v)
	return DecodeUTF16BE(b)
}

// CID maps a code to a CID. Codes without a mapping are their own CID.
func (cm *CMap) CID(code int) int {
	if cm == nil {
		return code
	}
	if c, ok := cm.cids[code]; ok {
		return c
	}
	for _, r := range cm.cidRanges {
		if code >= r.lo && code <= r.hi {
			return r.cid + code - r.lo
		}
	}
	return code
}

// Len returns the number of single and range mappings.
func (cm *CMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.chars) + len(cm.ranges)
}
