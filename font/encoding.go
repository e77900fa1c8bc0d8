package font

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// Encoding maps single-byte character codes to runes. Zero means unmapped.
type Encoding [256]rune

// Decode returns the rune for code b.
func (e *Encoding) Decode(b byte) rune {
	return e[b]
}

// Clone returns a modifiable copy.
func (e *Encoding) Clone() *Encoding {
	c := *e
	return &c
}

func fromCharmap(cm *charmap.Charmap) *Encoding {
	var e Encoding
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == utf8.RuneError {
			continue
		}
		e[i] = r
	}
	return &e
}

// Base encodings.
var (
	WinAnsiEncoding  = fromCharmap(charmap.Windows1252)
	MacRomanEncoding = fromCharmap(charmap.Macintosh)
	StandardEncoding = buildStandard()
	PDFDocEncoding   = buildPDFDoc()
)

// standardHigh holds the StandardEncoding codes above 0x7E.
var standardHigh = map[byte]rune{
	0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄', 0xA5: '¥', 0xA6: 'ƒ', 0xA7: '§',
	0xA8: '¤', 0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹', 0xAD: '›', 0xAE: 'ﬁ',
	0xAF: 'ﬂ', 0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·', 0xB6: '¶', 0xB7: '•',
	0xB8: '‚', 0xB9: '„', 0xBA: '”', 0xBB: '»', 0xBC: '…', 0xBD: '‰', 0xBF: '¿',
	0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜', 0xC5: '¯', 0xC6: '˘', 0xC7: '˙',
	0xC8: '¨', 0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛', 0xCF: 'ˇ', 0xD0: '—',
	0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø', 0xEA: 'Œ', 0xEB: 'º', 0xF1: 'æ',
	0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø', 0xFA: 'œ', 0xFB: 'ß',
}

func buildStandard() *Encoding {
	var e Encoding
	for i := 0x20; i <= 0x7E; i++ {
		e[i] = rune(i)
	}
	e['\''] = '’'
	e['`'] = '‘'
	for b, r := range standardHigh {
		e[b] = r
	}
	return &e
}

// pdfDocHigh holds the PDFDocEncoding codes that differ from Latin-1.
var pdfDocHigh = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1A: 'ˆ', 0x1B: '˙', 0x1C: '˝', 0x1D: '˛', 0x1E: '˚', 0x1F: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…', 0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰', 0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ', 0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł', 0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž', 0xA0: '€',
}

func buildPDFDoc() *Encoding {
	e := fromCharmap(charmap.ISO8859_1)
	for b, r := range pdfDocHigh {
		e[b] = r
	}
	return e
}

// BaseEncoding returns the named base encoding, or nil.
func BaseEncoding(name string) *Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding", "MacExpertEncoding":
		return MacRomanEncoding
	case "StandardEncoding":
		return StandardEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	}
	return nil
}

// DecodeString maps each byte through e and normalizes the result.
func (e *Encoding) DecodeString(data []byte) string {
	out := make([]rune, 0, len(data))
	for _, b := range data {
		if r := e[b]; r != 0 {
			out = append(out, r)
		}
	}
	return norm.NFC.String(string(out))
}

// DecodeUTF16BE decodes big-endian UTF-16, with or without a BOM.
func DecodeUTF16BE(data []byte) string {
	if len(data)%2 == 1 {
		data = append([]byte{0}, data...)
	}
	out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		out, _ = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	}
	return string(out)
}

// DecodeTextString decodes a PDF text string: UTF-16BE or UTF-8 when a
// byte order mark is present, PDFDocEncoding otherwise.
func DecodeTextString(data []byte) string {
	switch {
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return norm.NFC.String(DecodeUTF16BE(data))
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return norm.NFC.String(string(data[3:]))
	}
	return PDFDocEncoding.DecodeString(data)
}
