package font

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// glyphNames covers the names that appear in /Differences arrays of
// Latin-text fonts. Accented letters are composed in GlyphRune.
var glyphNames = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#', "dollar": '$',
	"percent": '%', "ampersand": '&', "quotesingle": '\'', "quoteright": '’',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+', "comma": ',',
	"hyphen": '-', "period": '.', "slash": '/', "zero": '0', "one": '1', "two": '2',
	"three": '3', "four": '4', "five": '5', "six": '6', "seven": '7', "eight": '8',
	"nine": '9', "colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@', "bracketleft": '[', "backslash": '\\',
	"bracketright": ']', "asciicircum": '^', "underscore": '_', "grave": '`',
	"quoteleft": '‘', "braceleft": '{', "bar": '|', "braceright": '}',
	"asciitilde": '~', "bullet": '•', "endash": '–', "emdash": '—',
	"quotedblleft": '“', "quotedblright": '”', "quotesinglbase": '‚',
	"quotedblbase": '„', "ellipsis": '…', "dagger": '†', "daggerdbl": '‡',
	"trademark": '™', "copyright": '©', "registered": '®', "degree": '°',
	"section": '§', "paragraph": '¶', "Euro": '€', "minus": '−', "nbspace": ' ',
	"fi": 'ﬁ', "fl": 'ﬂ', "ff": 'ﬀ', "ffi": 'ﬃ', "ffl": 'ﬄ', "germandbls": 'ß',
	"AE": 'Æ', "ae": 'æ', "OE": 'Œ', "oe": 'œ', "Oslash": 'Ø', "oslash": 'ø',
	"Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı', "exclamdown": '¡',
	"questiondown": '¿', "guillemotleft": '«', "guillemotright": '»',
	"guilsinglleft": '‹', "guilsinglright": '›', "cent": '¢', "sterling": '£',
	"yen": '¥', "florin": 'ƒ', "currency": '¤', "perthousand": '‰',
	"periodcentered": '·', "multiply": '×', "divide": '÷', "plusminus": '±',
	"onehalf": '½', "onequarter": '¼', "threequarters": '¾', "mu": 'µ',
	"ordfeminine": 'ª', "ordmasculine": 'º', "brokenbar": '¦', "logicalnot": '¬',
	"macron": '¯', "acute": '´', "cedilla": '¸', "dieresis": '¨', "circumflex": 'ˆ',
	"tilde": '˜', "caron": 'ˇ', "ring": '˚', "Eth": 'Ð', "eth": 'ð', "Thorn": 'Þ',
	"thorn": 'þ', "fraction": '⁄', "arrowright": '→', "arrowleft": '←',
	"checkmark": '✓', "square": '□', "uni00A0": ' ',
}

// accents maps accent suffixes of composite glyph names to combining marks.
var accents = []struct {
	suffix string
	mark   rune
}{
	{"acute", '\u0301'},
	{"grave", '\u0300'},
	{"circumflex", '\u0302'},
	{"dieresis", '\u0308'},
	{"tilde", '\u0303'},
	{"ring", '\u030A'},
	{"cedilla", '\u0327'},
	{"caron", '\u030C'},
	{"macron", '\u0304'},
	{"breve", '\u0306'},
	{"ogonek", '\u0328'},
	{"dotaccent", '\u0307'},
	{"hungarumlaut", '\u030B'},
}

// GlyphRune maps a glyph name to its Unicode text. It understands the
// names above, single letters, uniXXXX and uXXXX[XX] forms, and accented
// Latin letters such as "eacute". Suffixes after a period are ignored.
func GlyphRune(name string) (string, bool) {
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if r, ok := glyphNames[name]; ok {
		return string(r), true
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return name, true
	}
	if strings.HasPrefix(name, "uni") && len(name) >= 7 && (len(name)-3)%4 == 0 {
		var sb strings.Builder
		for i := 3; i < len(name); i += 4 {
			v, err := strconv.ParseUint(name[i:i+4], 16, 32)
			if err != nil {
				return "", false
			}
			sb.WriteRune(rune(v))
		}
		return sb.String(), true
	}
	if strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7 {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return string(rune(v)), true
		}
	}
	if len(name) > 1 && isASCIILetter(name[0]) {
		for _, a := range accents {
			if name[1:] == a.suffix {
				return norm.NFC.String(string([]rune{rune(name[0]), a.mark})), true
			}
		}
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
