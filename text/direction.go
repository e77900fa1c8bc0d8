package text

import "unicode"

// Direction is the writing direction of a run of text.
type Direction int

const (
	// LTR is left to right: Latin, Cyrillic, Greek, CJK and most scripts.
	LTR Direction = iota
	// RTL is right to left: Arabic, Hebrew, Syriac, Thaana, N'Ko.
	RTL
	// Neutral covers digits, punctuation, symbols and space.
	Neutral
)

// String returns "LTR", "RTL" or "Neutral".
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// CharDirection returns the inherent direction of r.
func CharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
		return Neutral
	}
	if unicode.IsOneOf(rtlScripts, r) {
		return RTL
	}
	return LTR
}

// DetectDirection returns the dominant direction of s by counting strongly
// directional characters. A string with none is Neutral.
func DetectDirection(s string) Direction {
	var ltr, rtl int
	for _, r := range s {
		switch CharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}
