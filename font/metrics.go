package font

import (
	"strings"

	"github.com/tsawler/pdfconv/core"
)

// DefaultWidth is the advance, in thousandths of an em, of a glyph with
// no metrics.
const DefaultWidth = 500.0

// standardWidths holds advances for codes 32..126 of the standard 14
// text fonts. Oblique and italic faces share their upright widths.
var standardWidths = map[string]*[95]float64{
	"Helvetica": {
		278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
		1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
		333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
		556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
	},
	"Helvetica-Bold": {
		278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
		556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
		975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
		667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
		333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
		611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
	},
	"Times-Roman": {
		250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278, 564, 564, 564, 444,
		921, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
		556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 333, 278, 333, 469, 500,
		333, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
		500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
	},
	"Times-Bold": {
		250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333, 250, 278,
		500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
		930, 722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
		611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 333, 278, 333, 581, 500,
		333, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
		556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
	},
}

// standardWidthsFor returns the width table for a standard 14 name, or nil.
// Courier faces report ok with a nil table: every glyph is 600 units.
func standardWidthsFor(base string) (table *[95]float64, mono, ok bool) {
	switch {
	case strings.HasPrefix(base, "Courier"):
		return nil, true, true
	case base == "Symbol" || base == "ZapfDingbats":
		return nil, false, true
	case strings.HasPrefix(base, "Helvetica-Bold"), base == "Arial,Bold", base == "Arial-BoldMT":
		return standardWidths["Helvetica-Bold"], false, true
	case strings.HasPrefix(base, "Helvetica"), base == "Arial", base == "ArialMT":
		return standardWidths["Helvetica"], false, true
	case base == "Times-Bold" || base == "Times-BoldItalic":
		return standardWidths["Times-Bold"], false, true
	case strings.HasPrefix(base, "Times"):
		return standardWidths["Times-Roman"], false, true
	}
	return nil, false, false
}

// widthTable is a sparse code-to-advance map with a default.
type widthTable struct {
	widths map[int]float64
	dflt   float64
}

func (w *widthTable) width(code int) float64 {
	if v, ok := w.widths[code]; ok {
		return v
	}
	return w.dflt
}

// simpleWidths reads /FirstChar and /Widths, falling back to standard
// metrics and then to the descriptor /MissingWidth.
func simpleWidths(dict, desc core.Dict, base string, r core.Resolver) *widthTable {
	wt := &widthTable{widths: make(map[int]float64), dflt: DefaultWidth}
	if mw, ok := core.ResolveNumber(r, desc.Get("MissingWidth")); ok && mw > 0 {
		wt.dflt = mw
	}

	if arr, ok := core.ResolveArray(r, dict.Get("Widths")); ok {
		first, _ := core.ResolveNumber(r, dict.Get("FirstChar"))
		for i, o := range arr {
			if v, ok := core.ResolveNumber(r, o); ok {
				wt.widths[int(first)+i] = v
			}
		}
		return wt
	}

	table, mono, ok := standardWidthsFor(base)
	switch {
	case !ok:
	case mono:
		wt.dflt = 600
	case table != nil:
		for i, v := range table {
			wt.widths[32+i] = v
		}
	}
	return wt
}

// cidWidths reads /DW and /W from a CIDFont dictionary. /W entries are
// either "c [w1 w2 ...]" or "cFirst cLast w".
func cidWidths(cidFont core.Dict, r core.Resolver) *widthTable {
	wt := &widthTable{widths: make(map[int]float64), dflt: 1000}
	if dw, ok := core.ResolveNumber(r, cidFont.Get("DW")); ok {
		wt.dflt = dw
	}
	arr, _ := core.ResolveArray(r, cidFont.Get("W"))
	for i := 0; i < len(arr); {
		first, ok := core.ResolveNumber(r, arr[i])
		if !ok || i+1 >= len(arr) {
			break
		}
		if list, ok := core.ResolveArray(r, arr[i+1]); ok {
			for j, o := range list {
				if v, ok := core.ResolveNumber(r, o); ok {
					wt.widths[int(first)+j] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(arr) {
			break
		}
		last, ok1 := core.ResolveNumber(r, arr[i+1])
		w, ok2 := core.ResolveNumber(r, arr[i+2])
		if ok1 && ok2 && last >= first && last-first < 1<<16 {
			for c := int(first); c <= int(last); c++ {
				wt.widths[c] = w
			}
		}
		i += 3
	}
	return wt
}
