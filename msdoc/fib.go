package msdoc

import "unicode/utf16"

// File Information Block layout for nFib 0x00C1.
const (
	wIdent   = 0xA5EC
	nFib     = 0x00C1
	nFibBack = 0x00BF
	lidEnUS  = 0x0409

	cswCount  = 14
	cslwCount = 22
	cbRgFcLcb = 0x5D

	offCsw      = 0x20
	offCslw     = 0x3E
	offRgLw     = 0x40
	offCbRgFcLc = 0x98
	offRgFcLcb  = 0x9A
	fibSize     = offRgFcLcb + 8*cbRgFcLcb + 2

	// textStart is where the document text begins in WordDocument.
	textStart = 0x400
)

// Flags in FibBase.
const (
	fWhichTblStm = 1 << 9
	fExtChar     = 1 << 12
)

// Indexes into FibRgLw97.
const (
	lwCbMac   = 0
	lwCcpText = 3
)

// Indexes into FibRgFcLcb97.
const (
	fcStshfOrig   = 0
	fcStshf       = 1
	fcPlcfBteChpx = 12
	fcPlcfBtePapx = 13
	fcSttbfFfn    = 15
	fcDop         = 31
	fcClx         = 33
)

// FcCompressed flag: the piece is 8-bit text at fc/2.
const fCompressed = 1 << 30

// papxPerFKP is how many paragraphs fit one PAPX FKP: each needs a
// 4-byte FC and a 13-byte BxPap, and the shared PapxInFkp sits at
// papxOffset.
const (
	papxPerFKP = 29
	papxOffset = 0x1F8
)

const dopSize = 500

// buildStreams lays out the WordDocument and 1Table streams around the
// encoded text.
func buildStreams(text []byte, compressed bool) (wordDoc, table []byte) {
	bpc := 2
	if compressed {
		bpc = 1
	}
	ccp := len(text) / bpc
	fcEnd := textStart + len(text)

	// Paragraph boundaries, as byte offsets in WordDocument.
	bounds := []uint32{textStart}
	for i := 0; i < ccp; i++ {
		if charAt(text, i, bpc) == paragraphMark {
			bounds = append(bounds, uint32(textStart+(i+1)*bpc))
		}
	}
	if last := bounds[len(bounds)-1]; last != uint32(fcEnd) {
		bounds = append(bounds, uint32(fcEnd))
	}

	wordDoc = make([]byte, textStart, fcEnd+sectorSize*4)
	wordDoc = append(wordDoc, text...)
	wordDoc = padTo(wordDoc, sectorSize)

	// One CHPX run with default properties covers the text.
	chpxPn := uint32(len(wordDoc) / sectorSize)
	wordDoc = append(wordDoc, chpxFKP(textStart, uint32(fcEnd))...)

	var papxFCs, papxPns []uint32
	for i := 0; i+1 < len(bounds); i += papxPerFKP {
		end := i + papxPerFKP
		if end > len(bounds)-1 {
			end = len(bounds) - 1
		}
		papxFCs = append(papxFCs, bounds[i])
		papxPns = append(papxPns, uint32(len(wordDoc)/sectorSize))
		wordDoc = append(wordDoc, papxFKP(bounds[i:end+1])...)
	}
	papxFCs = append(papxFCs, uint32(fcEnd))

	// 1Table: stylesheet, bin tables, font table, document properties
	// and the piece table.
	var fcLcb [cbRgFcLcb][2]uint32
	add := func(idx int, part []byte) {
		fcLcb[idx] = [2]uint32{uint32(len(table)), uint32(len(part))}
		table = append(table, part...)
	}
	stsh := stylesheet()
	add(fcStshf, stsh)
	fcLcb[fcStshfOrig] = fcLcb[fcStshf]
	add(fcPlcfBteChpx, plcBte([]uint32{textStart, uint32(fcEnd)}, []uint32{chpxPn}))
	add(fcPlcfBtePapx, plcBte(papxFCs, papxPns))
	add(fcSttbfFfn, fontTable("Times New Roman"))
	add(fcDop, dop())
	add(fcClx, clx(uint32(ccp), textStart, compressed))

	fib := wordDoc[:fibSize]
	le.PutUint16(fib[0x00:], wIdent)
	le.PutUint16(fib[0x02:], nFib)
	le.PutUint16(fib[0x06:], lidEnUS)
	le.PutUint16(fib[0x0A:], fWhichTblStm|fExtChar)
	le.PutUint16(fib[0x0C:], nFibBack)
	le.PutUint16(fib[offCsw:], cswCount)
	le.PutUint16(fib[offCslw:], cslwCount)
	le.PutUint32(fib[offRgLw+4*lwCbMac:], uint32(len(wordDoc)))
	le.PutUint32(fib[offRgLw+4*lwCcpText:], uint32(ccp))
	le.PutUint16(fib[offCbRgFcLc:], cbRgFcLcb)
	for i, pair := range fcLcb {
		le.PutUint32(fib[offRgFcLcb+8*i:], pair[0])
		le.PutUint32(fib[offRgFcLcb+8*i+4:], pair[1])
	}
	return wordDoc, table
}

func charAt(text []byte, i, bpc int) rune {
	if bpc == 1 {
		return rune(text[i])
	}
	return rune(le.Uint16(text[2*i:]))
}

func padTo(b []byte, n int) []byte {
	if r := len(b) % n; r != 0 {
		b = append(b, make([]byte, n-r)...)
	}
	return b
}

// chpxFKP is a character property page with a single run and no
// properties.
func chpxFKP(fcFirst, fcLim uint32) []byte {
	page := make([]byte, sectorSize)
	le.PutUint32(page[0:], fcFirst)
	le.PutUint32(page[4:], fcLim)
	// page[8] is the run's Chpx offset; zero means default properties.
	page[sectorSize-1] = 1
	return page
}

// papxFKP is a paragraph property page for the paragraphs between
// consecutive fcs. All paragraphs share one PapxInFkp holding istd 0.
func papxFKP(fcs []uint32) []byte {
	page := make([]byte, sectorSize)
	n := len(fcs) - 1
	for i, fc := range fcs {
		le.PutUint32(page[4*i:], fc)
	}
	bx := 4 * len(fcs)
	for i := 0; i < n; i++ {
		page[bx+13*i] = papxOffset / 2
	}
	// cb = 0, cb' = 1: a two-byte GrpPrlAndIstd with istd 0.
	page[papxOffset] = 0
	page[papxOffset+1] = 1
	page[sectorSize-1] = byte(n)
	return page
}

// plcBte maps FC ranges to FKP page numbers.
func plcBte(fcs, pns []uint32) []byte {
	out := make([]byte, 0, 4*(len(fcs)+len(pns)))
	for _, fc := range fcs {
		out = le.AppendUint32(out, fc)
	}
	for _, pn := range pns {
		out = le.AppendUint32(out, pn)
	}
	return out
}

// clx is a piece table with one piece covering all ccp characters.
func clx(ccp uint32, fc uint32, compressed bool) []byte {
	pieceFC := fc
	if compressed {
		pieceFC = fc*2 | fCompressed
	}
	plc := make([]byte, 0, 16)
	plc = le.AppendUint32(plc, 0)
	plc = le.AppendUint32(plc, ccp)
	plc = le.AppendUint16(plc, 0) // Pcd flags
	plc = le.AppendUint32(plc, pieceFC)
	plc = le.AppendUint16(plc, 0) // prm

	out := []byte{0x02} // clxt: Pcdt
	out = le.AppendUint32(out, uint32(len(plc)))
	return append(out, plc...)
}

// stylesheet holds the fixed style slots with only Normal (istd 0)
// defined.
func stylesheet() []byte {
	const cstd = 15

	var stshi []byte
	stshi = le.AppendUint16(stshi, cstd)
	stshi = le.AppendUint16(stshi, 0x000A) // cbSTDBaseInFile
	stshi = le.AppendUint16(stshi, 0)      // fStdStylenamesWritten
	stshi = le.AppendUint16(stshi, 0x005B) // stiMaxWhenSaved
	stshi = le.AppendUint16(stshi, cstd)   // istdMaxFixedWhenSaved
	stshi = le.AppendUint16(stshi, 0)      // nVerBuiltInNamesWhenSaved
	stshi = append(stshi, make([]byte, 6)...)

	name := utf16.Encode([]rune("Normal"))
	var std []byte
	std = le.AppendUint16(std, 0)      // sti 0: Normal
	std = le.AppendUint16(std, 0xFFF1) // stk paragraph, no base style
	std = le.AppendUint16(std, 0x0002) // two UPXs, next style Normal
	std = le.AppendUint16(std, 0)      // bchUpe, set below
	std = le.AppendUint16(std, 0)      // grfstd
	std = le.AppendUint16(std, uint16(len(name)))
	for _, c := range name {
		std = le.AppendUint16(std, c)
	}
	std = le.AppendUint16(std, 0)
	// Paragraph UPX: istd 0 and no properties. Character UPX: empty.
	std = le.AppendUint16(std, 2)
	std = le.AppendUint16(std, 0)
	std = le.AppendUint16(std, 0)
	le.PutUint16(std[6:], uint16(len(std)))

	var out []byte
	out = le.AppendUint16(out, uint16(len(stshi)))
	out = append(out, stshi...)
	out = le.AppendUint16(out, uint16(len(std)))
	out = append(out, std...)
	for i := 1; i < cstd; i++ {
		out = le.AppendUint16(out, 0) // empty slot
	}
	return out
}

// fontTable is an SttbfFfn with one TrueType roman font.
func fontTable(name string) []byte {
	chars := utf16.Encode([]rune(name))
	var ffn []byte
	ffn = append(ffn, 0x16)                   // variable pitch, TrueType, roman
	ffn = le.AppendUint16(ffn, 400)           // wWeight
	ffn = append(ffn, 0, 0)                   // chs ANSI, no alternate name
	ffn = append(ffn, make([]byte, 10+24)...) // PANOSE, FONTSIGNATURE
	for _, c := range chars {
		ffn = le.AppendUint16(ffn, c)
	}
	ffn = le.AppendUint16(ffn, 0)

	var out []byte
	out = le.AppendUint16(out, 1) // cData
	out = le.AppendUint16(out, 0) // cbExtra
	out = append(out, byte(len(ffn)))
	return append(out, ffn...)
}

// dop holds default document properties with half-inch tab stops.
func dop() []byte {
	d := make([]byte, dopSize)
	le.PutUint16(d[0x0A:], 720) // dxaTab
	return d
}
