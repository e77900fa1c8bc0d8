package core

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// XRefEntryType is the kind of a cross-reference entry.
type XRefEntryType int

const (
	XRefEntryFree XRefEntryType = iota
	XRefEntryUncompressed
	XRefEntryCompressed
)

// XRefEntry locates one object. Uncompressed entries use Offset and
// Generation; compressed entries use Stream (the object stream number) and
// Index (position inside that stream).
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int64
	Generation int
	Stream     int
	Index      int
}

// XRefTable is the merged cross-reference data of a file.
type XRefTable struct {
	Entries map[int]XRefEntry
	Trailer Dict
	// IsStream is true when the newest section was a cross-reference stream.
	IsStream bool
}

// NewXRefTable returns an empty table.
func NewXRefTable() *XRefTable {
	return &XRefTable{Entries: make(map[int]XRefEntry), Trailer: Dict{}}
}

// Get returns the entry for an object number.
func (t *XRefTable) Get(num int) (XRefEntry, bool) {
	e, ok := t.Entries[num]
	return e, ok
}

// merge adds entries and trailer keys that are not yet present, so newer
// sections (merged first) take precedence.
func (t *XRefTable) merge(other *XRefTable) {
	for num, e := range other.Entries {
		if _, ok := t.Entries[num]; !ok {
			t.Entries[num] = e
		}
	}
	for k, v := range other.Trailer {
		if !t.Trailer.Has(k) {
			t.Trailer[k] = v
		}
	}
}

// ErrNoXRef is returned when no usable cross-reference data exists.
var ErrNoXRef = errors.New("no cross-reference data")

// FindStartXRef returns the offset recorded after the last startxref
// keyword.
func FindStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref: %w", ErrNoXRef)
	}
	lex := NewLexer(tail[idx+len("startxref"):])
	tok, err := lex.Next()
	if err != nil || tok.Type != TokenInteger {
		return 0, fmt.Errorf("startxref offset is not an integer")
	}
	off, _ := strconv.ParseInt(string(tok.Value), 10, 64)
	if off < 0 || off >= int64(len(data)) {
		return 0, fmt.Errorf("startxref offset %d outside file", off)
	}
	return off, nil
}

// LoadXRef reads every cross-reference section reachable from startxref,
// following /Prev and /XRefStm links. If the chain cannot be read the
// table is rebuilt by scanning the file for object headers.
func LoadXRef(data []byte) (*XRefTable, error) {
	table, err := loadXRefChain(data)
	if err == nil && len(table.Entries) > 0 && table.Trailer.Has("Root") {
		return table, nil
	}
	rebuilt, rerr := RebuildXRef(data)
	if rerr != nil {
		if err != nil {
			return nil, fmt.Errorf("%w (rebuild: %v)", err, rerr)
		}
		return nil, rerr
	}
	return rebuilt, nil
}

func loadXRefChain(data []byte) (*XRefTable, error) {
	start, err := FindStartXRef(data)
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	visited := make(map[int64]bool)
	first := true
	for off := start; off >= 0; {
		if visited[off] {
			break
		}
		visited[off] = true

		section, err := ParseXRefSection(data, off)
		if err != nil {
			if first {
				return nil, err
			}
			break
		}
		if first {
			merged.IsStream = section.IsStream
			first = false
		}

		// Hybrid file: the stream named by /XRefStm holds the compressed
		// entries and wins over the table's placeholders.
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok && !visited[int64(stm)] {
			visited[int64(stm)] = true
			if hybrid, err := ParseXRefSection(data, int64(stm)); err == nil {
				merged.merge(&XRefTable{Entries: hybrid.Entries, Trailer: Dict{}})
			}
		}
		merged.merge(section)

		prev, ok := section.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		off = int64(prev)
	}
	delete(merged.Trailer, "Prev")
	delete(merged.Trailer, "XRefStm")
	return merged, nil
}

// ParseXRefSection parses one classic table (with its trailer) or one
// cross-reference stream at offset.
func ParseXRefSection(data []byte, offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("xref offset %d outside file", offset)
	}
	p := NewParser(data)
	p.Seek(int(offset))
	tok, err := p.peek(0)
	if err != nil {
		return nil, err
	}
	if tok.Is("xref") {
		p.next()
		return parseXRefTable(p)
	}
	if tok.Type == TokenInteger {
		return parseXRefStreamObject(p)
	}
	return nil, fmt.Errorf("no xref section at offset %d", offset)
}

func parseXRefTable(p *Parser) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Is("trailer") {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("malformed xref subsection at offset %d", tok.Pos)
		}
		countTok, err := p.next()
		if err != nil || countTok.Type != TokenInteger {
			return nil, fmt.Errorf("malformed xref subsection count at offset %d", tok.Pos)
		}
		first, _ := strconv.Atoi(string(tok.Value))
		count, _ := strconv.Atoi(string(countTok.Value))

		for i := 0; i < count; i++ {
			entry, err := parseTableEntry(p)
			if err != nil {
				return nil, fmt.Errorf("xref entry %d: %w", first+i, err)
			}
			if _, dup := table.Entries[first+i]; !dup {
				table.Entries[first+i] = entry
			}
		}
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is %s, not a dictionary", obj.Type())
	}
	table.Trailer = trailer
	return table, nil
}

func parseTableEntry(p *Parser) (XRefEntry, error) {
	offTok, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	genTok, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	kindTok, err := p.next()
	if err != nil {
		return XRefEntry{}, err
	}
	if offTok.Type != TokenInteger || genTok.Type != TokenInteger || kindTok.Type != TokenKeyword {
		return XRefEntry{}, fmt.Errorf("malformed entry at offset %d", offTok.Pos)
	}
	off, _ := strconv.ParseInt(string(offTok.Value), 10, 64)
	gen, _ := strconv.Atoi(string(genTok.Value))

	switch string(kindTok.Value) {
	case "n":
		return XRefEntry{Type: XRefEntryUncompressed, Offset: off, Generation: gen}, nil
	case "f":
		return XRefEntry{Type: XRefEntryFree, Generation: gen}, nil
	}
	return XRefEntry{}, fmt.Errorf("unknown entry type %q", kindTok.Value)
}

func parseXRefStreamObject(p *Parser) (*XRefTable, error) {
	indirect, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := indirect.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %s is not a cross-reference stream", indirect.Ref)
	}
	return ParseXRefStream(stream)
}

// ParseXRefStream decodes a /Type /XRef stream into a table whose trailer
// is the stream dictionary.
func ParseXRefStream(stream *Stream) (*XRefTable, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream type is %q, not XRef", t)
	}
	wArr, ok := stream.Dict.GetArray("W")
	if !ok || len(wArr) != 3 {
		return nil, fmt.Errorf("xref stream /W must have three entries")
	}
	w := make([]int, 3)
	rowLen := 0
	for i, o := range wArr {
		n, ok := o.(Int)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("invalid /W entry %v", o)
		}
		w[i] = int(n)
		rowLen += int(n)
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream rows are empty")
	}

	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if idx, ok := stream.Dict.GetArray("Index"); ok {
		index = index[:0]
		for _, o := range idx {
			n, ok := o.(Int)
			if !ok {
				return nil, fmt.Errorf("invalid /Index entry %v", o)
			}
			index = append(index, int(n))
		}
		if len(index)%2 != 0 {
			return nil, fmt.Errorf("/Index has odd length %d", len(index))
		}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding xref stream: %w", err)
	}

	table := NewXRefTable()
	table.IsStream = true
	table.Trailer = stream.Dict
	pos := 0
	for i := 0; i < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowLen > len(data) {
				return table, nil
			}
			entry, err := decodeXRefStreamRow(data[pos:pos+rowLen], w)
			if err != nil {
				return nil, fmt.Errorf("xref stream entry %d: %w", first+j, err)
			}
			pos += rowLen
			if _, dup := table.Entries[first+j]; !dup {
				table.Entries[first+j] = entry
			}
		}
	}
	return table, nil
}

func decodeXRefStreamRow(row []byte, w []int) (XRefEntry, error) {
	typ := int64(1) // a zero-width type field defaults to uncompressed
	if w[0] > 0 {
		typ = readBigEndian(row[:w[0]])
	}
	f2 := readBigEndian(row[w[0] : w[0]+w[1]])
	f3 := readBigEndian(row[w[0]+w[1] : w[0]+w[1]+w[2]])

	switch typ {
	case 0:
		return XRefEntry{Type: XRefEntryFree, Generation: int(f3)}, nil
	case 1:
		return XRefEntry{Type: XRefEntryUncompressed, Offset: f2, Generation: int(f3)}, nil
	case 2:
		return XRefEntry{Type: XRefEntryCompressed, Stream: int(f2), Index: int(f3)}, nil
	}
	// Unknown types are to be treated as references to the null object.
	return XRefEntry{Type: XRefEntryFree}, nil
}

func readBigEndian(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d+)[ \t\r\n\f\x00]+(\d+)[ \t\r\n\f\x00]+obj\b`)

// RebuildXRef reconstructs cross-reference data by scanning for
// "num gen obj" headers. Later definitions of an object win. The trailer
// is taken from the last "trailer" dictionary, or from the last
// /Type /XRef stream, or synthesized from a /Type /Catalog object.
func RebuildXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()
	for _, m := range objHeader.FindAllSubmatchIndex(data, -1) {
		num, err1 := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, err2 := strconv.Atoi(string(data[m[4]:m[5]]))
		if err1 != nil || err2 != nil {
			continue
		}
		table.Entries[num] = XRefEntry{Type: XRefEntryUncompressed, Offset: int64(m[2]), Generation: gen}
	}
	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("rebuild: %w", ErrNoXRef)
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p := NewParser(data)
		p.Seek(idx + len("trailer"))
		if obj, err := p.ParseObject(); err == nil {
			if d, ok := obj.(Dict); ok && d.Has("Root") {
				table.Trailer = d
			}
		}
	}

	p := NewParser(data)
	for num, e := range table.Entries {
		if table.Trailer.Has("Root") {
			break
		}
		p.Seek(int(e.Offset))
		obj, err := p.ParseIndirectObject()
		if err != nil {
			continue
		}
		switch v := obj.Object.(type) {
		case *Stream:
			if t, _ := v.Dict.GetName("Type"); t == "XRef" && v.Dict.Has("Root") {
				table.Trailer = Dict{"Root": v.Dict.Get("Root"), "Info": v.Dict.Get("Info")}
			}
		case Dict:
			if t, _ := v.GetName("Type"); t == "Catalog" {
				table.Trailer["Root"] = IndirectRef{Number: num, Generation: e.Generation}
			}
		}
	}
	if !table.Trailer.Has("Root") {
		return nil, fmt.Errorf("rebuild: no document catalog found")
	}
	if table.Trailer.Get("Info") == nil {
		delete(table.Trailer, "Info")
	}
	return table, nil
}
