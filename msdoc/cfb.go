package msdoc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf16"
)

// Compound file (version 3) constants.
const (
	sectorSize     = 512
	miniCutoff     = 4096
	dirEntrySize   = 128
	fatPerSector   = sectorSize / 4
	headerDIFAT    = 109
	difatPerSector = fatPerSector - 1

	difSect    = 0xFFFFFFFC
	fatSect    = 0xFFFFFFFD
	endOfChain = 0xFFFFFFFE
	freeSect   = 0xFFFFFFFF
	noStream   = 0xFFFFFFFF
)

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var le = binary.LittleEndian

type cfbStream struct {
	name string
	data []byte
}

// sectorCounts returns how many FAT and DIFAT sectors a file with n
// other sectors needs. The FAT must also map its own sectors and the
// DIFAT sectors.
func sectorCounts(n int) (fat, difat int) {
	fat = 1
	for {
		total := n + fat + difat
		needFat := (total + fatPerSector - 1) / fatPerSector
		needDif := 0
		if needFat > headerDIFAT {
			needDif = (needFat - headerDIFAT + difatPerSector - 1) / difatPerSector
		}
		if needFat == fat && needDif == difat {
			return fat, difat
		}
		fat, difat = needFat, needDif
	}
}

// writeCompoundFile writes streams into the root storage of a compound
// file. Streams shorter than the mini stream cutoff are zero-padded to
// it, so the file never needs a mini FAT.
func writeCompoundFile(w io.Writer, clsid [16]byte, streams []cfbStream) error {
	type placed struct {
		cfbStream
		start, count int
	}
	var files []placed
	next := 0
	for _, s := range streams {
		data := s.data
		if len(data) < miniCutoff {
			data = append(data[:len(data):len(data)], make([]byte, miniCutoff-len(data))...)
		}
		count := (len(data) + sectorSize - 1) / sectorSize
		files = append(files, placed{cfbStream{s.name, data}, next, count})
		next += count
	}

	dirStart := next
	dirCount := ((len(streams)+1)*dirEntrySize + sectorSize - 1) / sectorSize
	next += dirCount
	fatCount, difCount := sectorCounts(next)
	fatStart := next
	difStart := fatStart + fatCount
	total := difStart + difCount

	fat := make([]uint32, fatCount*fatPerSector)
	for i := range fat {
		fat[i] = freeSect
	}
	chain := func(start, count int) {
		for i := 0; i < count; i++ {
			fat[start+i] = uint32(start + i + 1)
		}
		fat[start+count-1] = endOfChain
	}
	for _, f := range files {
		chain(f.start, f.count)
	}
	chain(dirStart, dirCount)
	for i := 0; i < fatCount; i++ {
		fat[fatStart+i] = fatSect
	}
	for i := 0; i < difCount; i++ {
		fat[difStart+i] = difSect
	}

	var buf bytes.Buffer
	buf.Grow((total + 1) * sectorSize)

	// Header.
	hdr := make([]byte, sectorSize)
	copy(hdr, cfbSignature)
	le.PutUint16(hdr[0x18:], 0x003E)
	le.PutUint16(hdr[0x1A:], 0x0003)
	le.PutUint16(hdr[0x1C:], 0xFFFE)
	le.PutUint16(hdr[0x1E:], 9) // 512-byte sectors
	le.PutUint16(hdr[0x20:], 6) // 64-byte mini sectors
	le.PutUint32(hdr[0x2C:], uint32(fatCount))
	le.PutUint32(hdr[0x30:], uint32(dirStart))
	le.PutUint32(hdr[0x38:], miniCutoff)
	le.PutUint32(hdr[0x3C:], endOfChain)
	le.PutUint32(hdr[0x44:], endOfChain)
	if difCount > 0 {
		le.PutUint32(hdr[0x44:], uint32(difStart))
	}
	le.PutUint32(hdr[0x48:], uint32(difCount))
	for i := 0; i < headerDIFAT; i++ {
		v := uint32(freeSect)
		if i < fatCount {
			v = uint32(fatStart + i)
		}
		le.PutUint32(hdr[0x4C+4*i:], v)
	}
	buf.Write(hdr)

	for _, f := range files {
		buf.Write(f.data)
		if pad := f.count*sectorSize - len(f.data); pad > 0 {
			buf.Write(make([]byte, pad))
		}
	}

	dir := make([]byte, dirCount*sectorSize)
	for i := 0; i < len(dir)/dirEntrySize; i++ {
		e := dir[i*dirEntrySize:]
		le.PutUint32(e[0x44:], noStream)
		le.PutUint32(e[0x48:], noStream)
		le.PutUint32(e[0x4C:], noStream)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	left, right, top := siblingTree(names)
	root := dirEntry{name: "Root Entry", kind: 5, child: top, clsid: clsid, start: endOfChain}
	root.put(dir[0:])
	for i, f := range files {
		dirEntry{
			name:  f.name,
			kind:  2,
			left:  left[i],
			right: right[i],
			child: noStream,
			start: uint32(f.start),
			size:  uint32(len(f.data)),
		}.put(dir[(i+1)*dirEntrySize:])
	}
	buf.Write(dir)

	fatBytes := make([]byte, 4*len(fat))
	for i, v := range fat {
		le.PutUint32(fatBytes[4*i:], v)
	}
	buf.Write(fatBytes)

	for d := 0; d < difCount; d++ {
		sec := make([]byte, sectorSize)
		for i := 0; i < difatPerSector; i++ {
			v := uint32(freeSect)
			if idx := headerDIFAT + d*difatPerSector + i; idx < fatCount {
				v = uint32(fatStart + idx)
			}
			le.PutUint32(sec[4*i:], v)
		}
		nextDif := uint32(endOfChain)
		if d+1 < difCount {
			nextDif = uint32(difStart + d + 1)
		}
		le.PutUint32(sec[sectorSize-4:], nextDif)
		buf.Write(sec)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing compound file: %w", err)
	}
	return nil
}

type dirEntry struct {
	name        string
	kind        byte // 2 stream, 5 root storage
	left, right uint32
	child       uint32
	clsid       [16]byte
	start, size uint32
}

func (d dirEntry) put(b []byte) {
	u := utf16.Encode([]rune(d.name))
	for i, c := range u {
		le.PutUint16(b[2*i:], c)
	}
	le.PutUint16(b[0x40:], uint16(2*(len(u)+1)))
	b[0x42] = d.kind
	b[0x43] = 1 // black
	le.PutUint32(b[0x44:], d.left)
	le.PutUint32(b[0x48:], d.right)
	le.PutUint32(b[0x4C:], d.child)
	copy(b[0x50:], d.clsid[:])
	le.PutUint32(b[0x74:], d.start)
	le.PutUint32(b[0x78:], d.size)
}

// siblingTree arranges the entries of one storage into a balanced
// binary search tree in compound file name order. Entry i of the
// storage has directory id i+1. It returns each entry's left and right
// sibling ids and the id of the tree's root.
func siblingTree(names []string) (left, right []uint32, top uint32) {
	left = make([]uint32, len(names))
	right = make([]uint32, len(names))
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return nameLess(names[order[a]], names[order[b]])
	})

	var build func(lo, hi int) uint32
	build = func(lo, hi int) uint32 {
		if lo >= hi {
			return noStream
		}
		mid := (lo + hi) / 2
		i := order[mid]
		left[i] = build(lo, mid)
		right[i] = build(mid+1, hi)
		return uint32(i + 1)
	}
	return left, right, build(0, len(order))
}

// nameLess compares directory names: shorter names first, then by
// upper-cased UTF-16 code units.
func nameLess(a, b string) bool {
	ua := utf16.Encode([]rune(strings.ToUpper(a)))
	ub := utf16.Encode([]rune(strings.ToUpper(b)))
	if len(ua) != len(ub) {
		return len(ua) < len(ub)
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return false
}
