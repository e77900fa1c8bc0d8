package core

import (
	"fmt"
	"strconv"
)

// ObjectStream is a decoded /Type /ObjStm stream.
type ObjectStream struct {
	numbers []int
	offsets []int
	first   int
	data    []byte
}

// NewObjectStream decodes an object stream and reads its header of
// object-number/offset pairs.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream type is %q, not ObjStm", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream missing /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream missing /First")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("object stream /First %d beyond data length %d", first, len(data))
	}

	s := &ObjectStream{first: int(first), data: data}
	lex := NewLexer(data[:first])
	for i := 0; i < int(n); i++ {
		numTok, err1 := lex.Next()
		offTok, err2 := lex.Next()
		if err1 != nil || err2 != nil || numTok.Type != TokenInteger || offTok.Type != TokenInteger {
			return nil, fmt.Errorf("object stream header truncated at pair %d", i)
		}
		num, _ := strconv.Atoi(string(numTok.Value))
		off, _ := strconv.Atoi(string(offTok.Value))
		s.numbers = append(s.numbers, num)
		s.offsets = append(s.offsets, off)
	}
	return s, nil
}

// Len returns the number of objects in the stream.
func (s *ObjectStream) Len() int { return len(s.numbers) }

// ObjectAt parses the object at index i and returns it with its number.
func (s *ObjectStream) ObjectAt(i int) (Object, int, error) {
	if i < 0 || i >= len(s.numbers) {
		return nil, 0, fmt.Errorf("object stream index %d out of range", i)
	}
	pos := s.first + s.offsets[i]
	if pos > len(s.data) {
		return nil, 0, fmt.Errorf("object stream offset %d beyond data", pos)
	}
	p := NewParser(s.data)
	p.Seek(pos)
	obj, err := p.ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("object %d in object stream: %w", s.numbers[i], err)
	}
	return obj, s.numbers[i], nil
}

// Object returns the object with the given number. The xref index is
// tried first and the header is searched when it does not match.
func (s *ObjectStream) Object(num, index int) (Object, error) {
	if index >= 0 && index < len(s.numbers) && s.numbers[index] == num {
		obj, _, err := s.ObjectAt(index)
		return obj, err
	}
	for i, n := range s.numbers {
		if n == num {
			obj, _, err := s.ObjectAt(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not in object stream", num)
}
