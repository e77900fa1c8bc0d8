package core

import (
	"bytes"
	"compress/zlib"
	"testing"
)

func objStm(t *testing.T, header, body string, compress bool) *Stream {
	t.Helper()
	data := []byte(header + body)
	dict := Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(len(header))}
	if compress {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		w.Write(data)
		w.Close()
		data = buf.Bytes()
		dict["Filter"] = Name("FlateDecode")
	}
	return &Stream{Dict: dict, Data: data}
}

func TestObjectStream(t *testing.T) {
	for _, compress := range []bool{false, true} {
		s := objStm(t, "10 0 11 14 ", "<< /A 1 >>    [1 2 3]", compress)
		os, err := NewObjectStream(s)
		if err != nil {
			t.Fatalf("NewObjectStream(compress=%v): %v", compress, err)
		}
		if os.Len() != 2 {
			t.Fatalf("Len = %d, want 2", os.Len())
		}
		obj, num, err := os.ObjectAt(1)
		if err != nil {
			t.Fatal(err)
		}
		if num != 11 {
			t.Errorf("number = %d, want 11", num)
		}
		if arr, ok := obj.(Array); !ok || len(arr) != 3 {
			t.Errorf("object 11 = %v", obj)
		}
		obj, err = os.Object(10, 5)
		if err != nil {
			t.Fatal(err)
		}
		if d, ok := obj.(Dict); !ok || d["A"] != Int(1) {
			t.Errorf("object 10 = %v", obj)
		}
		if _, err := os.Object(99, 0); err == nil {
			t.Error("expected error for missing object")
		}
	}
}

func TestObjectStreamInvalid(t *testing.T) {
	tests := []*Stream{
		{Dict: Dict{"Type": Name("XRef")}},
		{Dict: Dict{"Type": Name("ObjStm"), "First": Int(0)}},
		{Dict: Dict{"Type": Name("ObjStm"), "N": Int(1), "First": Int(50)}, Data: []byte("1 0")},
		{Dict: Dict{"Type": Name("ObjStm"), "N": Int(2), "First": Int(4)}, Data: []byte("1 0 null")},
	}
	for i, s := range tests {
		if _, err := NewObjectStream(s); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestStreamDecodeChain(t *testing.T) {
	s := &Stream{
		Dict: Dict{"Filter": Array{Name("ASCIIHexDecode"), Name("RunLengthDecode")}},
		Data: []byte("02616263FE7880>"),
	}
	got, err := s.Decode()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abcxxx" {
		t.Errorf("got %q, want abcxxx", got)
	}
}

func TestStreamDecodePassthrough(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	s := &Stream{Dict: Dict{"Filter": Name("DCTDecode")}, Data: jpeg}
	got, err := s.Decode()
	if err != nil || !bytes.Equal(got, jpeg) {
		t.Errorf("Decode = %v, %v", got, err)
	}
	if f := s.Filters(); len(f) != 1 || f[0] != "DCTDecode" {
		t.Errorf("Filters = %v", f)
	}
}
