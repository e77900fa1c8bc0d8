package core

import (
	"errors"
	"testing"
)

func TestParseObjectKinds(t *testing.T) {
	tests := []struct {
		in   string
		want ObjectType
	}{
		{"null", ObjNull},
		{"true", ObjBool},
		{"42", ObjInt},
		{"-3.5", ObjReal},
		{"(str)", ObjString},
		{"<ff>", ObjString},
		{"/Name", ObjName},
		{"[1 2 3]", ObjArray},
		{"<< /A 1 >>", ObjDict},
		{"12 0 R", ObjIndirect},
	}
	for _, tt := range tests {
		obj, err := NewParser([]byte(tt.in)).ParseObject()
		if err != nil {
			t.Fatalf("ParseObject(%q): %v", tt.in, err)
		}
		if obj.Type() != tt.want {
			t.Errorf("ParseObject(%q) type = %s, want %s", tt.in, obj.Type(), tt.want)
		}
	}
}

func TestParseArrayWithReferences(t *testing.T) {
	obj, err := NewParser([]byte("[1 0 R 2 3 4 0 R /X]")).ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	arr := obj.(Array)
	if len(arr) != 5 {
		t.Fatalf("len = %d, want 5: %v", len(arr), arr)
	}
	if arr[0] != (IndirectRef{1, 0}) || arr[1] != Int(2) || arr[2] != Int(3) || arr[3] != (IndirectRef{4, 0}) {
		t.Errorf("unexpected array %v", arr)
	}
}

func TestParseNestedDict(t *testing.T) {
	obj, err := NewParser([]byte("<< /Type /Page /MediaBox [0 0 612 792] /Res << /F << /F1 5 0 R >> >> /Empty >>")).ParseObject()
	if err != nil {
		t.Fatal(err)
	}
	d := obj.(Dict)
	if n, _ := d.GetName("Type"); n != "Page" {
		t.Errorf("Type = %q", n)
	}
	box, _ := d.GetArray("MediaBox")
	if vals, ok := box.Floats(); !ok || vals[3] != 792 {
		t.Errorf("MediaBox = %v", box)
	}
	res, _ := d.GetDict("Res")
	fonts, _ := res.GetDict("F")
	if fonts["F1"] != (IndirectRef{5, 0}) {
		t.Errorf("F1 = %v", fonts["F1"])
	}
	if _, ok := d["Empty"].(Null); !ok {
		t.Errorf("dangling key should parse as null, got %v", d["Empty"])
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"[1 2", "<< /A >", "<< 1 2 >>", "foo", ""} {
		if _, err := NewParser([]byte(in)).ParseObject(); err == nil {
			t.Errorf("ParseObject(%q): expected error", in)
		}
	}
	if _, err := NewParser(nil).ParseObject(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("empty input error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestParseDeepNesting(t *testing.T) {
	in := make([]byte, 0, 600)
	for i := 0; i < 300; i++ {
		in = append(in, '[')
	}
	if _, err := NewParser(in).ParseObject(); err == nil {
		t.Error("expected nesting error")
	}
}

func TestParseIndirectObject(t *testing.T) {
	p := NewParser([]byte("7 0 obj\n<< /Kind /Test >>\nendobj"))
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.Ref != (IndirectRef{7, 0}) {
		t.Errorf("Ref = %v", obj.Ref)
	}
	if _, ok := obj.Object.(Dict); !ok {
		t.Errorf("Object = %T", obj.Object)
	}
}

func TestParseStreamWithLength(t *testing.T) {
	in := "3 0 obj\n<< /Length 11 >>\nstream\r\nhello world\nendstream\nendobj"
	obj, err := NewParser([]byte(in)).ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	s, ok := obj.Object.(*Stream)
	if !ok {
		t.Fatalf("Object = %T, want *Stream", obj.Object)
	}
	if string(s.Data) != "hello world" {
		t.Errorf("Data = %q", s.Data)
	}
}

func TestParseStreamWrongLength(t *testing.T) {
	in := "3 0 obj\n<< /Length 4 >>\nstream\nhello world\nendstream\nendobj"
	obj, err := NewParser([]byte(in)).ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "hello world" {
		t.Errorf("Data = %q, want scan fallback", got)
	}
}

type mapResolver map[int]Object

func (m mapResolver) ResolveReference(ref IndirectRef) (Object, error) {
	if o, ok := m[ref.Number]; ok {
		return o, nil
	}
	return nil, errors.New("missing")
}

func TestParseStreamIndirectLength(t *testing.T) {
	in := "3 0 obj << /Length 9 0 R >> stream\nab)endstreamcd\nendstream endobj"
	p := NewParser([]byte(in))
	p.SetReferenceResolver(mapResolver{9: Int(14)})
	obj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(obj.Object.(*Stream).Data); got != "ab)endstreamcd" {
		t.Errorf("Data = %q", got)
	}
}

func TestParseIndirectObjectBadHeader(t *testing.T) {
	if _, err := NewParser([]byte("7 obj 1 endobj")).ParseIndirectObject(); err == nil {
		t.Error("expected header error")
	}
}
