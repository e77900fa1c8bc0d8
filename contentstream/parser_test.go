package contentstream

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/tsawler/pdfconv/core"
)

func TestParseTextOperators(t *testing.T) {
	ops, err := Parse([]byte("BT /F1 12 Tf 72 712 Td (Hello) Tj [(W) -20 (orld)] TJ T* (x) ' ET"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"BT", "Tf", "Td", "Tj", "TJ", "T*", "'", "ET"}
	if len(ops) != len(want) {
		t.Fatalf("got %d ops, want %d: %v", len(ops), len(want), ops)
	}
	for i, op := range ops {
		if op.Operator != want[i] {
			t.Errorf("op %d = %q, want %q", i, op.Operator, want[i])
		}
	}
	if n, _ := ops[1].Operands[0].(core.Name); n != "F1" {
		t.Errorf("Tf font = %v", ops[1].Operands[0])
	}
	if arr, ok := ops[4].Operands[0].(core.Array); !ok || len(arr) != 3 {
		t.Errorf("TJ operand = %v", ops[4].Operands)
	}
}

func TestParseGraphicsOperators(t *testing.T) {
	ops, err := Parse([]byte("q 1 0 0 1 0 0 cm 100 0 0 50 10 700 cm /Im0 Do Q 1 0 0 RG"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 6 {
		t.Fatalf("got %d ops: %v", len(ops), ops)
	}
	if len(ops[2].Operands) != 6 {
		t.Errorf("cm operands = %v", ops[2].Operands)
	}
	for _, o := range ops[2].Operands {
		if _, ok := o.(core.Int); !ok {
			t.Errorf("cm operand %v is %T, want core.Int", o, o)
		}
	}
	if ops[5].Operator != "RG" || len(ops[5].Operands) != 3 {
		t.Errorf("RG op = %+v", ops[5])
	}
}

func TestParseInlineImage(t *testing.T) {
	data := []byte("q BI /W 2 /H 2 /CS /G /BPC 8 ID \x00EI\xff EI Q")
	ops, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 {
		t.Fatalf("got %d ops: %v", len(ops), ops)
	}
	img, ok := ops[1].InlineImage()
	if !ok {
		t.Fatalf("op 1 is %q, want inline image", ops[1].Operator)
	}
	if string(img.Data) != "\x00EI\xff" {
		t.Errorf("data = %q", img.Data)
	}
	if cs, _ := img.Dict.GetName("ColorSpace"); cs != "DeviceGray" {
		t.Errorf("ColorSpace = %q", cs)
	}
	if _, ok := img.Dict.GetInt("Width"); !ok {
		t.Error("W not expanded to Width")
	}
	if ops[2].Operator != "Q" {
		t.Errorf("op after image = %q", ops[2].Operator)
	}
}

func TestParseInlineImageFilteredScan(t *testing.T) {
	data := []byte("BI /W 1 /H 1 /F [/AHx] ID\nFF> EI\nQ")
	ops, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	img, ok := ops[0].InlineImage()
	if !ok {
		t.Fatalf("op 0 = %+v", ops[0])
	}
	if string(img.Data) != "FF>" {
		t.Errorf("data = %q", img.Data)
	}
	if f := img.Filters(); len(f) != 1 || f[0] != "ASCIIHexDecode" {
		t.Errorf("filters = %v", f)
	}
	if ops[1].Operator != "Q" {
		t.Errorf("next op = %q", ops[1].Operator)
	}
}

func TestParseInlineImageMissingEI(t *testing.T) {
	if _, err := Parse([]byte("BI /W 1 /H 1 /F /Fl ID xyz")); err == nil {
		t.Fatal("expected error without EI")
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"(unterminated Tj", "[1 2 TJ", "<< /A >"} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestParseTrailingOperandsDropped(t *testing.T) {
	ops, err := Parse([]byte("q 1 2 3"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || len(ops[0].Operands) != 0 {
		t.Errorf("ops = %+v", ops)
	}
}

func TestNextReturnsEOF(t *testing.T) {
	p := NewParser([]byte("  % only a comment\n"))
	if _, err := p.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next = %v, want io.EOF", err)
	}
}

func TestParsersAreIndependent(t *testing.T) {
	streams := []string{"1 2 3 4 re f", "0 g (a) Tj", "q Q q Q"}
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(in string) {
			defer wg.Done()
			for k := 0; k < 50; k++ {
				ops, err := Parse([]byte(in))
				if err != nil {
					t.Error(err)
					return
				}
				total := 0
				for _, op := range ops {
					total += len(op.Operands)
				}
				if want := map[string]int{streams[0]: 4, streams[1]: 2, streams[2]: 0}[in]; total != want {
					t.Errorf("%q: %d operands, want %d", in, total, want)
					return
				}
			}
		}(streams[i%len(streams)])
	}
	wg.Wait()
}
