package font

import (
	"testing"

	"github.com/tsawler/pdfconv/core"
)

func TestCMapBfRangeIncrementsLastByte(t *testing.T) {
	cm := ParseCMapData([]byte(`1 beginbfrange <0020> <0022> <00E0> endbfrange`))
	tests := []struct {
		code int
		want string
	}{
		{0x20, "à"},
		{0x21, "á"},
		{0x22, "â"},
	}
	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%#x) = %q, %v; want %q", tt.code, got, ok, tt.want)
		}
	}
	if _, ok := cm.Lookup(0x23); ok {
		t.Error("code past the range should not map")
	}
}

func TestCMapSurrogatePair(t *testing.T) {
	cm := ParseCMapData([]byte(`1 beginbfchar <01> <D83DDE00> endbfchar`))
	if got, _ := cm.Lookup(1); got != "😀" {
		t.Errorf("Lookup = %q", got)
	}
}

func TestCMapMixedCodespace(t *testing.T) {
	cm := ParseCMapData([]byte(`2 begincodespacerange
<00> <80>
<8140> <9FFC>
endcodespacerange`))
	data := []byte{0x41, 0x81, 0x40, 0xFF}

	code, n := cm.NextCode(data, 1)
	if code != 0x41 || n != 1 {
		t.Errorf("first code = %#x/%d", code, n)
	}
	code, n = cm.NextCode(data[1:], 1)
	if code != 0x8140 || n != 2 {
		t.Errorf("second code = %#x/%d", code, n)
	}
	code, n = cm.NextCode(data[3:], 2)
	if code != 0xFF || n != 1 {
		t.Errorf("fallback should be clipped to available bytes, got %#x/%d", code, n)
	}
}

func TestCMapCIDRanges(t *testing.T) {
	cm := ParseCMapData([]byte(`/CMapName /Test-H def
1 begincidrange <0100> <01FF> 500 endcidrange
1 begincidchar <0005> 42 endcidchar`))
	if cm.Name != "Test-H" {
		t.Errorf("Name = %q", cm.Name)
	}
	if got := cm.CID(0x0105); got != 505 {
		t.Errorf("CID(0x105) = %d", got)
	}
	if got := cm.CID(5); got != 42 {
		t.Errorf("CID(5) = %d", got)
	}
	if got := cm.CID(7); got != 7 {
		t.Errorf("unmapped CID = %d", got)
	}
}

func TestCMapToleratesGarbage(t *testing.T) {
	cm := ParseCMapData([]byte(`{ } ) 2 beginbfchar <01> <0041> <02> /bullet endbfchar <03`))
	if got, _ := cm.Lookup(1); got != "A" {
		t.Errorf("Lookup(1) = %q", got)
	}
	if got, _ := cm.Lookup(2); got != "•" {
		t.Errorf("Lookup(2) = %q", got)
	}
}

func TestParseCMapStream(t *testing.T) {
	if _, err := ParseCMap(nil); err == nil {
		t.Error("expected error for nil stream")
	}
	cm, err := ParseCMap(&core.Stream{
		Dict: core.Dict{"CMapName": core.Name("FromDict")},
		Data: []byte(`1 beginbfchar <41> <0042> endbfchar`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if cm.Name != "FromDict" || cm.Len() != 1 {
		t.Errorf("got name %q len %d", cm.Name, cm.Len())
	}
	var nilMap *CMap
	if _, ok := nilMap.Lookup(1); ok || nilMap.CID(9) != 9 || nilMap.HasCodespace() {
		t.Error("nil CMap should map nothing")
	}
}
