package filters

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for filters this package cannot decode.
var ErrUnsupported = errors.New("unsupported filter")

// Params holds decode parameters converted to Go values (int, float64,
// bool, string).
type Params map[string]interface{}

// Int returns the integer parameter key or def.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean parameter key or def.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// IsPassthrough reports whether name leaves data in an image file format
// that is consumed as is.
func IsPassthrough(name string) bool {
	switch name {
	case "DCTDecode", "DCT", "JPXDecode":
		return true
	}
	return false
}

// Decode applies one filter.
func Decode(name string, data []byte, params Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return FlateDecode(data, params)
	case "LZWDecode", "LZW":
		return LZWDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		return RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		return CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		return data, nil
	case "JBIG2Decode", "Crypt":
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	return nil, fmt.Errorf("unknown filter %q: %w", name, ErrUnsupported)
}
