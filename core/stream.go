package core

import (
	"fmt"

	"github.com/tsawler/pdfconv/internal/filters"
)

// Filters returns the stream's filter names in application order.
func (s *Stream) Filters() []string {
	switch f := s.Dict.Get("Filter").(type) {
	case Name:
		return []string{string(f)}
	case Array:
		names := make([]string, 0, len(f))
		for _, o := range f {
			if n, ok := o.(Name); ok {
				names = append(names, string(n))
			}
		}
		return names
	}
	return nil
}

// Decode applies the stream's filter chain. Passthrough image filters
// (DCTDecode, JPXDecode) stop the chain and return the encoded image.
func (s *Stream) Decode() ([]byte, error) {
	data := s.Data
	for i, name := range s.Filters() {
		if filters.IsPassthrough(name) {
			return data, nil
		}
		out, err := filters.Decode(name, data, s.decodeParams(i))
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
		data = out
	}
	return data, nil
}

// decodeParams converts the DecodeParms entry for filter i.
func (s *Stream) decodeParams(i int) filters.Params {
	var d Dict
	switch v := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		d = v
	case Array:
		if pd, ok := v.Get(i).(Dict); ok {
			d = pd
		}
	}
	if d == nil {
		return nil
	}
	params := make(filters.Params, len(d))
	for k, v := range d {
		switch o := v.(type) {
		case Int:
			params[k] = int(o)
		case Real:
			params[k] = float64(o)
		case Bool:
			params[k] = bool(o)
		case Name:
			params[k] = string(o)
		case String:
			params[k] = string(o)
		}
	}
	return params
}
