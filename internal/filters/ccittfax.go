package filters

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode expands Group 3 or Group 4 fax data into packed 1-bit rows
// where a set bit is white, matching /DeviceGray with /BitsPerComponent 1.
// /K < 0 selects Group 4; /BlackIs1 inverts the output.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	columns := params.Int("Columns", 1728)
	rows := params.Int("Rows", 0)
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}
	sf := ccitt.Group3
	if params.Int("K", 0) < 0 {
		sf = ccitt.Group4
	}
	opts := &ccitt.Options{
		Align:  params.Bool("EncodedByteAlign", false),
		Invert: params.Bool("BlackIs1", false),
	}

	out, err := io.ReadAll(ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, columns, rows, opts))
	if err != nil {
		return nil, fmt.Errorf("ccitt: %w", err)
	}
	return out, nil
}
