package filters

import (
	"bytes"
	"compress/lzw"
	"errors"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

// LZWDecode expands LZW data. EarlyChange 1 (the default) is the TIFF
// flavour of the code-width switch, handled by x/image/tiff/lzw; 0 is the
// classic flavour from compress/lzw.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	var rc io.ReadCloser
	if params.Int("EarlyChange", 1) == 0 {
		rc = lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	} else {
		rc = tifflzw.NewReader(bytes.NewReader(data), tifflzw.MSB, 8)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil && !(len(out) > 0 && errors.Is(err, io.ErrUnexpectedEOF)) {
		return nil, fmt.Errorf("lzw: %w", err)
	}
	return unpredict(out, params)
}
