// Package filters implements the PDF stream decoding filters.
//
// [Decode] dispatches on the filter name. FlateDecode and LZWDecode honour
// the PNG and TIFF predictors from the decode parameters. DCTDecode and
// JPXDecode are passthrough filters: their output is the encoded image file
// itself.
package filters
