// Package font turns the bytes of a PDF show-text operand into Unicode and
// glyph advances.
//
// [Load] handles every font dictionary subtype a content stream can select:
// Type1 (including the standard 14), MMType1, TrueType, Type3 and composite
// Type0 fonts with a CIDFontType0 or CIDFontType2 descendant.
//
// # Decoding
//
// Character codes are mapped to text in this order:
//
//   - the font's /ToUnicode CMap
//   - for simple fonts, the /Encoding base table patched with /Differences
//   - for composite fonts with a UCS-2 or UTF-16 CMap, the code itself
//   - the code point equal to the code
//
// Decoded text is normalized to NFC.
//
// # Metrics
//
// Advances come from /Widths (simple fonts), /W and /DW (composite fonts),
// built-in tables for the standard 14 fonts, and a 500-unit default. Type3
// widths are scaled by /FontMatrix.
//
// # Style
//
// [Font.Family], [Font.Bold] and [Font.Italic] are derived from the font
// descriptor flags and weight, falling back to the base font name.
package font
