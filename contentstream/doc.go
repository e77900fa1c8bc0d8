// Package contentstream tokenizes PDF content streams into operations.
//
// A content stream is a sequence of operands followed by an operator:
//
//	ops, err := contentstream.Parse(data)
//	for _, op := range ops {
//		fmt.Println(op.Operator, op.Operands)
//	}
//
// Inline images (BI ... ID data EI) become a single operation with
// operator "BI" whose only operand is a *core.Stream carrying the expanded
// image dictionary and the raw image bytes.
package contentstream
