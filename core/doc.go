// Package core implements the PDF object layer: tokenizing, object parsing,
// cross-reference tables and streams, object streams and stream decoding.
//
// # Objects
//
// Every PDF value is an [Object]. The concrete types are [Null], [Bool],
// [Int], [Real], [String], [Name], [Array], [Dict], [*Stream] and
// [IndirectRef].
//
// # Parsing
//
// A [Parser] reads objects from an in-memory byte slice. Indirect
// references inside stream dictionaries (such as an indirect /Length) are
// resolved through a [ReferenceResolver]:
//
//	p := core.NewParser(data)
//	p.SetReferenceResolver(r)
//	p.Seek(offset)
//	obj, err := p.ParseIndirectObject()
//
// # Cross-reference data
//
// [LoadXRef] follows the startxref chain through classic tables,
// cross-reference streams and hybrid files, and falls back to
// [RebuildXRef] when the chain is damaged.
package core
