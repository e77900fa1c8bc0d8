// Package pages flattens the PDF page tree into an ordered list of pages.
//
// Inheritable attributes (/Resources, /MediaBox, /CropBox and /Rotate) are
// resolved during traversal, so a [Page] carries the effective values no
// matter where in the tree they were declared:
//
//	tree, err := pages.NewPageTree(root, resolver)
//	page, err := tree.Page(0) // 0-based
//	res := page.Resources()
//
// Traversal tolerates missing /Type entries on leaves and breaks reference
// cycles in /Kids.
package pages
