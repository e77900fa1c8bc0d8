package model

import "sort"

// Less reports whether a comes before b in reading order: higher y first,
// then smaller x.
func Less(a, b Element) bool {
	if a.Y != b.Y {
		return a.Y > b.Y
	}
	return a.X < b.X
}

// SortElements orders elements in place. The sort is stable so elements at
// the same position keep their arrival order.
func SortElements(elems []Element) {
	sort.SliceStable(elems, func(i, j int) bool { return Less(elems[i], elems[j]) })
}

// IsOrdered reports whether elems satisfies the reading-order invariant.
func IsOrdered(elems []Element) bool {
	for i := 1; i < len(elems); i++ {
		if Less(elems[i], elems[i-1]) {
			return false
		}
	}
	return true
}

// Sorted returns an ordered copy of elems.
func Sorted(elems []Element) []Element {
	out := make([]Element, len(elems))
	copy(out, elems)
	SortElements(out)
	return out
}
