// Package sliceutil holds small generic slice helpers shared across wheeltools.
package sliceutil

// UniqueByIndex returns the elements of seq with duplicates removed, keeping
// the order in which each element first appears. The input is not modified.
func UniqueByIndex[T comparable](seq []T) []T {
	seen := make(map[T]struct{}, len(seq))
	uniques := make([]T, 0, len(seq))
	for _, el := range seq {
		if _, dup := seen[el]; dup {
			continue
		}
		seen[el] = struct{}{}
		uniques = append(uniques, el)
	}
	return uniques
}
