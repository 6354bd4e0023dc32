package features

import "iter"

// AllPairs yields every ordered pair (a, b) of items, self-pairs included,
// in row-major order. Nothing is materialized and the sequence can be ranged
// over again.
func AllPairs[T any](items []T) iter.Seq2[T, T] {
	return func(yield func(T, T) bool) {
		for _, a := range items {
			for _, b := range items {
				if !yield(a, b) {
					return
				}
			}
		}
	}
}

// pairSet records ordered id pairs.
type pairSet map[[2]string]struct{}

func (s pairSet) add(a, b string) { s[[2]string{a, b}] = struct{}{} }

// linked reports whether (a, b) or (b, a) was recorded.
func (s pairSet) linked(a, b string) bool {
	if _, ok := s[[2]string{a, b}]; ok {
		return true
	}
	_, ok := s[[2]string{b, a}]
	return ok
}
