// Package match holds the candidates a player's noun resolved to.
//
// A Set is either disjoint, where any single element satisfies the query
// ("take the sword"), or conjunctive, where all elements together are the
// one resolution ("take all swords"). Callers phrase disambiguation prompts
// from DistinctNames rather than Len, so the distinct-name count is cached
// and rebuilt only after the set changes.
//
// A Set is not safe for concurrent use. It is built and consumed by a single
// resolution; callers sharing one across goroutines must serialize Add and
// DistinctNames themselves.
package match

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Selectable is anything that can be matched by name.
type Selectable interface {
	Name() Name
}

// ErrOutOfRange is wrapped by every IndexError.
var ErrOutOfRange = errors.New("match: index out of range")

// IndexError reports a positional read outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("match: index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

// Set is an insertion-ordered collection of matches.
type Set[T Selectable] struct {
	elements []T
	disjoint bool

	// distinctNames is only meaningful while distinctNamesValid holds.
	distinctNames      int
	distinctNamesValid bool
}

// New returns an empty set for incremental building.
func New[T Selectable](disjoint bool) *Set[T] {
	return &Set[T]{disjoint: disjoint}
}

// FromSlice copies items into a disjoint set.
func FromSlice[T Selectable](items []T) *Set[T] {
	return FromCollection(items, true)
}

// FromCollection copies items into a new set, preserving their order.
func FromCollection[T Selectable](items []T, disjoint bool) *Set[T] {
	s := &Set[T]{
		elements: make([]T, 0, len(items)),
		disjoint: disjoint,
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Collect builds a set from any finite sequence.
func Collect[T Selectable](seq iter.Seq[T], disjoint bool) *Set[T] {
	s := New[T](disjoint)
	for item := range seq {
		s.Add(item)
	}
	return s
}

// Add appends an element. The distinct-name count is always invalidated,
// even when the name is already present.
func (s *Set[T]) Add(element T) {
	s.elements = append(s.elements, element)
	s.distinctNamesValid = false
}

// At returns the i-th element in insertion order.
func (s *Set[T]) At(i int) (T, error) {
	if i < 0 || i >= len(s.elements) {
		var zero T
		return zero, &IndexError{Index: i, Len: len(s.elements)}
	}
	return s.elements[i], nil
}

// ToSlice returns a copy of the elements in insertion order.
func (s *Set[T]) ToSlice() []T {
	out := slices.Clone(s.elements)
	if out == nil {
		out = []T{}
	}
	return out
}

// All iterates elements in insertion order.
func (s *Set[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, e := range s.elements {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Len returns the number of elements, counting same-named ones separately.
func (s *Set[T]) Len() int {
	return len(s.elements)
}

// Disjoint reports whether any one element constitutes a match. When false,
// only all elements together do.
func (s *Set[T]) Disjoint() bool {
	return s.disjoint
}

// HasMatchWithName reports whether some element is called n.
func (s *Set[T]) HasMatchWithName(n Name) bool {
	for _, e := range s.elements {
		if e.Name() == n {
			return true
		}
	}
	return false
}

// DistinctNames returns how many different names the elements have. Two
// entities both called "iron sword" count once.
func (s *Set[T]) DistinctNames() int {
	if !s.distinctNamesValid {
		seen := make(map[Name]struct{}, len(s.elements))
		for _, e := range s.elements {
			seen[e.Name()] = struct{}{}
		}
		s.distinctNames = len(seen)
		s.distinctNamesValid = true
	}
	return s.distinctNames
}

// Names returns the distinct names in the order they were first added.
func (s *Set[T]) Names() []Name {
	seen := make(map[Name]struct{}, len(s.elements))
	var names []Name
	for _, e := range s.elements {
		n := e.Name()
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// Filter returns a new set of the same mode holding the kept elements.
func (s *Set[T]) Filter(keep func(T) bool) *Set[T] {
	out := New[T](s.disjoint)
	for _, e := range s.elements {
		if keep(e) {
			out.Add(e)
		}
	}
	return out
}
