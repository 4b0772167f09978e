package annotation

import (
	"iter"

	"github.com/tidwall/btree"
)

// Set is an ordered set of annotations. The zero value is not usable; call
// NewSet. A Set is not safe for concurrent use.
type Set struct {
	tree *btree.BTreeG[Annotation]
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{
		tree: btree.NewBTreeGOptions(Less, btree.Options{NoLocks: true}),
	}
}

// Insert adds a to the set. It reports false when an identical annotation
// is already present, in which case the set is unchanged.
func (s *Set) Insert(a Annotation) bool {
	_, replaced := s.tree.Set(a)
	return !replaced
}

// Contains reports whether a is in the set.
func (s *Set) Contains(a Annotation) bool {
	_, ok := s.tree.Get(a)
	return ok
}

// Len returns the number of annotations in the set.
func (s *Set) Len() int {
	return s.tree.Len()
}

// All yields the annotations in Compare order.
func (s *Set) All() iter.Seq[Annotation] {
	return func(yield func(Annotation) bool) {
		s.tree.Scan(yield)
	}
}
