// Package timeindex implements an ordered multi-valued index keyed by time.
//
// Values sharing a key are kept in one bucket in insertion order. The index
// never owns the data the values refer to.
package timeindex

import (
	"time"

	"github.com/google/btree"
)

const degree = 16

type bucket[V any] struct {
	key    time.Time
	values []V
}

type Index[V any] struct {
	tree *btree.BTreeG[*bucket[V]]
}

func New[V any]() *Index[V] {
	return &Index[V]{
		tree: btree.NewG(degree, func(a, b *bucket[V]) bool {
			return a.key.Before(b.key)
		}),
	}
}

// Insert appends v to the bucket of key, creating the bucket if needed.
func (idx *Index[V]) Insert(key time.Time, v V) {
	if b, ok := idx.tree.Get(&bucket[V]{key: key}); ok {
		b.values = append(b.values, v)
		return
	}
	idx.tree.ReplaceOrInsert(&bucket[V]{key: key, values: []V{v}})
}

// Range returns the values of every bucket with key in [start, end] for
// which keep returns true. A nil keep accepts everything.
func (idx *Index[V]) Range(start, end time.Time, keep func(V) bool) []V {
	result := make([]V, 0)
	if end.Before(start) {
		return result
	}
	idx.tree.AscendGreaterOrEqual(&bucket[V]{key: start}, func(b *bucket[V]) bool {
		if b.key.After(end) {
			return false
		}
		for _, v := range b.values {
			if keep == nil || keep(v) {
				result = append(result, v)
			}
		}
		return true
	})
	return result
}

// Len returns the number of distinct keys.
func (idx *Index[V]) Len() int {
	return idx.tree.Len()
}

// Count returns the number of values stored under key.
func (idx *Index[V]) Count(key time.Time) int {
	if b, ok := idx.tree.Get(&bucket[V]{key: key}); ok {
		return len(b.values)
	}
	return 0
}
