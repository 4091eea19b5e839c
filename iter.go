// Copyright 2025 The longmap Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package longmap

import "iter"

// All returns an iterator over the live entries of the map. The
// iteration order is an artifact of the slot layout and is not a
// contract. Deleting the yielded key through Map.Delete during
// iteration is safe; operations that can rebuild the table (Put,
// Rehash) invalidate the iteration and must not be interleaved with it.
func (m *Map[V]) All() iter.Seq2[int64, V] {
	return func(yield func(int64, V) bool) {
		for i, k := range m.keys {
			if k == keyEmpty || k == keyDeleted {
				continue
			}
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys of the map. See All for the
// mutation rules during iteration.
func (m *Map[V]) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for _, k := range m.keys {
			if k == keyEmpty || k == keyDeleted {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of the map. See All for
// the mutation rules during iteration.
func (m *Map[V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i, k := range m.keys {
			if k == keyEmpty || k == keyDeleted {
				continue
			}
			if !yield(m.values[i]) {
				return
			}
		}
	}
}

// Cursor is a stateful iterator over the live entries of a Map. Unlike
// the All/Keys/Values views it supports deleting the entry it most
// recently produced without re-probing for the key. A Cursor holds only
// a back-reference to its Map; it must not outlive it, and operations
// that rebuild the table (Put, Rehash) invalidate it.
type Cursor[V any] struct {
	m    *Map[V]
	pos  int
	last int
}

// Cursor returns a cursor positioned before the first entry.
func (m *Map[V]) Cursor() *Cursor[V] {
	return &Cursor[V]{m: m, last: -1}
}

// Next advances to the next live entry, reporting whether one exists.
func (c *Cursor[V]) Next() bool {
	keys := c.m.keys
	for c.pos < len(keys) {
		k := keys[c.pos]
		c.pos++
		if k != keyEmpty && k != keyDeleted {
			c.last = c.pos - 1
			return true
		}
	}
	return false
}

// Key returns the key of the current entry. The result is only valid
// after a call to Next that returned true.
func (c *Cursor[V]) Key() int64 {
	return c.m.keys[c.last]
}

// Value returns the value of the current entry. The result is only
// valid after a call to Next that returned true.
func (c *Cursor[V]) Value() V {
	return c.m.values[c.last]
}

// Delete removes the current entry, tombstoning its slot directly.
// Delete panics if no entry has been produced since the cursor was
// created or since the last Delete.
func (c *Cursor[V]) Delete() {
	if c.last < 0 {
		panic("longmap: cursor Delete without a produced entry")
	}
	c.m.deleteAt(c.last)
	c.last = -1
	c.m.checkInvariants()
}
