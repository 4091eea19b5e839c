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

import "hash/maphash"

// Equal reports whether a and b contain the same set of key to value
// mappings. Backing capacity, slot layout, and mutation history do not
// matter: two maps built by different insert/delete sequences that end
// in the same live mappings compare equal.
func Equal[V comparable](a, b *Map[V]) bool {
	if a == b {
		return true
	}
	if a.used != b.used {
		return false
	}
	for i, k := range a.keys {
		if k == keyEmpty || k == keyDeleted {
			continue
		}
		if v, ok := b.Get(k); !ok || v != a.values[i] {
			return false
		}
	}
	return true
}

// HashOf returns a hash of the live mappings of m, consistent with
// Equal: maps that compare equal hash identically under the same seed.
// Per-entry hashes are accumulated with addition, so the result does
// not depend on slot layout.
func HashOf[V comparable](m *Map[V], seed maphash.Seed) uint64 {
	type entry struct {
		key   int64
		value V
	}
	var h uint64
	for i, k := range m.keys {
		if k == keyEmpty || k == keyDeleted {
			continue
		}
		h += maphash.Comparable(seed, entry{k, m.values[i]})
	}
	return h
}

// ContainsValue reports whether any entry of m maps to v. It is a
// linear scan over the table.
func ContainsValue[V comparable](m *Map[V], v V) bool {
	for i, k := range m.keys {
		if k == keyEmpty || k == keyDeleted {
			continue
		}
		if m.values[i] == v {
			return true
		}
	}
	return false
}
