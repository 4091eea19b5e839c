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

// Package longmap implements a map from int64 keys to arbitrary values
// using open addressing with double hashing. It is intended for code
// that indexes large numbers of entities by a dense numeric identifier
// and wants to avoid both boxed key wrappers and the per-entry overhead
// of a general-purpose map. The design follows the FastByIDMap family
// of tables popularized by Apache Mahout; see also Knuth, TAOCP vol. 3,
// section 6.4 for the underlying double-hashing scheme.
//
// # Layout
//
// The table is two parallel arrays, keys and values, always the same
// length and always resized together. Two int64 values are reserved as
// slot markers: math.MinInt64 marks a slot that has never held an entry
// and math.MaxInt64 marks a tombstone, a slot whose entry was deleted.
// Both are rejected as user keys. A slot holding any other key is live.
//
// The array length is always a prime p such that p-2 is also prime (a
// twin prime). Probing starts at hash(key) % p and steps backward by
// 1 + hash(key) % (p-2), wrapping around. Because the jump is in
// [1, p-2] it is coprime with p, so every probe sequence visits every
// slot before repeating. That is what bounds lookups and inserts: a
// probe loop can take at most p steps, and the load factor guarantees
// an empty slot exists to stop it.
//
// # Deletion and compaction
//
// Delete leaves a tombstone rather than emptying the slot, so probe
// chains passing through the slot stay intact. Tombstones still count
// toward occupancy: once occupancy crosses the load factor, Put either
// grows the table (live entries dominate) or rebuilds it at the same
// order of magnitude to shed tombstones. Callers can force the latter
// with Rehash.
//
// A Map is NOT goroutine-safe.
package longmap

import (
	"fmt"
	"math"
	"strings"
)

const (
	// loadFactor controls when the table is rebuilt. Note that it is
	// above 1: occupancy is compared against capacity/loadFactor, so a
	// table is rebuilt once more than 80% of its slots are non-empty.
	loadFactor = 1.25

	// maxTwinPrime is the largest p below 2^31 such that p and p-2 are
	// both prime. It is the largest supported table capacity.
	maxTwinPrime = 2147482949

	// maxSize is the largest entry count New can be asked to
	// accommodate without the initial capacity overflowing maxTwinPrime.
	// Integer form of maxTwinPrime/loadFactor.
	maxSize = maxTwinPrime * 4 / 5

	// keyEmpty marks a slot that has never held an entry. A lookup probe
	// stops when it reaches one. keyDeleted marks a tombstone: lookups
	// probe through it, inserts may reuse it.
	keyEmpty   int64 = math.MinInt64
	keyDeleted int64 = math.MaxInt64
)

// hashFn derives the probe hash for a key. Both the start slot and the
// jump distance of a probe sequence are computed from its result.
type hashFn func(key int64) uint32

// defaultHash folds the high word of the key into the low word so that
// keys differing only in their upper bits do not share probe chains.
func defaultHash(key int64) uint32 {
	return uint32(uint64(key) ^ uint64(key)>>32)
}

// Map is an unordered map from int64 keys to values of type V with Put,
// Get, Delete, Cursor, and All operations. The keys math.MinInt64 and
// math.MaxInt64 are reserved and cannot be stored.
//
// A Map is NOT goroutine-safe.
type Map[V any] struct {
	// keys and values are parallel arrays of identical length, which is
	// always a twin prime. values[i] holds the mapping for keys[i] when
	// keys[i] is live, and the zero value otherwise.
	keys   []int64
	values []V
	// The hash used to derive probe sequences.
	hash hashFn
	// The allocator to use for the keys and values arrays.
	allocator Allocator[V]
	// used is the number of live entries. slotsUsed additionally counts
	// tombstones; Delete never decrements it, so it only falls back to
	// used when a rebuild purges the tombstones.
	used      int
	slotsUsed int
}

// New constructs a Map sized to accommodate expected entries without
// rebuilding. New(0) yields the smallest valid table. New panics if
// expected is negative or at least maxSize.
func New[V any](expected int, opts ...option[V]) *Map[V] {
	if expected < 0 || expected >= maxSize {
		panic(fmt.Sprintf("longmap: expected size %d out of range [0, %d)", expected, maxSize))
	}
	m := &Map[V]{
		hash:      defaultHash,
		allocator: defaultAllocator[V]{},
	}
	for _, op := range opts {
		op.apply(m)
	}
	m.init(nextTwinPrime(int(loadFactor*float64(expected)) + 1))
	m.checkInvariants()
	return m
}

// init installs fresh backing arrays of the given capacity and resets
// the counters. The old arrays, if any, are not released here.
func (m *Map[V]) init(capacity int) {
	m.keys = m.allocator.AllocKeys(capacity)
	m.values = m.allocator.AllocValues(capacity)
	for i := range m.keys {
		m.keys[i] = keyEmpty
	}
	clear(m.values)
	m.used = 0
	m.slotsUsed = 0
}

// Close releases the backing arrays to the configured allocator. It is
// unnecessary to close a Map using the default allocator. It is invalid
// to use a Map after it has been closed, though Close itself is
// idempotent.
func (m *Map[V]) Close() {
	if m.keys != nil {
		m.allocator.FreeKeys(m.keys)
		m.allocator.FreeValues(m.values)
		m.keys = nil
		m.values = nil
		m.used = 0
		m.slotsUsed = 0
	}
	m.allocator = nil
}

// find runs the lookup probe for key: it walks the probe sequence until
// it reaches either the key itself or an empty slot, probing through
// tombstones. The returned index therefore holds either key or
// keyEmpty.
func (m *Map[V]) find(key int64) int {
	h := m.hash(key)
	n := len(m.keys)
	jump := 1 + int(h%uint32(n-2))
	i := int(h % uint32(n))
	for k := m.keys[i]; k != keyEmpty && k != key; k = m.keys[i] {
		if i < jump {
			i += n - jump
		} else {
			i -= jump
		}
	}
	return i
}

// findForAdd runs the insertion probe for key. Tombstones make this
// subtler than find: the first tombstone on the chain is the slot we
// would like to reuse, but the key may have been re-inserted further
// down the chain after an earlier deletion, so we must keep walking to
// the key or an empty slot before committing to the tombstone. The
// returned index holds key (overwrite in place), keyEmpty (fresh slot),
// or keyDeleted (reusable tombstone).
func (m *Map[V]) findForAdd(key int64) int {
	h := m.hash(key)
	n := len(m.keys)
	jump := 1 + int(h%uint32(n-2))
	i := int(h % uint32(n))
	k := m.keys[i]
	for k != keyEmpty && k != keyDeleted && k != key {
		if i < jump {
			i += n - jump
		} else {
			i -= jump
		}
		k = m.keys[i]
	}
	if k != keyDeleted {
		return i
	}
	reuse := i
	for k != keyEmpty && k != key {
		if i < jump {
			i += n - jump
		} else {
			i -= jump
		}
		k = m.keys[i]
	}
	if k == key {
		return i
	}
	return reuse
}

// Get returns the value mapped to key, with ok=false if there is no
// such mapping. The reserved keys are never present.
func (m *Map[V]) Get(key int64) (value V, ok bool) {
	if key == keyEmpty || key == keyDeleted {
		return value, false
	}
	i := m.find(key)
	if m.keys[i] == keyEmpty {
		return value, false
	}
	return m.values[i], true
}

// ContainsKey reports whether key has a mapping.
func (m *Map[V]) ContainsKey(key int64) bool {
	return key != keyEmpty && key != keyDeleted && m.keys[m.find(key)] != keyEmpty
}

// Put maps key to value, returning the previously mapped value if the
// key was already present. Put panics if key is one of the reserved
// keys, or if a required grow would exceed the maximum capacity.
func (m *Map[V]) Put(key int64, value V) (prev V, ok bool) {
	if key == keyEmpty || key == keyDeleted {
		panic(fmt.Sprintf("longmap: key %d is reserved", key))
	}
	// If occupancy has crossed the load factor, rebuild before probing.
	// This also guarantees findForAdd terminates: after a rebuild the
	// table always has empty slots.
	if float64(m.slotsUsed)*loadFactor >= float64(len(m.keys)) {
		if float64(m.used)*loadFactor >= float64(m.slotsUsed) {
			// Live entries dominate the occupied slots: grow.
			m.grow()
		} else {
			// Mostly tombstones: rebuild at the same order of magnitude.
			m.Rehash()
		}
	}
	i := m.findForAdd(key)
	if m.keys[i] == key {
		prev, m.values[i] = m.values[i], value
		return prev, true
	}
	wasEmpty := m.keys[i] == keyEmpty
	m.keys[i] = key
	m.values[i] = value
	m.used++
	if wasEmpty {
		// Reusing a tombstone does not change occupancy.
		m.slotsUsed++
	}
	m.checkInvariants()
	return prev, false
}

// Delete removes the mapping for key, returning the previously mapped
// value if there was one. Deleting an absent or reserved key is a noop.
func (m *Map[V]) Delete(key int64) (prev V, ok bool) {
	if key == keyEmpty || key == keyDeleted {
		return prev, false
	}
	i := m.find(key)
	if m.keys[i] == keyEmpty {
		return prev, false
	}
	prev = m.values[i]
	m.deleteAt(i)
	m.checkInvariants()
	return prev, true
}

// deleteAt tombstones slot i. slotsUsed deliberately stays put: the
// tombstone still lengthens probe chains, and it is that occupancy
// pressure which eventually triggers a compacting rebuild.
func (m *Map[V]) deleteAt(i int) {
	var zero V
	m.keys[i] = keyDeleted
	m.values[i] = zero
	m.used--
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	return m.used
}

// IsEmpty reports whether the map has no entries.
func (m *Map[V]) IsEmpty() bool {
	return m.used == 0
}

// Clear removes all entries, retaining the current capacity.
func (m *Map[V]) Clear() {
	for i := range m.keys {
		m.keys[i] = keyEmpty
	}
	clear(m.values)
	m.used = 0
	m.slotsUsed = 0
}

// Rehash rebuilds the table at a capacity sized from the live entry
// count, purging all tombstones. Put calls it automatically when
// tombstones dominate the occupied slots; callers that delete many
// entries and want the probe chains shortened immediately can call it
// directly.
func (m *Map[V]) Rehash() {
	m.rehash(nextTwinPrime(int(loadFactor*float64(m.used)) + 1))
}

// grow rebuilds the table at the next twin-prime capacity at least
// loadFactor times the current one. Growing past maxTwinPrime is a
// fatal condition.
func (m *Map[V]) grow() {
	if float64(len(m.keys))*loadFactor >= maxTwinPrime {
		panic(fmt.Sprintf("longmap: cannot grow past capacity %d", len(m.keys)))
	}
	m.rehash(nextTwinPrime(int(loadFactor*float64(len(m.keys))) + 1))
}

// rehash rebuilds the table at the given capacity by re-inserting every
// live entry through the normal Put path, which recomputes the probe
// positions for the new capacity. The old arrays are never read again
// afterward.
func (m *Map[V]) rehash(capacity int) {
	oldKeys, oldValues := m.keys, m.values
	m.init(capacity)
	for i, k := range oldKeys {
		if k != keyEmpty && k != keyDeleted {
			m.Put(k, oldValues[i])
		}
	}
	m.allocator.FreeKeys(oldKeys)
	m.allocator.FreeValues(oldValues)
	m.checkInvariants()
}

// Clone returns a map with its own copies of the backing arrays. The
// values themselves are not deep-copied; the clone shares the original
// allocator and hash.
func (m *Map[V]) Clone() *Map[V] {
	c := &Map[V]{
		hash:      m.hash,
		allocator: m.allocator,
		used:      m.used,
		slotsUsed: m.slotsUsed,
	}
	c.keys = c.allocator.AllocKeys(len(m.keys))
	c.values = c.allocator.AllocValues(len(m.values))
	copy(c.keys, m.keys)
	copy(c.values, m.values)
	return c
}

// String renders the live entries in slot order.
func (m *Map[V]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i, k := range m.keys {
		if k == keyEmpty || k == keyDeleted {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%d=%v", k, m.values[i])
	}
	b.WriteByte('}')
	return b.String()
}

func (m *Map[V]) checkInvariants() {
	if invariants {
		if len(m.keys) != len(m.values) {
			panic(fmt.Sprintf("invariant failed: len(keys)=%d != len(values)=%d",
				len(m.keys), len(m.values)))
		}
		if n := len(m.keys); !isPrime(n) || !isPrime(n-2) {
			panic(fmt.Sprintf("invariant failed: capacity %d is not a twin prime", n))
		}

		// For every live slot, verify we can retrieve the key using Get.
		// Count the live and tombstoned slots.
		var used, deleted int
		for i, k := range m.keys {
			switch k {
			case keyEmpty:
			case keyDeleted:
				deleted++
			default:
				used++
				if _, ok := m.Get(k); !ok {
					panic(fmt.Sprintf("invariant failed: slot(%d): key %d not found\n%s",
						i, k, m.debugString()))
				}
			}
		}

		if used != m.used {
			panic(fmt.Sprintf("invariant failed: found %d live slots, but used count is %d\n%s",
				used, m.used, m.debugString()))
		}
		if used+deleted != m.slotsUsed {
			panic(fmt.Sprintf("invariant failed: found %d occupied slots, but slotsUsed is %d\n%s",
				used+deleted, m.slotsUsed, m.debugString()))
		}
	}
}

func (m *Map[V]) debugString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "capacity=%d  used=%d  slots-used=%d\n", len(m.keys), m.used, m.slotsUsed)
	for i, k := range m.keys {
		switch k {
		case keyEmpty:
			fmt.Fprintf(&b, "  %4d: empty\n", i)
		case keyDeleted:
			fmt.Fprintf(&b, "  %4d: deleted\n", i)
		default:
			h := m.hash(k)
			fmt.Fprintf(&b, "  %4d: %d=%v [start=%d jump=%d]\n", i, k, m.values[i],
				int(h%uint32(len(m.keys))), 1+int(h%uint32(len(m.keys)-2)))
		}
	}
	return b.String()
}
