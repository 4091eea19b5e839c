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

// option provide an interface to do work on Map while it is being created.
type option[V any] interface {
	apply(m *Map[V])
}

type hashOption[V any] struct {
	hash hashFn
}

func (op hashOption[V]) apply(m *Map[V]) {
	m.hash = op.hash
}

// WithHash is an option to specify the hash used to derive probe
// sequences. The probe start slot and jump distance are both computed
// from its result, so a constant hash degrades the table to a linear
// scan but remains correct.
func WithHash[V any](hash func(key int64) uint32) option[V] {
	return hashOption[V]{hash}
}

// Allocator specifies an interface for allocating and releasing memory
// used by a Map. The default allocator utilizes Go's builtin make() and
// allows the GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that the
// backing arrays be freed then Map.Close must be called in order to
// ensure FreeKeys and FreeValues are called.
type Allocator[V any] interface {
	// AllocKeys should return a slice equivalent to make([]int64, n).
	AllocKeys(n int) []int64

	// AllocValues should return a slice equivalent to make([]V, n).
	AllocValues(n int) []V

	// FreeKeys can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocKeys.
	FreeKeys(keys []int64)

	// FreeValues can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocValues.
	FreeValues(values []V)
}

type defaultAllocator[V any] struct{}

func (defaultAllocator[V]) AllocKeys(n int) []int64 {
	return make([]int64, n)
}

func (defaultAllocator[V]) AllocValues(n int) []V {
	return make([]V, n)
}

func (defaultAllocator[V]) FreeKeys(keys []int64) {
}

func (defaultAllocator[V]) FreeValues(values []V) {
}

type allocatorOption[V any] struct {
	allocator Allocator[V]
}

func (op allocatorOption[V]) apply(m *Map[V]) {
	m.allocator = op.allocator
}

// WithAllocator is an option for specifying the Allocator to use for a
// Map[V].
func WithAllocator[V any](allocator Allocator[V]) option[V] {
	return allocatorOption[V]{allocator}
}
