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

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	// a is built by straight insertion into a small table; b ends at the
	// same live mappings via a different history and a different
	// capacity. They must still compare equal.
	a := New[string](0)
	b := New[string](1000)
	for i := int64(0); i < 100; i++ {
		a.Put(i, "v")
	}
	for i := int64(99); i >= 0; i-- {
		b.Put(i, "x")
		b.Delete(i)
		b.Put(i, "v")
	}

	require.True(t, Equal(a, b))
	require.True(t, Equal(b, a))
	require.True(t, Equal(a, a))
	require.True(t, Equal(a, a.Clone()))

	b.Put(50, "w")
	require.False(t, Equal(a, b))
	b.Put(50, "v")
	require.True(t, Equal(a, b))

	b.Delete(50)
	require.False(t, Equal(a, b))
	b.Put(200, "v")
	require.False(t, Equal(a, b))

	require.True(t, Equal(New[string](0), New[string](100)))
}

func TestHashOf(t *testing.T) {
	seed := maphash.MakeSeed()

	a := New[int](0)
	b := New[int](1000)
	for i := int64(0); i < 100; i++ {
		a.Put(i, int(i))
	}
	for i := int64(99); i >= 0; i-- {
		b.Put(i, -1)
		b.Put(i, int(i))
	}
	b.Put(1000, 1)
	b.Delete(1000)

	// Equal maps hash equally regardless of capacity or slot layout.
	require.True(t, Equal(a, b))
	require.Equal(t, HashOf(a, seed), HashOf(b, seed))
	require.Equal(t, HashOf(a, seed), HashOf(a.Clone(), seed))

	require.Equal(t, uint64(0), HashOf(New[int](0), seed))
}

func TestContainsValue(t *testing.T) {
	m := New[string](0)
	require.False(t, ContainsValue(m, "a"))

	m.Put(1, "a")
	m.Put(2, "b")
	require.True(t, ContainsValue(m, "a"))
	require.True(t, ContainsValue(m, "b"))
	require.False(t, ContainsValue(m, "c"))

	// The zero value of a deleted slot must not register as present.
	m.Delete(1)
	require.False(t, ContainsValue(m, "a"))
	require.False(t, ContainsValue(m, ""))

	m.Put(3, "")
	require.True(t, ContainsValue(m, ""))
}
