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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViews(t *testing.T) {
	const count = 1000

	m := New[int64](0)
	e := make(map[int64]int64)
	for i := int64(0); i < count; i++ {
		m.Put(i, i*10)
		e[i] = i * 10
	}

	t.Run("all", func(t *testing.T) {
		got := make(map[int64]int64)
		for k, v := range m.All() {
			got[k] = v
		}
		require.Equal(t, e, got)
	})

	t.Run("keys", func(t *testing.T) {
		got := make(map[int64]bool)
		for k := range m.Keys() {
			require.False(t, got[k], "key %d yielded twice", k)
			got[k] = true
		}
		require.Len(t, got, count)
	})

	t.Run("values", func(t *testing.T) {
		sum := int64(0)
		for v := range m.Values() {
			sum += v
		}
		want := int64(0)
		for _, v := range e {
			want += v
		}
		require.Equal(t, want, sum)
	})

	t.Run("early-stop", func(t *testing.T) {
		n := 0
		for range m.All() {
			n++
			if n == 10 {
				break
			}
		}
		require.Equal(t, 10, n)
	})

	t.Run("restartable", func(t *testing.T) {
		keys := m.Keys()
		for pass := 0; pass < 2; pass++ {
			n := 0
			for range keys {
				n++
			}
			require.Equal(t, count, n)
		}
	})
}

func TestViewDeleteDuringIteration(t *testing.T) {
	m := New[int](0)
	e := make(map[int64]int)
	for i := int64(0); i < 1000; i++ {
		m.Put(i, int(i))
		e[i] = int(i)
	}

	// Deleting the yielded key mid-iteration only tombstones its slot,
	// which the traversal must tolerate.
	for k := range m.Keys() {
		if k%2 == 0 {
			m.Delete(k)
			delete(e, k)
		}
	}
	require.Equal(t, e, m.toBuiltinMap())
	require.Equal(t, len(e), m.Len())
}

func TestCursor(t *testing.T) {
	const count = 1000

	m := New[int64](0)
	e := make(map[int64]int64)
	for i := int64(0); i < count; i++ {
		m.Put(i, i+count)
		e[i] = i + count
	}

	got := make(map[int64]int64)
	c := m.Cursor()
	for c.Next() {
		got[c.Key()] = c.Value()
	}
	require.Equal(t, e, got)
	require.False(t, c.Next())
}

func TestCursorDelete(t *testing.T) {
	m := New[int64](0)
	e := make(map[int64]int64)
	for i := int64(0); i < 1000; i++ {
		m.Put(i, i)
		e[i] = i
	}

	slotsUsed := m.slotsUsed
	for c := m.Cursor(); c.Next(); {
		if c.Key()%3 == 0 {
			delete(e, c.Key())
			c.Delete()
		}
	}
	require.Equal(t, e, m.toBuiltinMap())
	require.Equal(t, len(e), m.Len())
	// Cursor deletion leaves tombstones; occupancy must not shrink.
	require.Equal(t, slotsUsed, m.slotsUsed)

	// The deleted keys are gone through the normal lookup path too.
	for i := int64(0); i < 1000; i += 3 {
		require.False(t, m.ContainsKey(i))
	}
}

func TestCursorDeleteMisuse(t *testing.T) {
	m := New[int](0)
	m.Put(1, 1)

	c := m.Cursor()
	require.Panics(t, func() { c.Delete() })

	require.True(t, c.Next())
	c.Delete()
	require.Panics(t, func() { c.Delete() })
	require.Equal(t, 0, m.Len())
}

func TestCursorEmptyMap(t *testing.T) {
	m := New[int](0)
	require.False(t, m.Cursor().Next())

	m.Put(1, 1)
	m.Delete(1)
	require.False(t, m.Cursor().Next())
}
