/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
	"github.com/bbva/reserves/storage/bplus"
	teststorage "github.com/bbva/reserves/testutils/storage"
)

func caches() map[string]Cache {
	return map[string]Cache{
		"fast": NewFastCache(32 * 1024 * 1024),
		"free": NewFreeCache(1024 * 1024),
	}
}

func TestGetPut(t *testing.T) {
	testCases := []struct {
		key    []byte
		value  []byte
		cached bool
	}{
		{[]byte{0x0, 0x0}, []byte{0x1}, true},
		{[]byte{0x1, 0x0}, []byte{0x2}, true},
		{[]byte{0x2, 0x0}, []byte{0x3}, false},
	}

	for name, cache := range caches() {
		for i, c := range testCases {
			if c.cached {
				cache.Put(c.key, c.value)
			}

			cachedValue, ok := cache.Get(c.key)

			if c.cached {
				require.Truef(t, ok, "%s: the key should exists in cache in test case %d", name, i)
				require.Equalf(t, c.value, cachedValue, "%s: the cached value should be equal to stored value in test case %d", name, i)
			} else {
				require.Falsef(t, ok, "%s: the key should not exist in cache in test case %d", name, i)
			}
		}
		require.Equal(t, 2, cache.Size())
	}
}

func TestFill(t *testing.T) {
	store := bplus.NewBPlusTreeStore()
	require.NoError(t, store.Load(teststorage.Records(1000)))

	for name, cache := range caches() {
		require.NoError(t, cache.Fill(store.Enumerate()))
		require.Equalf(t, 1000, cache.Size(), "%s: all records should be cached", name)

		for i := uint64(1); i <= 1000; i++ {
			value, ok := cache.Get(storage.EncodeKey(i))
			require.Truef(t, ok, "%s: record %d should be in cache", name, i)
			require.Equal(t, storage.EncodeBalance(i*1111), value)
		}
	}
}

type failingReader struct{ closed bool }

func (r *failingReader) Read([]*storage.Record) (int, error) { return 0, errors.New("boom") }
func (r *failingReader) Close()                              { r.closed = true }

func TestFillError(t *testing.T) {
	for _, cache := range caches() {
		reader := &failingReader{}
		require.Error(t, cache.Fill(reader))
		require.True(t, reader.closed)
	}
}

type countingStore struct {
	storage.RecordStore
	lookups int
}

func (s *countingStore) Lookup(id uint64) (storage.Record, bool, error) {
	s.lookups++
	return s.RecordStore.Lookup(id)
}

func TestCachedStore(t *testing.T) {
	backend := bplus.NewBPlusTreeStore()
	require.NoError(t, backend.Load(teststorage.Records(10)))

	for name, cache := range caches() {
		counting := &countingStore{RecordStore: backend}
		store := NewCachedStore(counting, cache)

		for i := 0; i < 3; i++ {
			record, ok, err := store.Lookup(5)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, storage.Record{ID: 5, Balance: 5555}, record)
		}
		require.Equalf(t, 1, counting.lookups, "%s: only the first lookup should reach the store", name)

		_, ok, err := store.Lookup(42)
		require.NoError(t, err)
		require.False(t, ok)
		_, ok, err = store.Lookup(42)
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, 3, counting.lookups)
	}
}

func TestCachedStoreWarm(t *testing.T) {
	backend := bplus.NewBPlusTreeStore()
	require.NoError(t, backend.Load(teststorage.Records(10)))

	counting := &countingStore{RecordStore: backend}
	store := NewCachedStore(counting, NewFreeCache(1024*1024))
	require.NoError(t, store.Warm())

	for i := uint64(1); i <= 10; i++ {
		_, ok, err := store.Lookup(i)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Zero(t, counting.lookups)

	all, err := storage.ReadAll(store)
	require.NoError(t, err)
	require.Len(t, all, 10)
}
