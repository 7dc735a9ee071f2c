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

package badger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
	teststorage "github.com/bbva/reserves/testutils/storage"
)

func TestBadgerStore(t *testing.T) {
	teststorage.TestMutableStore(t, func(t *testing.T) (storage.MutableStore, func()) {
		return openBadgerStore(t)
	})
}

func TestLoadInSeveralTransactions(t *testing.T) {
	store, closeF := openBadgerStore(t)
	defer closeF()

	records := teststorage.Records(2*maxBatch + 7)
	require.NoError(t, store.Load(records))

	all, err := storage.ReadAll(store)
	require.NoError(t, err)
	require.Len(t, all, len(records))
}

func TestReopen(t *testing.T) {
	path, removeF := teststorage.TempDir(t, "badger_store_test")
	defer removeF()

	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Load([]storage.Record{{ID: 7, Balance: 7777}}))
	require.NoError(t, store.Close())

	store, err = NewBadgerStore(path)
	require.NoError(t, err)
	defer store.Close()

	record, ok, err := store.Lookup(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(7777), record.Balance)
}

func BenchmarkLookup(b *testing.B) {
	store, closeF := openBadgerStore(b)
	defer closeF()
	_ = store.Load(teststorage.Records(10000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = store.Lookup(uint64(i%10000) + 1)
	}
}

func openBadgerStore(t testing.TB) (*BadgerStore, func()) {
	path, removeF := teststorage.TempDir(t, "badger_store_test")
	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	return store, func() {
		store.Close()
		removeF()
	}
}
