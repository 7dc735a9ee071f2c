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

// Package storage holds a conformance suite shared by the record backends.
package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
)

// Records returns n records with ids 1..n in a shuffled order.
func Records(n int) []storage.Record {
	records := make([]storage.Record, 0, n)
	for i := n; i >= 1; i -= 2 {
		records = append(records, storage.Record{ID: uint64(i), Balance: uint64(i) * 1111})
	}
	for i := n - 1; i >= 1; i -= 2 {
		records = append(records, storage.Record{ID: uint64(i), Balance: uint64(i) * 1111})
	}
	return records
}

// TempDir creates a temporary directory and returns a function removing it.
func TempDir(t testing.TB, prefix string) (string, func()) {
	path, err := ioutil.TempDir("", prefix)
	require.NoError(t, err)
	return path, func() {
		if err := os.RemoveAll(path); err != nil {
			fmt.Printf("Unable to remove db file %s", err)
		}
	}
}

// TestMutableStore runs the contract every backend must honour. open must
// return an empty store and a function releasing it.
func TestMutableStore(t *testing.T, open func(t *testing.T) (storage.MutableStore, func())) {

	t.Run("lookup", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		require.NoError(t, store.Load(Records(10)))

		for i := uint64(1); i <= 10; i++ {
			record, ok, err := store.Lookup(i)
			require.NoError(t, err)
			require.Truef(t, ok, "Record %d should be found", i)
			require.Equal(t, storage.Record{ID: i, Balance: i * 1111}, record)
		}

		for _, id := range []uint64{0, 11, 1 << 40} {
			record, ok, err := store.Lookup(id)
			require.NoError(t, err)
			require.Falsef(t, ok, "Record %d should not be found", id)
			require.Equal(t, storage.Record{}, record)
		}
	})

	t.Run("enumerate in ascending order", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		ids := []uint64{300, 2, 1 << 33, 10, 256, 1}
		records := make([]storage.Record, len(ids))
		for i, id := range ids {
			records[i] = storage.Record{ID: id, Balance: id + 1}
		}
		require.NoError(t, store.Load(records))

		all, err := storage.ReadAll(store)
		require.NoError(t, err)
		require.Equal(t, []storage.Record{
			{ID: 1, Balance: 2}, {ID: 2, Balance: 3}, {ID: 10, Balance: 11}, {ID: 256, Balance: 257}, {ID: 300, Balance: 301}, {ID: 1 << 33, Balance: 1<<33 + 1},
		}, all)
	})

	t.Run("enumerate in batches", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()
		require.NoError(t, store.Load(Records(1000)))

		testCases := []struct {
			batchSize    int
			numBatches   int
			lastBatchLen int
		}{
			{10, 100, 10},
			{20, 50, 20},
			{17, 59, 14},
		}

		for i, c := range testCases {
			reader := store.Enumerate()
			numBatches := 0
			var lastBatchLen int
			next := uint64(1)
			for {
				entries := make([]*storage.Record, c.batchSize)
				n, err := reader.Read(entries)
				require.NoError(t, err)
				if n == 0 {
					break
				}
				for _, e := range entries[:n] {
					require.Equal(t, next, e.ID)
					next++
				}
				numBatches++
				lastBatchLen = n
			}
			reader.Close()
			require.Equalf(t, c.numBatches, numBatches, "The number of batches should match for test case %d", i)
			require.Equalf(t, c.lastBatchLen, lastBatchLen, "The size of the last batch len should match for test case %d", i)
		}
	})

	t.Run("empty store", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		all, err := storage.ReadAll(store)
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		store, closeF := open(t)
		defer closeF()

		err := store.Load([]storage.Record{{ID: 1, Balance: 10}, {ID: 1, Balance: 20}})
		require.Equal(t, storage.ErrDuplicateID, err)

		require.NoError(t, store.Load([]storage.Record{{ID: 1, Balance: 10}}))
		err = store.Load([]storage.Record{{ID: 2, Balance: 20}, {ID: 1, Balance: 30}})
		require.Equal(t, storage.ErrDuplicateID, err)

		record, ok, err := store.Lookup(1)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint64(10), record.Balance)
	})
}
