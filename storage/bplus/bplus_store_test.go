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

package bplus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
	teststorage "github.com/bbva/reserves/testutils/storage"
)

func TestBPlusTreeStore(t *testing.T) {
	teststorage.TestMutableStore(t, func(t *testing.T) (storage.MutableStore, func()) {
		return openBPlusTreeStore()
	})
}

func TestReaderAfterClose(t *testing.T) {
	store, closeF := openBPlusTreeStore()
	defer closeF()
	require.NoError(t, store.Load(teststorage.Records(3)))
	require.Equal(t, 3, store.Len())

	reader := store.Enumerate()
	reader.Close()
	n, err := reader.Read(make([]*storage.Record, 10))
	require.NoError(t, err)
	require.Zero(t, n)
}

func BenchmarkLookup(b *testing.B) {
	store, closeF := openBPlusTreeStore()
	defer closeF()
	_ = store.Load(teststorage.Records(100000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = store.Lookup(uint64(i%100000) + 1)
	}
}

func openBPlusTreeStore() (*BPlusTreeStore, func()) {
	store := NewBPlusTreeStore()
	return store, func() {
		store.Close()
	}
}
