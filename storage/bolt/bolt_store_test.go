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

package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
	teststorage "github.com/bbva/reserves/testutils/storage"
)

func TestBoltStore(t *testing.T) {
	teststorage.TestMutableStore(t, func(t *testing.T) (storage.MutableStore, func()) {
		return openBoltStore(t)
	})
}

func TestFailedLoadIsRolledBack(t *testing.T) {
	store, closeF := openBoltStore(t)
	defer closeF()

	require.NoError(t, store.Load([]storage.Record{{ID: 1, Balance: 10}}))
	require.Equal(t, storage.ErrDuplicateID, store.Load([]storage.Record{{ID: 2, Balance: 20}, {ID: 1, Balance: 30}}))

	_, ok, err := store.Lookup(2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadAfterLastBatch(t *testing.T) {
	store, closeF := openBoltStore(t)
	defer closeF()
	require.NoError(t, store.Load(teststorage.Records(4)))

	reader := store.Enumerate()
	defer reader.Close()

	buffer := make([]*storage.Record, 4)
	n, err := reader.Read(buffer)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = reader.Read(buffer)
	require.NoError(t, err)
	require.Zero(t, n)
}

func openBoltStore(t testing.TB) (*BoltStore, func()) {
	dir, removeF := teststorage.TempDir(t, "bolt_store_test")
	store, err := NewBoltStore(filepath.Join(dir, "records.db"))
	require.NoError(t, err)
	return store, func() {
		store.Close()
		removeF()
	}
}
