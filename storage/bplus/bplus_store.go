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

// Package bplus implements an in-memory record store backed by a B-tree.
package bplus

import (
	"sync"

	"github.com/google/btree"

	"github.com/bbva/reserves/storage"
)

type BPlusTreeStore struct {
	mu sync.RWMutex
	db *btree.BTree
}

func NewBPlusTreeStore() *BPlusTreeStore {
	return &BPlusTreeStore{db: btree.New(2)}
}

func (s *BPlusTreeStore) Load(records []storage.Record) error {
	if err := storage.CheckDuplicates(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if s.db.Has(RecordItem{ID: r.ID}) {
			return storage.ErrDuplicateID
		}
	}
	for _, r := range records {
		s.db.ReplaceOrInsert(RecordItem{ID: r.ID, Balance: r.Balance})
	}
	return nil
}

func (s *BPlusTreeStore) Lookup(id uint64) (storage.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.db.Get(RecordItem{ID: id})
	if item == nil {
		return storage.Record{}, false, nil
	}
	r := item.(RecordItem)
	return storage.Record{ID: r.ID, Balance: r.Balance}, true, nil
}

func (s *BPlusTreeStore) Enumerate() storage.RecordReader {
	return NewBPlusRecordReader(s)
}

// Len returns the number of stored records.
func (s *BPlusTreeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Len()
}

func (s *BPlusTreeStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.db.Clear(false)
	return nil
}

type RecordItem struct {
	ID, Balance uint64
}

func (p RecordItem) Less(b btree.Item) bool {
	return p.ID < b.(RecordItem).ID
}

// BPlusRecordReader walks the tree in batches, resuming after the last id
// returned.
type BPlusRecordReader struct {
	store   *BPlusTreeStore
	started bool
	lastID  uint64
}

func NewBPlusRecordReader(store *BPlusTreeStore) *BPlusRecordReader {
	return &BPlusRecordReader{store: store}
}

func (r *BPlusRecordReader) Read(buffer []*storage.Record) (n int, err error) {
	if r.store == nil {
		return 0, nil
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	r.store.db.AscendGreaterOrEqual(RecordItem{ID: r.lastID}, func(i btree.Item) bool {
		if n >= len(buffer) {
			return false
		}
		item := i.(RecordItem)
		if r.started && item.ID == r.lastID {
			return true
		}
		buffer[n] = &storage.Record{ID: item.ID, Balance: item.Balance}
		n++
		r.started = true
		r.lastID = item.ID
		return true
	})
	return n, nil
}

func (r *BPlusRecordReader) Close() {
	r.store = nil
}
