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
	"github.com/bbva/reserves/storage"
)

// CachedStore answers lookups from the cache and falls back to the wrapped
// store on misses, caching what it finds. Absent ids are not cached.
type CachedStore struct {
	store storage.RecordStore
	cache Cache
}

func NewCachedStore(store storage.RecordStore, cache Cache) *CachedStore {
	return &CachedStore{store: store, cache: cache}
}

// Warm fills the cache with every record of the wrapped store.
func (s *CachedStore) Warm() error {
	return s.cache.Fill(s.store.Enumerate())
}

func (s *CachedStore) Lookup(id uint64) (storage.Record, bool, error) {
	key := storage.EncodeKey(id)
	if value, ok := s.cache.Get(key); ok {
		record, err := storage.DecodeRecord(key, value)
		if err == nil {
			return record, true, nil
		}
	}

	record, ok, err := s.store.Lookup(id)
	if err != nil || !ok {
		return record, ok, err
	}
	s.cache.Put(key, storage.EncodeBalance(record.Balance))
	return record, true, nil
}

func (s *CachedStore) Enumerate() storage.RecordReader {
	return s.store.Enumerate()
}

func (s *CachedStore) Close() error {
	return s.store.Close()
}
