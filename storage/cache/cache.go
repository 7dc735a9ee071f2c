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

// Package cache keeps record balances in memory in front of a slower
// record store.
package cache

import (
	"github.com/bbva/reserves/storage"
)

// Cache maps encoded record ids to encoded balances.
type Cache interface {
	Get(key []byte) ([]byte, bool)
	Put(key []byte, value []byte)
	Fill(r storage.RecordReader) error
	Size() int
}

// fill reads every record from r and stores it with put.
func fill(r storage.RecordReader, put func(key, value []byte)) error {
	defer r.Close()
	for {
		entries := make([]*storage.Record, 100)
		n, err := r.Read(entries)
		for _, entry := range entries[:n] {
			put(storage.EncodeKey(entry.ID), storage.EncodeBalance(entry.Balance))
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}
