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

// Package storage defines the record model and the contract every record
// backend implements.
package storage

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/bbva/reserves/util"
)

var (
	// ErrDuplicateID is returned when loading two records with the same ID.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrMalformedRecord is returned when a stored value cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")
)

// Record is an account identifier and its balance.
type Record struct {
	ID      uint64
	Balance uint64
}

// Serialize returns the canonical leaf value of the record, the ASCII text
// "(<id>,<balance>)" with no spaces.
func (r Record) Serialize() []byte {
	b := make([]byte, 0, 42)
	b = append(b, '(')
	b = strconv.AppendUint(b, r.ID, 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, r.Balance, 10)
	b = append(b, ')')
	return b
}

// RecordStore is a read-only set of records.
type RecordStore interface {
	// Lookup returns the record with the given id. A missing id is reported
	// with ok set to false and a nil error; errors are backend failures.
	Lookup(id uint64) (record Record, ok bool, err error)

	// Enumerate returns a reader over every record in ascending ID order.
	Enumerate() RecordReader

	Close() error
}

// MutableStore is a RecordStore that can be filled before it is served.
type MutableStore interface {
	RecordStore

	// Load adds the records to the store. It fails with ErrDuplicateID if
	// any id is repeated, either in the batch or against stored records.
	Load(records []Record) error
}

// RecordReader reads records in batches. Read fills the buffer from the
// beginning and returns the number of records read, 0 when exhausted.
type RecordReader interface {
	Read(buffer []*Record) (n int, err error)
	Close()
}

// ReadAll drains an enumeration of the store.
func ReadAll(store RecordStore) ([]Record, error) {
	reader := store.Enumerate()
	defer reader.Close()

	var records []Record
	for {
		buffer := make([]*Record, 100)
		n, err := reader.Read(buffer)
		for i := 0; i < n; i++ {
			records = append(records, *buffer[i])
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

// CheckDuplicates returns ErrDuplicateID if two records share an id.
func CheckDuplicates(records []Record) error {
	seen := make(map[uint64]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			return ErrDuplicateID
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// EncodeKey and EncodeBalance produce the binary form used by the key-value
// backends. Big endian keys iterate in numeric order.
func EncodeKey(id uint64) []byte {
	return util.Uint64AsBytes(id)
}

func EncodeBalance(balance uint64) []byte {
	return util.Uint64AsBytes(balance)
}

// DecodeRecord rebuilds a record from its binary key and value.
func DecodeRecord(key, value []byte) (Record, error) {
	id, err := util.BytesAsUint64(key)
	if err != nil {
		return Record{}, ErrMalformedRecord
	}
	balance, err := util.BytesAsUint64(value)
	if err != nil {
		return Record{}, ErrMalformedRecord
	}
	return Record{ID: id, Balance: balance}, nil
}
