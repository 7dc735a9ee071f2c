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

// Package bolt implements a single-file record store on top of bbolt.
package bolt

import (
	"time"

	b "github.com/coreos/bbolt"
	"github.com/pkg/errors"

	"github.com/bbva/reserves/storage"
)

// DefaultBucket holds the records unless another bucket is given.
const DefaultBucket = "records"

type BoltStore struct {
	db     *b.DB
	bucket []byte
}

func NewBoltStore(path string) (*BoltStore, error) {
	return NewBoltStoreBucket(path, DefaultBucket)
}

func NewBoltStoreBucket(path, bucketName string) (*BoltStore, error) {
	db, err := b.Open(path, 0600, &b.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt store at %s", path)
	}

	err = db.Update(func(tx *b.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating bucket")
	}

	return &BoltStore{db: db, bucket: []byte(bucketName)}, nil
}

func (s *BoltStore) Load(records []storage.Record) error {
	if err := storage.CheckDuplicates(records); err != nil {
		return err
	}

	// a failed transaction leaves the bucket untouched
	return s.db.Update(func(tx *b.Tx) error {
		bucket := tx.Bucket(s.bucket)
		for _, r := range records {
			key := storage.EncodeKey(r.ID)
			if bucket.Get(key) != nil {
				return storage.ErrDuplicateID
			}
			if err := bucket.Put(key, storage.EncodeBalance(r.Balance)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Lookup(id uint64) (storage.Record, bool, error) {
	var record storage.Record
	var found bool
	err := s.db.View(func(tx *b.Tx) error {
		key := storage.EncodeKey(id)
		v := tx.Bucket(s.bucket).Get(key)
		if v == nil {
			return nil
		}
		var err error
		record, err = storage.DecodeRecord(key, v)
		found = err == nil
		return err
	})
	if err != nil {
		return storage.Record{}, false, err
	}
	return record, found, nil
}

func (s *BoltStore) Enumerate() storage.RecordReader {
	tx, err := s.db.Begin(false)
	if err != nil {
		return &BoltRecordReader{err: err}
	}
	return &BoltRecordReader{tx: tx, cursor: tx.Bucket(s.bucket).Cursor()}
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// BoltRecordReader walks the bucket with a cursor inside a read-only
// transaction that is released on Close.
type BoltRecordReader struct {
	tx      *b.Tx
	cursor  *b.Cursor
	started bool
	err     error
}

func (r *BoltRecordReader) Read(buffer []*storage.Record) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.cursor == nil || len(buffer) == 0 {
		return 0, nil
	}

	var k, v []byte
	if !r.started {
		k, v = r.cursor.First()
		r.started = true
	} else {
		k, v = r.cursor.Next()
	}

	for ; k != nil; k, v = r.cursor.Next() {
		record, err := storage.DecodeRecord(k, v)
		if err != nil {
			return n, err
		}
		buffer[n] = &record
		n++
		if n == len(buffer) {
			break
		}
	}
	return n, nil
}

func (r *BoltRecordReader) Close() {
	if r.tx != nil {
		_ = r.tx.Rollback()
		r.tx = nil
		r.cursor = nil
	}
}
