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

// Package badger implements a file-backed record store on top of BadgerDB.
package badger

import (
	b "github.com/dgraph-io/badger"
	bo "github.com/dgraph-io/badger/options"
	"github.com/pkg/errors"

	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/storage"
)

// maxBatch bounds the records written per transaction so large loads do
// not hit badger's transaction size limit.
const maxBatch = 1000

type BadgerStore struct {
	db *b.DB
}

// Options contains all the configuration used to open the Badger db
type Options struct {
	// Path is the directory path to the Badger db to use.
	Path string

	// BadgerOptions contains any specific Badger options you might
	// want to specify.
	BadgerOptions *b.Options

	// SyncWrites causes the database to fsync after each write.
	SyncWrites bool
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	return NewBadgerStoreOpts(&Options{Path: path})
}

func NewBadgerStoreOpts(opts *Options) (*BadgerStore, error) {

	var bOpts b.Options
	if bOpts = b.DefaultOptions; opts.BadgerOptions != nil {
		bOpts = *opts.BadgerOptions
	}

	bOpts.TableLoadingMode = bo.MemoryMap
	bOpts.ValueLogLoadingMode = bo.FileIO
	bOpts.Dir = opts.Path
	bOpts.ValueDir = opts.Path
	bOpts.SyncWrites = opts.SyncWrites

	db, err := b.Open(bOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger store at %s", opts.Path)
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(records []storage.Record) error {
	if err := storage.CheckDuplicates(records); err != nil {
		return err
	}

	err := s.db.View(func(txn *b.Txn) error {
		for _, r := range records {
			_, err := txn.Get(storage.EncodeKey(r.ID))
			switch err {
			case nil:
				return storage.ErrDuplicateID
			case b.ErrKeyNotFound:
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for start := 0; start < len(records); start += maxBatch {
		end := start + maxBatch
		if end > len(records) {
			end = len(records)
		}
		err := s.db.Update(func(txn *b.Txn) error {
			for _, r := range records[start:end] {
				if err := txn.Set(storage.EncodeKey(r.ID), storage.EncodeBalance(r.Balance)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return errors.Wrap(err, "writing records")
		}
		log.Debugf("Badger store loaded records %d to %d", start, end)
	}
	return nil
}

func (s *BadgerStore) Lookup(id uint64) (storage.Record, bool, error) {
	var record storage.Record
	err := s.db.View(func(txn *b.Txn) error {
		key := storage.EncodeKey(id)
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		record, err = storage.DecodeRecord(key, value)
		return err
	})
	switch err {
	case nil:
		return record, true, nil
	case b.ErrKeyNotFound:
		return storage.Record{}, false, nil
	default:
		return storage.Record{}, false, err
	}
}

type BadgerRecordReader struct {
	txn *b.Txn
	it  *b.Iterator
}

func NewBadgerRecordReader(txn *b.Txn) *BadgerRecordReader {
	opts := b.DefaultIteratorOptions
	opts.PrefetchSize = 100
	it := txn.NewIterator(opts)
	it.Rewind()
	return &BadgerRecordReader{txn, it}
}

func (r *BadgerRecordReader) Read(buffer []*storage.Record) (n int, err error) {
	for n = 0; r.it.Valid() && n < len(buffer); r.it.Next() {
		item := r.it.Item()
		key := item.KeyCopy(nil)
		value, err := item.ValueCopy(nil)
		if err != nil {
			return n, err
		}
		record, err := storage.DecodeRecord(key, value)
		if err != nil {
			return n, err
		}
		buffer[n] = &record
		n++
	}
	return n, nil
}

func (r *BadgerRecordReader) Close() {
	r.it.Close()
	r.txn.Discard()
}

func (s *BadgerStore) Enumerate() storage.RecordReader {
	return NewBadgerRecordReader(s.db.NewTransaction(false))
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
