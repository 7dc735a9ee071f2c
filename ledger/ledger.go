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

// Package ledger commits a snapshot of a record store into a Merkle tree
// and answers root and inclusion proof queries over it.
package ledger

import (
	"time"

	"github.com/pkg/errors"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/merkle"
	"github.com/bbva/reserves/storage"
)

// Ledger is immutable after New returns and can be shared between
// goroutines without locking.
type Ledger struct {
	store storage.RecordStore
	alg   hashing.Algorithm
	tree  *merkle.Tree
	index map[uint64]int
	log   log.Logger
}

// Proof is the answer to an inclusion query.
type Proof struct {
	Record storage.Record
	Proof  merkle.Proof
}

// New enumerates the store once, in ascending id order, and builds the
// tree. An empty store yields merkle.ErrEmptyRecordSet.
func New(store storage.RecordStore, alg hashing.Algorithm, logger log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.L()
	}
	logger = logger.Named("ledger")

	start := time.Now()
	records, err := storage.ReadAll(store)
	if err != nil {
		return nil, errors.Wrap(err, "enumerating records")
	}

	values := make([][]byte, len(records))
	index := make(map[uint64]int, len(records))
	for i, r := range records {
		values[i] = r.Serialize()
		index[r.ID] = i
	}

	tree, err := merkle.Build(alg, values)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	logger.Infof("Committed %d records in %v: height %d, root %s", len(records), elapsed, tree.Height(), tree.Root().Hex())

	return &Ledger{
		store: store,
		alg:   alg,
		tree:  tree,
		index: index,
		log:   logger,
	}, nil
}

// Root returns the commitment to every record.
func (l *Ledger) Root() hashing.Digest {
	return l.tree.Root()
}

// Leaves returns the number of committed records.
func (l *Ledger) Leaves() int {
	return l.tree.Leaves()
}

// Height returns the number of layers of the tree.
func (l *Ledger) Height() int {
	return l.tree.Height()
}

// Algorithm returns the hashing algorithm of the tree.
func (l *Ledger) Algorithm() hashing.Algorithm {
	return l.alg
}

// Proof returns the balance and inclusion proof of the record with the
// given id. An id missing from the snapshot is reported with ok set to
// false and a nil error.
func (l *Ledger) Proof(id uint64) (proof *Proof, ok bool, err error) {
	record, ok, err := l.store.Lookup(id)
	if err != nil {
		return nil, false, errors.Wrapf(err, "looking up record %d", id)
	}
	if !ok {
		return nil, false, nil
	}

	leaf, committed := l.index[id]
	if !committed {
		// the store must not change once committed
		return nil, false, errors.Wrapf(merkle.ErrIndexOutOfRange, "record %d was not committed", id)
	}

	path, err := l.tree.Proof(leaf)
	if err != nil {
		return nil, false, errors.Wrapf(err, "building proof for record %d", id)
	}

	l.log.Debugf("Proof for record %d at leaf %d", id, leaf)
	return &Proof{Record: record, Proof: path}, true, nil
}

// Verify checks a proof against the current root.
func (l *Ledger) Verify(record storage.Record, proof merkle.Proof) bool {
	return merkle.Verify(l.alg, record.Serialize(), proof, l.tree.Root())
}
