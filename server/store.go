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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/storage"
	bstore "github.com/bbva/reserves/storage/badger"
	boltstore "github.com/bbva/reserves/storage/bolt"
	"github.com/bbva/reserves/storage/bplus"
	"github.com/bbva/reserves/storage/cache"
	"github.com/bbva/reserves/storage/loader"
	rstore "github.com/bbva/reserves/storage/redis"
)

// openStore opens the configured backend.
func openStore(conf *Config, logger log.Logger) (storage.MutableStore, error) {
	switch conf.Storage {
	case MemoryStorage, "":
		return bplus.NewBPlusTreeStore(), nil

	case BadgerStorage:
		path, err := ensureDir(conf.DBPath, logger)
		if err != nil {
			return nil, err
		}
		return bstore.NewBadgerStore(path)

	case BoltStorage:
		path, err := ensureDir(conf.DBPath, logger)
		if err != nil {
			return nil, err
		}
		return boltstore.NewBoltStore(filepath.Join(path, "reserves.db"))

	case RedisStorage:
		return rstore.NewRedisStoreOpts(&rstore.Options{
			Addr:   conf.RedisAddr,
			Prefix: conf.RedisPrefix,
		})

	default:
		return nil, fmt.Errorf("unknown storage %q", conf.Storage)
	}
}

// ErrStoreMismatch is returned when a persistent store already holds
// records that differ from the records file.
var ErrStoreMismatch = errors.New("store holds other records than the records file")

// fillStore loads the records file into the store. A store that already
// holds records is committed as is when no records file is given, or when
// it holds exactly the records of the file. An empty store without records
// file gets the demo records.
func fillStore(store storage.MutableStore, conf *Config, logger log.Logger) error {
	path := conf.RecordsPath
	if path != "" {
		var err error
		if path, err = homedir.Expand(path); err != nil {
			return errors.Wrapf(err, "expanding %s", conf.RecordsPath)
		}
	}

	empty, err := isEmpty(store)
	if err != nil {
		return err
	}

	if !empty {
		if path != "" {
			if err := checkStored(store, path, conf.recordsFormat()); err != nil {
				return err
			}
		}
		logger.Infof("Store %s already holds records, committing them", conf.Storage)
		return nil
	}

	n, err := loader.Load(store, path, conf.recordsFormat())
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d records into %s store", n, conf.Storage)
	return nil
}

// checkStored compares the records of the file with the stored ones.
func checkStored(store storage.RecordStore, path, format string) error {
	records, err := loader.ReadFile(path, format)
	if err != nil {
		return err
	}
	stored, err := storage.ReadAll(store)
	if err != nil {
		return errors.Wrap(err, "reading store")
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	if len(records) != len(stored) {
		return errors.Wrapf(ErrStoreMismatch, "%s has %d records, store has %d", path, len(records), len(stored))
	}
	for i := range records {
		if records[i] != stored[i] {
			return errors.Wrapf(ErrStoreMismatch, "%s differs at record %d", path, records[i].ID)
		}
	}
	return nil
}

// withCache decorates the store with the configured lookup cache and warms
// it up.
func withCache(store storage.RecordStore, conf *Config) (storage.RecordStore, error) {
	var c cache.Cache
	switch conf.Cache {
	case NoCache, "":
		return store, nil
	case FastCache:
		c = cache.NewFastCache(int64(conf.CacheSize))
	case FreeCache:
		c = cache.NewFreeCache(conf.CacheSize)
	default:
		return nil, fmt.Errorf("unknown cache %q", conf.Cache)
	}

	cached := cache.NewCachedStore(store, c)
	if err := cached.Warm(); err != nil {
		return nil, errors.Wrap(err, "warming up cache")
	}
	return cached, nil
}

func isEmpty(store storage.RecordStore) (bool, error) {
	reader := store.Enumerate()
	defer reader.Close()

	n, err := reader.Read(make([]*storage.Record, 1))
	if err != nil {
		return false, errors.Wrap(err, "reading store")
	}
	return n == 0, nil
}

func ensureDir(path string, logger log.Logger) (string, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "expanding %s", path)
	}
	logger.Infof("ensuring directory at %s exists", path)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}
