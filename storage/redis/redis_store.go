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

// Package redis implements a networked record store. Balances live in a
// hash keyed by the zero-padded id and the ids are mirrored in a sorted set
// with equal scores so they can be enumerated in lexical, hence numeric,
// order.
package redis

import (
	"strconv"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"

	"github.com/bbva/reserves/storage"
	"github.com/bbva/reserves/util"
)

// DefaultPrefix namespaces the keys used by the store.
const DefaultPrefix = "reserves"

type RedisStore struct {
	client   *redis.Client
	balances string
	ids      string
}

// Options contains the configuration used to connect to redis.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisStore(addr string) (*RedisStore, error) {
	return NewRedisStoreOpts(&Options{Addr: addr})
}

func NewRedisStoreOpts(opts *Options) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", opts.Addr)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &RedisStore{
		client:   client,
		balances: prefix + ":balances",
		ids:      prefix + ":ids",
	}, nil
}

func (s *RedisStore) Load(records []storage.Record) error {
	if err := storage.CheckDuplicates(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	exists := make([]*redis.BoolCmd, len(records))
	_, err := s.client.Pipelined(func(pipe redis.Pipeliner) error {
		for i, r := range records {
			exists[i] = pipe.HExists(s.balances, util.Uint64AsPaddedString(r.ID))
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "checking existing records")
	}
	for _, cmd := range exists {
		if cmd.Val() {
			return storage.ErrDuplicateID
		}
	}

	fields := make(map[string]interface{}, len(records))
	members := make([]redis.Z, len(records))
	for i, r := range records {
		member := util.Uint64AsPaddedString(r.ID)
		fields[member] = strconv.FormatUint(r.Balance, 10)
		members[i] = redis.Z{Score: 0, Member: member}
	}

	_, err = s.client.TxPipelined(func(pipe redis.Pipeliner) error {
		pipe.HMSet(s.balances, fields)
		pipe.ZAdd(s.ids, members...)
		return nil
	})
	return errors.Wrap(err, "writing records")
}

func (s *RedisStore) Lookup(id uint64) (storage.Record, bool, error) {
	value, err := s.client.HGet(s.balances, util.Uint64AsPaddedString(id)).Result()
	switch err {
	case nil:
	case redis.Nil:
		return storage.Record{}, false, nil
	default:
		return storage.Record{}, false, err
	}

	balance, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return storage.Record{}, false, storage.ErrMalformedRecord
	}
	return storage.Record{ID: id, Balance: balance}, true, nil
}

func (s *RedisStore) Enumerate() storage.RecordReader {
	return &RedisRecordReader{store: s, min: "-"}
}

// Flush removes every key owned by the store.
func (s *RedisStore) Flush() error {
	return s.client.Del(s.balances, s.ids).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// RedisRecordReader pages through the sorted set, starting every page
// right after the last member returned.
type RedisRecordReader struct {
	store *RedisStore
	min   string
}

func (r *RedisRecordReader) Read(buffer []*storage.Record) (n int, err error) {
	if r.store == nil || len(buffer) == 0 {
		return 0, nil
	}

	members, err := r.store.client.ZRangeByLex(r.store.ids, redis.ZRangeBy{
		Min:   r.min,
		Max:   "+",
		Count: int64(len(buffer)),
	}).Result()
	if err != nil {
		return 0, err
	}
	if len(members) == 0 {
		return 0, nil
	}

	values, err := r.store.client.HMGet(r.store.balances, members...).Result()
	if err != nil {
		return 0, err
	}

	for i, member := range members {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return n, storage.ErrMalformedRecord
		}
		raw, ok := values[i].(string)
		if !ok {
			return n, storage.ErrMalformedRecord
		}
		balance, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return n, storage.ErrMalformedRecord
		}
		buffer[n] = &storage.Record{ID: id, Balance: balance}
		n++
	}

	r.min = "(" + members[len(members)-1]
	return n, nil
}

func (r *RedisRecordReader) Close() {
	r.store = nil
}
