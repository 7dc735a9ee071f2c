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

package redis

import (
	"os"
	"testing"

	"github.com/pborman/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/storage"
	teststorage "github.com/bbva/reserves/testutils/storage"
)

func TestRedisStore(t *testing.T) {
	addr := redisAddr(t)
	teststorage.TestMutableStore(t, func(t *testing.T) (storage.MutableStore, func()) {
		return openRedisStore(t, addr)
	})
}

func TestUnreachableServer(t *testing.T) {
	_, err := NewRedisStore("127.0.0.1:1")
	require.Error(t, err)
}

func redisAddr(t *testing.T) string {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	return addr
}

func openRedisStore(t *testing.T, addr string) (*RedisStore, func()) {
	store, err := NewRedisStoreOpts(&Options{
		Addr:   addr,
		Prefix: "reserves-test-" + uuid.New(),
	})
	require.NoError(t, err)
	return store, func() {
		_ = store.Flush()
		store.Close()
	}
}
