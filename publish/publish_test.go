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

package publish

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/client"
	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/sign"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/protocol"
)

type fakeStore struct {
	sync.Mutex
	failures int
	received []*protocol.SignedRoot
	paths    []string
}

func (s *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()
	s.paths = append(s.paths, r.URL.Path)
	if s.failures > 0 {
		s.failures--
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	body, _ := ioutil.ReadAll(r.Body)
	var signed protocol.SignedRoot
	if err := signed.Decode(body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.received = append(s.received, &signed)
	w.WriteHeader(http.StatusCreated)
}

func signedRoot(t *testing.T) (*protocol.SignedRoot, sign.Signer) {
	signer, err := sign.NewEd25519Signer()
	require.NoError(t, err)
	signed, err := protocol.SignRoot(signer, hashing.Digest{0x01, 0x02}, 8, hashing.Params{Name: hashing.SHA256})
	require.NoError(t, err)
	return signed, signer
}

func silentLogger() log.Logger {
	return log.New(&log.LoggerOptions{Level: log.Off})
}

func TestPublish(t *testing.T) {
	store1, store2 := &fakeStore{}, &fakeStore{}
	server1, server2 := httptest.NewServer(store1), httptest.NewServer(store2)
	defer server1.Close()
	defer server2.Close()

	signed, signer := signedRoot(t)
	p := NewPublisher(NewConfig(nil, []string{server1.URL, server2.URL + "/"}), silentLogger())
	require.NoError(t, p.Publish(signed))

	for _, store := range []*fakeStore{store1, store2} {
		require.Equal(t, []string{RootsPath}, store.paths)
		require.Len(t, store.received, 1)
		ok, err := store.received[0].Verify(signer)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestPublishRetries(t *testing.T) {
	store := &fakeStore{failures: 2}
	server := httptest.NewServer(store)
	defer server.Close()

	signed, _ := signedRoot(t)
	conf := NewConfig(nil, []string{server.URL})
	conf.MaxRetries = 2
	conf.Backoff = client.NewSimpleBackoff(time.Millisecond, time.Millisecond)

	require.NoError(t, NewPublisher(conf, silentLogger()).Publish(signed))
	require.Len(t, store.paths, 3)
	require.Len(t, store.received, 1)
}

func TestPublishGivesUp(t *testing.T) {
	store := &fakeStore{failures: 10}
	server := httptest.NewServer(store)
	defer server.Close()

	signed, _ := signedRoot(t)
	conf := NewConfig(nil, []string{server.URL})
	conf.MaxRetries = 1
	conf.Backoff = client.NewConstantBackoff(0)

	require.Error(t, NewPublisher(conf, silentLogger()).Publish(signed))
	require.Len(t, store.paths, 2)
	require.Empty(t, store.received)
}
