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

// Package client implements the HTTP client of the reserves service. It
// fetches roots and inclusion proofs and verifies them locally.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/sign"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/merkle"
	"github.com/bbva/reserves/protocol"
	"github.com/bbva/reserves/storage"
)

// HTTPClient is the stateless client of the reserves HTTP API.
type HTTPClient struct {
	httpClient *http.Client
	retrier    RequestRetrier
	endpoint   string
	maxRetries int
	alg        hashing.Algorithm
	params     hashing.Params
	log        log.Logger
}

// NewDefaultHTTPClient creates a client with the default configuration.
func NewDefaultHTTPClient() (*HTTPClient, error) {
	return NewHTTPClientFromConfig(DefaultConfig())
}

// NewHTTPClientFromConfig initializes a client from a configuration.
func NewHTTPClientFromConfig(conf *Config) (*HTTPClient, error) {
	options, err := configToOptions(conf)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(options...)
}

// NewHTTPClient creates a new HTTP client to talk to a reserves server.
// Without a retrier option, requests are retried with an exponential
// backoff up to the configured number of retries.
func NewHTTPClient(options ...HTTPClientOptionF) (*HTTPClient, error) {
	client := &HTTPClient{
		httpClient: http.DefaultClient,
		endpoint:   "http://127.0.0.1:8080",
		maxRetries: DefaultMaxRetries,
		alg:        hashing.NewDefaultAlgorithm(),
		params:     hashing.Params{Name: hashing.SHA256, LeafTag: hashing.DefaultLeafTag, BranchTag: hashing.DefaultBranchTag},
		log:        log.L().Named("client"),
	}

	for _, option := range options {
		if err := option(client); err != nil {
			return nil, err
		}
	}

	if client.retrier == nil {
		if client.maxRetries > 0 {
			client.retrier = NewBackoffRequestRetrierWithLogger(
				client.httpClient,
				client.maxRetries,
				NewExponentialBackoff(ExponentialBackoffInitialTimeout, ExponentialBackoffMaxTimeout),
				client.log,
			)
		} else {
			client.retrier = NewNoRequestRetrier(client.httpClient)
		}
	}

	return client, nil
}

func (c *HTTPClient) doReq(method, path, accept string) (int, []byte, error) {
	req, err := NewRetriableRequest(method, c.endpoint+path, accept, nil)
	if err != nil {
		return 0, nil, err
	}

	resp, err := c.retrier.DoReq(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "reading response body")
	}

	c.log.Debugf("%s %s [%s] -> %d", method, path, req.ID(), resp.StatusCode)
	return resp.StatusCode, bodyBytes, nil
}

// Root fetches the current root digest.
func (c *HTTPClient) Root() (hashing.Digest, error) {
	status, body, err := c.doReq("GET", "/root", "application/json")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "GET /root: %d %s", status, body)
	}

	var root protocol.HexDigest
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, errors.Wrap(err, "decoding root")
	}
	return hashing.Digest(root), nil
}

// Proof fetches the balance and inclusion proof of the given id. An
// unknown id is reported as ErrNotFound.
func (c *HTTPClient) Proof(id uint64) (*protocol.ProofResponse, error) {
	path := fmt.Sprintf("/proof/%d", id)
	status, body, err := c.doReq("GET", path, "application/json")
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "%s", body)
	default:
		return nil, errors.Wrapf(ErrUnexpectedStatus, "GET %s: %d %s", path, status, body)
	}

	var proof protocol.ProofResponse
	if err := json.Unmarshal(body, &proof); err != nil {
		return nil, errors.Wrap(err, "decoding proof")
	}
	return &proof, nil
}

// SignedRoot fetches the signed root commitment.
func (c *HTTPClient) SignedRoot() (*protocol.SignedRoot, error) {
	status, body, err := c.doReq("GET", "/root/signed", "application/msgpack")
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoSignedRoot
	default:
		return nil, errors.Wrapf(ErrUnexpectedStatus, "GET /root/signed: %d %s", status, body)
	}

	var signed protocol.SignedRoot
	if err := signed.Decode(body); err != nil {
		return nil, errors.Wrap(err, "decoding signed root")
	}
	return &signed, nil
}

// Info fetches the server information.
func (c *HTTPClient) Info() (*protocol.Info, error) {
	status, body, err := c.doReq("GET", "/info", "application/json")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "GET /info: %d %s", status, body)
	}

	var info protocol.Info
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Wrap(err, "decoding info")
	}
	return &info, nil
}

// HealthCheck returns nil when the server answers its health check.
func (c *HTTPClient) HealthCheck() error {
	status, body, err := c.doReq("GET", "/health-check", "application/json")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errors.Wrapf(ErrUnexpectedStatus, "GET /health-check: %d %s", status, body)
	}
	return nil
}

// Verify checks locally that the record (id, balance) is committed to by
// root through proof. It never contacts the server.
func (c *HTTPClient) Verify(id, balance uint64, proof merkle.Proof, root hashing.Digest) bool {
	value := storage.Record{ID: id, Balance: balance}.Serialize()
	return merkle.Verify(c.alg, value, proof, root)
}

// RootAndVerify fetches the root and the proof of id and checks them
// against each other.
func (c *HTTPClient) RootAndVerify(id uint64) (*protocol.ProofResponse, bool, error) {
	root, err := c.Root()
	if err != nil {
		return nil, false, err
	}
	proof, err := c.Proof(id)
	if err != nil {
		return nil, false, err
	}
	return proof, c.Verify(id, proof.Balance, proof.ToMerkleProof(), root), nil
}

// VerifySignedRoot fetches the signed root and checks its signature, that
// it was built with the hashing params of the client, when known, and that
// it commits to the same root the server serves.
func (c *HTTPClient) VerifySignedRoot(verifier sign.Verifier) (*protocol.SignedRoot, bool, error) {
	signed, err := c.SignedRoot()
	if err != nil {
		return nil, false, err
	}
	ok, err := signed.Verify(verifier)
	if err != nil || !ok {
		return signed, false, err
	}
	if c.params != (hashing.Params{}) && signed.Params() != c.params {
		c.log.Infof("Signed root uses %+v, client uses %+v", signed.Params(), c.params)
		return signed, false, nil
	}
	root, err := c.Root()
	if err != nil {
		return signed, false, err
	}
	return signed, bytes.Equal(root, signed.Root), nil
}
