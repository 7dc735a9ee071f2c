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

// Package apihttp implements the HTTP API public interface.
package apihttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pborman/uuid"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/ledger"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/metrics"
	"github.com/bbva/reserves/protocol"
)

// RequestIDHeader carries the id stamped on every request by LogHandler.
const RequestIDHeader = "X-Request-Id"

// Ledger is the read-only view of the committed records the handlers need.
type Ledger interface {
	Root() hashing.Digest
	Proof(id uint64) (*ledger.Proof, bool, error)
}

// This handler checks the system status and returns it accordinly.
// The http call it answer is:
//	GET /health-check
//
// The following statuses are expected:
//
// If everything is allright, the HTTP status is 200 and the body contains:
//	 {"version": "0", "status":"ok"}
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	HealthCheckRequest.Inc()
	defer HealthCheckRequest.Dec()

	result := protocol.HealthCheckResponse{
		Version: 0,
		Status:  "ok",
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := new(bytes.Buffer)
	_ = json.Compact(out, resultJson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Bytes())
}

// Root returns the root digest of the tree as a JSON string:
//	GET /root
//
// The answer is always 200 with a body like:
//	"0xb1231de33da17c23cebd80c104b88198e0914b0463d0e14db163605b904a7ba3"
func Root(l Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.Header().Set("Allow", "GET")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		RootRequest.Inc()
		defer RootRequest.Dec()
		defer observe("root", time.Now())

		writeJSON(w, http.StatusOK, protocol.HexDigest(l.Root()))
	}
}

// Proof returns the balance and inclusion proof of a record:
//	GET /proof/{id}
//
// The following statuses are expected:
//	200 with {"balance": 1111, "proof": [[1, "0x.."], ...]}
//	400 if the id is not an unsigned integer
//	404 with "User with ID {id} not found." if the id is unknown
//	500 if the record store fails
func Proof(l Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.Header().Set("Allow", "GET")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ProofRequest.Inc()
		defer ProofRequest.Dec()
		defer observe("proof", time.Now())

		raw := strings.TrimPrefix(r.URL.Path, "/proof/")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid user ID %q.", raw), http.StatusBadRequest)
			return
		}

		proof, ok, err := l.Proof(id)
		if err != nil {
			log.Errorf("Unable to build proof for user %d: %v", id, err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			metrics.ReservesProofsNotFoundTotal.Inc()
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, "User with ID %d not found.", id)
			return
		}

		metrics.ReservesProofsTotal.Inc()
		writeJSON(w, http.StatusOK, protocol.ToProofResponse(proof))
	}
}

// SignedRoot returns the msgpack encoded signed root:
//	GET /root/signed
//
// It answers 404 when the server runs without a signing key.
func SignedRoot(signed *protocol.SignedRoot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.Header().Set("Allow", "GET")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		SignedRootRequest.Inc()
		defer SignedRootRequest.Dec()

		if signed == nil {
			http.Error(w, "Signed roots are not enabled.", http.StatusNotFound)
			return
		}

		out, err := signed.Encode()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	}
}

// InfoHandler returns the server information:
//	GET /info
func InfoHandler(info protocol.Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.Header().Set("Allow", "GET")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		InfoRequest.Inc()
		defer InfoRequest.Dec()

		writeJSON(w, http.StatusOK, info)
	}
}

// NewApiHttp returns a new *http.ServeMux containing all the API handlers
// already configured. signed may be nil.
func NewApiHttp(l Ledger, signed *protocol.SignedRoot) *http.ServeMux {

	api := http.NewServeMux()
	api.HandleFunc("/health-check", HealthCheckHandler)
	api.HandleFunc("/root", Root(l))
	api.HandleFunc("/root/signed", SignedRoot(signed))
	api.HandleFunc("/proof/", Proof(l))

	return api
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	out, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// LogHandler stamps every request with a request id, propagating the one
// sent by the client if any, and logs its outcome.
func LogHandler(handle http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New()
		}
		w.Header().Set(RequestIDHeader, requestID)

		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		handle.ServeHTTP(writer, r)

		log.Debugf("Request %s %s %s -> %d in %v", requestID, r.Method, r.URL.Path, writer.status, time.Since(start))
	}
}
