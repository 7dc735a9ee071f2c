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

package client

import (
	"bytes"
	"io/ioutil"
	"net/http"

	"github.com/pborman/uuid"
)

// RequestIDHeader is read by the server LogHandler, so every attempt of a
// retried request shows up under the same id in the server logs.
const RequestIDHeader = "X-Request-Id"

// RetriableRequest wraps an HTTP request with a payload that can be
// replayed on every attempt.
type RetriableRequest struct {
	payload []byte
	id      string

	*http.Request
}

// NewRetriableRequest creates a new retriable request with a fresh
// request id. The accept header is left empty when accept is empty.
func NewRetriableRequest(method, url, accept string, payload []byte) (*RetriableRequest, error) {
	httpReq, err := http.NewRequest(method, url, nil)
	if err != nil {
		return nil, err
	}
	httpReq.ContentLength = int64(len(payload))

	id := uuid.New()
	httpReq.Header.Set(RequestIDHeader, id)
	if accept != "" {
		httpReq.Header.Set("Accept", accept)
	}

	return &RetriableRequest{payload: payload, id: id, Request: httpReq}, nil
}

// ID returns the request id shared by all the attempts.
func (r *RetriableRequest) ID() string {
	return r.id
}

// rewind resets the body before an attempt.
func (r *RetriableRequest) rewind() {
	if r.payload == nil {
		r.Request.Body = nil
		return
	}
	r.Request.Body = ioutil.NopCloser(bytes.NewReader(r.payload))
}
