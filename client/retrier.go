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
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/bbva/reserves/log"
)

// We need to consume response bodies to keep connections alive, but limit
// the size we consume to respReadLimit.
var respReadLimit = int64(4096)

// RequestRetrier decides whether to retry a failed HTTP request.
type RequestRetrier interface {
	// DoReq executes the given request and, when it fails, decides
	// whether to retry it, how long to wait, or whether to give up with
	// an error wrapping ErrRetriesExhausted.
	DoReq(req *RetriableRequest) (*http.Response, error)
}

// retryable reports whether an attempt should be repeated. Transport
// errors and 5xx answers are, including invalid codes like 0. A 404 for
// an unknown record is a final answer.
func retryable(resp *http.Response, err error) bool {
	return err != nil || resp.StatusCode <= 0 || resp.StatusCode >= 500
}

// NoRequestRetrier performs a single attempt.
type NoRequestRetrier struct {
	*http.Client
}

// NewNoRequestRetrier returns a retrier that does no retries.
func NewNoRequestRetrier(httpClient *http.Client) *NoRequestRetrier {
	return &NoRequestRetrier{Client: httpClient}
}

func (r *NoRequestRetrier) DoReq(req *RetriableRequest) (*http.Response, error) {
	req.rewind()
	resp, err := r.Do(req.Request)
	if !retryable(resp, err) {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}
	return nil, errors.Wrapf(ErrRetriesExhausted, "%s %s [%s]: 1 attempt", req.Method, req.URL, req.ID())
}

// BackoffRequestRetrier retries up to maxRetries times, waiting as told by
// the backoff policy between attempts.
type BackoffRequestRetrier struct {
	*http.Client
	maxRetries int
	backoff    Backoff
	log        log.Logger
}

// NewBackoffRequestRetrier returns a retrier that logs with the client
// logger.
func NewBackoffRequestRetrier(httpClient *http.Client, maxRetries int, backoff Backoff) *BackoffRequestRetrier {
	return NewBackoffRequestRetrierWithLogger(httpClient, maxRetries, backoff, log.L().Named("client"))
}

func NewBackoffRequestRetrierWithLogger(httpClient *http.Client, maxRetries int, backoff Backoff, logger log.Logger) *BackoffRequestRetrier {
	return &BackoffRequestRetrier{
		Client:     httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        logger,
	}
}

func (r *BackoffRequestRetrier) DoReq(req *RetriableRequest) (*http.Response, error) {
	attempts := 0
	for i := 0; ; i++ {
		req.rewind()
		attempts++

		resp, err := r.Do(req.Request)
		if !retryable(resp, err) {
			return resp, nil
		}

		if err != nil {
			r.log.Infof("%s %s [%s] request failed: %v", req.Method, req.URL, req.ID(), err)
		} else {
			r.log.Infof("%s %s [%s] answered with status %d", req.Method, req.URL, req.ID(), resp.StatusCode)
			// consume the body so the connection can be reused
			if _, err := io.Copy(ioutil.Discard, io.LimitReader(resp.Body, respReadLimit)); err != nil {
				r.log.Debugf("Error reading response body: %v", err)
			}
			resp.Body.Close()
		}

		remain := r.maxRetries - i
		if remain <= 0 {
			break
		}
		wait, goahead := r.backoff.Next(i)
		if !goahead {
			break
		}
		r.log.Debugf("%s %s [%s]: retrying in %s (%d left)", req.Method, req.URL, req.ID(), wait, remain)
		time.Sleep(wait)
	}

	return nil, errors.Wrapf(ErrRetriesExhausted, "%s %s [%s]: %d attempts", req.Method, req.URL, req.ID(), attempts)
}
