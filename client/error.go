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

import "errors"

var (
	// ErrNotFound is raised when the server has no record with the
	// requested id.
	ErrNotFound = errors.New("record not found")

	// ErrNoSignedRoot is raised when the server runs without a signing key.
	ErrNoSignedRoot = errors.New("server does not sign its root")

	// ErrUnexpectedStatus is raised on any other non 2xx answer.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrRetriesExhausted is raised when every attempt of a request failed
	// with a transport error or a server error.
	ErrRetriesExhausted = errors.New("giving up")
)
