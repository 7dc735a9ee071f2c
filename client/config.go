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
	"time"

	"github.com/bbva/reserves/crypto/hashing"
)

const (
	// DefaultTimeout is the default number of seconds to wait for a request.
	DefaultTimeout = 10 * time.Second

	// DefaultDialTimeout is the default number of seconds to wait for the connection
	// to be established.
	DefaultDialTimeout = 5 * time.Second

	// DefaultHandshakeTimeout is the default number of seconds to wait for a handshake
	// negotiation.
	DefaultHandshakeTimeout = 5 * time.Second

	// DefaultInsecure sets if the client verifies, by default, the server's
	// certificate chain and host name, allowing MiTM vector attacks.
	DefaultInsecure = false

	// DefaultMaxRetries sets the default maximum number of retries before giving up
	// when performing an HTTP request.
	DefaultMaxRetries = 0
)

// Config sets the HTTP client configuration
type Config struct {
	// Endpoint of the reserves server.
	Endpoint string `desc:"REST reserves service endpoint http://ip:port"`

	// Insecure enables the verification of the server's certificate chain
	// and host name, allowing MiTM vector attacks.
	Insecure bool `desc:"Set it to true to disable the verification of the server's certificate chain"`

	// CAPath is a PEM bundle of the authorities trusted to sign the server
	// certificate, e.g. a self-signed certificate.
	CAPath string `flag:"ca-path" desc:"Path to the PEM certificates trusted to sign the server certificate"`

	// Timeout is the time to wait for a request.
	Timeout time.Duration `desc:"Time to wait for a request"`

	// DialTimeout is the time to wait for the connection to be established.
	DialTimeout time.Duration `desc:"Time to wait for the connection to be established"`

	// HandshakeTimeout is the time to wait for a handshake negotiation.
	HandshakeTimeout time.Duration `desc:"Time to wait for a handshake negotiation"`

	// MaxRetries sets the maximum number of retries before giving up
	// when performing an HTTP request.
	MaxRetries int `desc:"Sets the maximum number of retries before giving up"`

	// Hashing names the algorithm the server builds its tree with.
	Hashing string `desc:"Hashing algorithm to verify proofs: sha256, blake2b or rfc6962"`

	// LeafTag and BranchTag are the tags of the tagged algorithms.
	LeafTag   string `desc:"Tag of the leaf hashes"`
	BranchTag string `desc:"Tag of the branch hashes"`

	// PublicKeyPath is the server public key used to check signed roots.
	PublicKeyPath string `desc:"Path to the ed25519 public key of the server"`
}

// DefaultConfig creates a Config structures with default values.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:         "http://127.0.0.1:8080",
		Insecure:         DefaultInsecure,
		Timeout:          DefaultTimeout,
		DialTimeout:      DefaultDialTimeout,
		HandshakeTimeout: DefaultHandshakeTimeout,
		MaxRetries:       DefaultMaxRetries,
		Hashing:          hashing.SHA256,
		LeafTag:          hashing.DefaultLeafTag,
		BranchTag:        hashing.DefaultBranchTag,
	}
}
