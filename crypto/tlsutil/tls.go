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

// Package tlsutil builds the TLS configuration of the HTTP server and
// client, and generates self-signed certificates for local use.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"io/ioutil"

	"github.com/pkg/errors"
)

// ErrNoKeyPair is returned when a server enables TLS without a
// certificate and key.
var ErrNoKeyPair = errors.New("TLS enabled without cert/key pair")

// Config is the config used to create a tls.Config
type Config struct {
	// CAFilePath is a path to a certificate authority file. Clients use it
	// to verify the server.
	CAFilePath string

	// CertFilePath is a path to a TLS certificate that must be provided to serve TLS connections.
	CertFilePath string

	// KeyFilePath is a path to a TLS key that must be provided to serve TLS connections.
	KeyFilePath string

	// InsecureSkipVerify disables server verification on clients.
	InsecureSkipVerify bool
}

// KeyPair is used to open and parse a certificate and key pair.
func (c *Config) KeyPair() (*tls.Certificate, error) {
	if c.CertFilePath == "" || c.KeyFilePath == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFilePath, c.KeyFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "loading cert/key pair")
	}
	return &cert, err
}

// IncomingTLSConfig generates a TLS configuration for the server.
func (c *Config) IncomingTLSConfig() (*tls.Config, error) {
	cert, err := c.KeyPair()
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, ErrNoKeyPair
	}
	return &tls.Config{
		Certificates: []tls.Certificate{*cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// OutgoingTLSConfig generates a TLS configuration for clients.
func (c *Config) OutgoingTLSConfig() (*tls.Config, error) {
	conf := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if c.CAFilePath == "" {
		return conf, nil
	}

	asn1Data, err := ioutil.ReadFile(c.CAFilePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading CA file")
	}
	conf.RootCAs = x509.NewCertPool()
	if !conf.RootCAs.AppendCertsFromPEM(asn1Data) {
		return nil, errors.Errorf("no PEM certificate found in %q", c.CAFilePath)
	}
	return conf, nil
}
