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
	"errors"
	"net"
	"net/http"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/tlsutil"
)

type HTTPClientOptionF func(*HTTPClient) error

func configToOptions(conf *Config) ([]HTTPClientOptionF, error) {
	var options []HTTPClientOptionF
	if conf != nil {
		params, err := hashing.NewParams(conf.Hashing, conf.LeafTag, conf.BranchTag)
		if err != nil {
			return nil, err
		}
		options = []HTTPClientOptionF{
			SetURL(conf.Endpoint),
			SetMaxRetries(conf.MaxRetries),
			SetHashing(params),
		}

		caPath, err := homedir.Expand(conf.CAPath)
		if err != nil {
			return nil, err
		}
		tlsConf := &tlsutil.Config{
			CAFilePath:         caPath,
			InsecureSkipVerify: conf.Insecure,
		}
		tlsClientConfig, err := tlsConf.OutgoingTLSConfig()
		if err != nil {
			return nil, err
		}

		defaultTransport := http.DefaultTransport.(*http.Transport)
		options = append(options, SetHttpClient(&http.Client{
			Timeout: conf.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: conf.DialTimeout,
				}).DialContext,
				Proxy:                 defaultTransport.Proxy,
				MaxIdleConns:          defaultTransport.MaxIdleConns,
				IdleConnTimeout:       defaultTransport.IdleConnTimeout,
				ExpectContinueTimeout: defaultTransport.ExpectContinueTimeout,
				TLSClientConfig:       tlsClientConfig,
				TLSHandshakeTimeout:   conf.HandshakeTimeout,
			},
		}))
	}
	return options, nil
}

func SetHttpClient(client *http.Client) HTTPClientOptionF {
	return func(c *HTTPClient) error {
		c.httpClient = client
		return nil
	}
}

func SetURL(url string) HTTPClientOptionF {
	return func(c *HTTPClient) error {
		if len(url) > 0 {
			c.endpoint = strings.TrimSuffix(url, "/")
			return nil
		}
		return errors.New("Cannot use empty string for the server url")
	}
}

func SetRequestRetrier(retrier RequestRetrier) HTTPClientOptionF {
	return func(c *HTTPClient) error {
		if retrier != nil {
			c.retrier = retrier
			return nil
		}
		return errors.New("The request retrier cannot be nil")
	}
}

func SetMaxRetries(retries int) HTTPClientOptionF {
	return func(c *HTTPClient) error {
		c.maxRetries = retries
		return nil
	}
}

// SetHashing sets the algorithm proofs are verified with and the params
// signed roots must carry.
func SetHashing(params hashing.Params) HTTPClientOptionF {
	return func(c *HTTPClient) error {
		c.alg = params.Algorithm()
		c.params = params
		return nil
	}
}
