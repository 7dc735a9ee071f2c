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

package cmd

import (
	"net"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

var (
	errMalformedURL     = errors.New("malformed URL")
	errMissingURLScheme = errors.New("missing URL scheme")
	errUnexpectedScheme = errors.New("unexpected URL scheme")
	errMissingURLHost   = errors.New("missing URL host")
	errMissingURLPort   = errors.New("missing URL port")
)

// validateEndpoints checks that every endpoint is an http or https URL
// with a host, e.g. the server endpoint of the client or a publish URL.
func validateEndpoints(endpoints ...string) error {
	for _, endpoint := range endpoints {
		u, err := url.Parse(endpoint)
		if err != nil {
			return errors.Wrapf(errMalformedURL, "%s", endpoint)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
		case "":
			return errors.Wrapf(errMissingURLScheme, "%s", endpoint)
		default:
			return errors.Wrapf(errUnexpectedScheme, "%s", endpoint)
		}
		if u.Hostname() == "" {
			return errors.Wrapf(errMissingURLHost, "%s", endpoint)
		}
	}
	return nil
}

// validateListenAddrs checks that every address is a host:port pair to
// bind a server to. Port 0 picks a free port.
func validateListenAddrs(addrs ...string) error {
	for _, addr := range addrs {
		if strings.Contains(addr, "://") {
			return errors.Wrapf(errUnexpectedScheme, "%s", addr)
		}
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			if strings.Contains(err.Error(), "missing port") {
				return errors.Wrapf(errMissingURLPort, "%s", addr)
			}
			return errors.Wrapf(errMalformedURL, "%s", addr)
		}
		if host == "" {
			return errors.Wrapf(errMissingURLHost, "%s", addr)
		}
		if port == "" {
			return errors.Wrapf(errMissingURLPort, "%s", addr)
		}
	}
	return nil
}
