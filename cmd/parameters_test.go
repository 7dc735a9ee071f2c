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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateEndpoints(t *testing.T) {
	testCases := []struct {
		endpoints     []string
		expectedError error
	}{
		{[]string{"http://localhost", "http://localhost:8080", "https://127.0.0.1", "HTTPS://127.0.0.1:8080/"}, nil},
		{[]string{"localhost", "127.0.0.1", "http//localhost"}, errMissingURLScheme},
		{[]string{"http://", "https:/localhost", "http://:8080"}, errMissingURLHost},
		{[]string{"localhost:8080", "ftp://localhost"}, errUnexpectedScheme},
		{[]string{"http://local host:%%"}, errMalformedURL},
	}

	for _, c := range testCases {
		for _, e := range c.endpoints {
			err := validateEndpoints(e)
			require.Equalf(t, c.expectedError, errors.Cause(err), "endpoint %s", e)
		}
	}

	require.NoError(t, validateEndpoints(), "an empty list of publish urls is valid")
	require.Error(t, validateEndpoints("http://localhost", "localhost"), "every endpoint is checked")
}

func TestValidateListenAddrs(t *testing.T) {
	testCases := []struct {
		addrs         []string
		expectedError error
	}{
		{[]string{"localhost:8080", "127.0.0.1:8080", "127.0.0.1:0", "[::1]:8600"}, nil},
		{[]string{"localhost", "127.0.0.1"}, errMissingURLPort},
		{[]string{":8080"}, errMissingURLHost},
		{[]string{"localhost:"}, errMissingURLPort},
		{[]string{"http://localhost:8080"}, errUnexpectedScheme},
		{[]string{"[::1:8080"}, errMalformedURL},
	}

	for _, c := range testCases {
		for _, a := range c.addrs {
			err := validateListenAddrs(a)
			require.Equalf(t, c.expectedError, errors.Cause(err), "address %s", a)
		}
	}
}
