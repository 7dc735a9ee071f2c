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

package tlsutil

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelfSignedRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "tlsutil_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	certPath, keyPath, err := GenerateSelfSigned(dir, "127.0.0.1", time.Hour)
	require.NoError(t, err)

	conf := &Config{CertFilePath: certPath, KeyFilePath: keyPath, CAFilePath: certPath}

	incoming, err := conf.IncomingTLSConfig()
	require.NoError(t, err)
	require.Len(t, incoming.Certificates, 1)

	outgoing, err := conf.OutgoingTLSConfig()
	require.NoError(t, err)
	require.NotNil(t, outgoing.RootCAs)
	require.False(t, outgoing.InsecureSkipVerify)
}

func TestMissingKeyPair(t *testing.T) {
	_, err := (&Config{}).IncomingTLSConfig()
	require.Equal(t, ErrNoKeyPair, err)

	_, err = (&Config{CertFilePath: "/nonexistent/cert.pem", KeyFilePath: "/nonexistent/key.pem"}).IncomingTLSConfig()
	require.Error(t, err)

	_, err = (&Config{CAFilePath: "/nonexistent/ca.pem"}).OutgoingTLSConfig()
	require.Error(t, err)

	conf, err := (&Config{InsecureSkipVerify: true}).OutgoingTLSConfig()
	require.NoError(t, err)
	require.True(t, conf.InsecureSkipVerify)
}
