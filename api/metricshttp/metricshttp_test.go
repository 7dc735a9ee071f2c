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

package metricshttp

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	r := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reserves_test_total",
		Help: "Test counter.",
	})
	r.MustRegister(counter)
	counter.Add(3)

	req, err := http.NewRequest("GET", MetricsPath, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	NewMetricsHTTP(r).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := ioutil.ReadAll(rr.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "reserves_test_total 3")
	require.Contains(t, string(body), "go_goroutines")
}
