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

package apihttp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bbva/reserves/metrics"
)

// namespace is the leading part of all published metrics.
const namespace = "reserves"

// subsystem associated with metrics for API HTTP
const subSystem = "api_http"

var (
	HealthCheckRequest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "health_check_requests",
			Help:      "Number of current HTTP HealtCheck requests.",
		},
	)
	RootRequest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "root_requests",
			Help:      "Number of current HTTP Root requests.",
		},
	)
	ProofRequest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "proof_requests",
			Help:      "Number of current HTTP Proof requests.",
		},
	)
	SignedRootRequest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "signed_root_requests",
			Help:      "Number of current HTTP Signed Root requests.",
		},
	)
	InfoRequest = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "info_requests",
			Help:      "Number of current HTTP Info requests.",
		},
	)
	RequestDurationSeconds = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: subSystem,
			Name:      "request_duration_seconds",
			Help:      "Latency of the HTTP queries.",
		},
		[]string{"endpoint"},
	)
)

func observe(endpoint string, start time.Time) {
	RequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func RegisterMetrics(registry metrics.Registry) {
	if registry != nil {
		registry.MustRegister(
			HealthCheckRequest,
			RootRequest,
			ProofRequest,
			SignedRootRequest,
			InfoRequest,
			RequestDurationSeconds,
		)
	}
}
