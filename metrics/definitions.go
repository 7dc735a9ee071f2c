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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (

	// SERVER

	ReservesInstancesCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reserves_instances_count",
			Help: "Number of reserves servers currently running",
		},
	)

	// LEDGER

	ReservesLedgerBuildDurationSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Name: "reserves_ledger_build_duration_seconds",
			Help: "Duration of the tree construction at startup.",
		},
	)
	ReservesLedgerLeaves = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reserves_ledger_leaves",
			Help: "Number of records committed into the tree.",
		},
	)
	ReservesLedgerHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reserves_ledger_height",
			Help: "Number of layers of the tree.",
		},
	)
	ReservesProofsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reserves_proofs_total",
			Help: "Number of inclusion proofs generated.",
		},
	)
	ReservesProofsNotFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reserves_proofs_not_found_total",
			Help: "Number of proof queries for unknown ids.",
		},
	)

	// PUBLISHER

	ReservesPublishedRootsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reserves_published_roots_total",
			Help: "Number of signed roots delivered to publishers.",
		},
	)
	ReservesPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reserves_publish_errors_total",
			Help: "Number of failed signed root deliveries.",
		},
	)

	// PROMETHEUS

	DefaultMetrics = []prometheus.Collector{
		ReservesInstancesCount,

		ReservesLedgerBuildDurationSeconds,
		ReservesLedgerLeaves,
		ReservesLedgerHeight,
		ReservesProofsTotal,
		ReservesProofsNotFoundTotal,

		ReservesPublishedRootsTotal,
		ReservesPublishErrorsTotal,
	}
)
