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

// Package metrics holds the process wide Prometheus collectors and the
// server that exposes them.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bbva/reserves/api/metricshttp"
	"github.com/bbva/reserves/log"
)

// Registry is the subset of prometheus.Registerer used by components to
// register their collectors.
type Registry interface {
	MustRegister(...prometheus.Collector)
}

// Server serves the collectors registered in its own registry, plus the
// default Go and process collectors.
type Server struct {
	server   *http.Server
	registry *prometheus.Registry
}

func NewServer(addr string) *Server {
	r := prometheus.NewRegistry()
	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: metricshttp.NewMetricsHTTP(r),
		},
		registry: r,
	}
}

// Start blocks serving metrics until Shutdown is called.
func (m Server) Start() {
	if err := m.server.ListenAndServe(); err != http.ErrServerClosed {
		log.Errorf("Can't start metrics HTTP server: %s", err)
	}
}

func (m Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.server.Shutdown(ctx); err != nil {
		log.Errorf("Error stopping metrics HTTP server: %s", err)
	}
}

// Register adds collectors to the server registry.
func (m Server) Register(collectors ...prometheus.Collector) {
	m.registry.MustRegister(collectors...)
}

// MustRegister makes the server usable as a Registry.
func (m Server) MustRegister(collectors ...prometheus.Collector) {
	m.Register(collectors...)
}

// Registry returns the underlying registry, e.g. to gather it in tests.
func (m Server) Registry() *prometheus.Registry {
	return m.registry
}
