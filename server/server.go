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

// Package server implements the server initialization for the api.apihttp
// and the ledger against a storage engine.
package server

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	_ "net/http/pprof" // this will enable the default profiling capabilities
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/bbva/reserves/api/apihttp"
	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/sign"
	"github.com/bbva/reserves/crypto/tlsutil"
	"github.com/bbva/reserves/ledger"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/metrics"
	"github.com/bbva/reserves/protocol"
	"github.com/bbva/reserves/publish"
	"github.com/bbva/reserves/storage"
)

const shutdownTimeout = 5 * time.Second

// Server encapsulates the data and logic to start/stop a reserves server.
type Server struct {
	conf *Config
	log  log.Logger

	store      storage.RecordStore
	ledger     *ledger.Ledger
	signer     sign.Signer
	signedRoot *protocol.SignedRoot
	publisher  *publish.Publisher

	httpServer      *http.Server
	httpListener    net.Listener
	metricsServer   *metrics.Server
	profilingServer *http.Server
}

func serverInfo(conf *Config, params hashing.Params, l *ledger.Ledger, signed bool) protocol.Info {
	scheme := protocol.Http
	if conf.EnableTLS {
		scheme = protocol.Https
	}
	return protocol.Info{
		Version:   0,
		URIScheme: scheme,
		Storage:   conf.Storage,
		Cache:     conf.Cache,
		Hashing:   params.Name,
		LeafTag:   params.LeafTag,
		BranchTag: params.BranchTag,
		Leaves:    l.Leaves(),
		Height:    l.Height(),
		Root:      protocol.HexDigest(l.Root()),
		Signed:    signed,
	}
}

// NewServer loads the records, commits them into the ledger and prepares
// the HTTP servers. An empty record set is an error.
func NewServer(conf *Config) (*Server, error) {
	logger := log.L().Named("server")
	if level := log.LevelFromString(conf.Log); level != log.NotSet {
		logger = logger.WithLevel(level)
	}

	if _, _, err := addrParts(conf.HTTPAddr); err != nil {
		return nil, errors.Wrapf(err, "invalid http address %s", conf.HTTPAddr)
	}

	params, err := hashing.NewParams(conf.Hashing, conf.LeafTag, conf.BranchTag)
	if err != nil {
		return nil, err
	}
	alg := params.Algorithm()

	server := &Server{
		conf: conf,
		log:  logger,
	}

	// Open and fill the record store
	store, err := openStore(conf, logger)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	if err := fillStore(store, conf, logger); err != nil {
		store.Close()
		return nil, err
	}

	server.store, err = withCache(store, conf)
	if err != nil {
		store.Close()
		return nil, err
	}

	// Commit the records
	start := time.Now()
	server.ledger, err = ledger.New(server.store, alg, logger)
	if err != nil {
		server.store.Close()
		return nil, errors.Wrap(err, "building ledger")
	}
	metrics.ReservesLedgerBuildDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.ReservesLedgerLeaves.Set(float64(server.ledger.Leaves()))
	metrics.ReservesLedgerHeight.Set(float64(server.ledger.Height()))

	// Sign the root
	if conf.PrivateKeyPath != "" {
		path, err := homedir.Expand(conf.PrivateKeyPath)
		if err != nil {
			server.store.Close()
			return nil, err
		}
		server.signer, err = sign.NewEd25519SignerFromFile(path)
		if err != nil {
			server.store.Close()
			return nil, err
		}
		server.signedRoot, err = protocol.SignRoot(
			server.signer,
			server.ledger.Root(),
			uint64(server.ledger.Leaves()),
			params,
		)
		if err != nil {
			server.store.Close()
			return nil, errors.Wrap(err, "signing root")
		}
		if len(conf.PublishURLs) > 0 {
			server.publisher = publish.NewPublisher(publish.NewConfig(nil, conf.PublishURLs), logger)
		}
	} else if len(conf.PublishURLs) > 0 {
		logger.Warnf("Publishing disabled: a private key is required to sign the root")
	}

	// create metrics server and register default metrics
	server.metricsServer = metrics.NewServer(conf.MetricsAddr)
	for _, m := range metrics.DefaultMetrics {
		server.metricsServer.Register(m)
	}
	apihttp.RegisterMetrics(server.metricsServer)

	// Create http endpoints
	httpMux := apihttp.NewApiHttp(server.ledger, server.signedRoot)
	httpMux.HandleFunc("/info", apihttp.InfoHandler(serverInfo(conf, params, server.ledger, server.signedRoot != nil)))

	if conf.EnableTLS {
		server.httpServer, err = newTLSServer(conf, httpMux, logger)
		if err != nil {
			server.store.Close()
			return nil, err
		}
	} else {
		server.httpServer = newHTTPServer(conf.HTTPAddr, httpMux, logger)
	}

	if conf.EnableProfiling {
		server.profilingServer = newHTTPServer(conf.ProfilingAddr, nil, logger)
	}

	return server, nil
}

// Start binds the API listener and serves every endpoint in the
// background. It returns once the API is accepting connections.
func (s *Server) Start() error {
	metrics.ReservesInstancesCount.Inc()
	s.log.Infof("Starting reserves server with root %s", s.ledger.Root().Hex())

	listener, err := net.Listen("tcp", s.conf.HTTPAddr)
	if err != nil {
		metrics.ReservesInstancesCount.Dec()
		return errors.Wrapf(err, "listening on %s", s.conf.HTTPAddr)
	}
	s.httpListener = listener

	go func() {
		s.log.Debugf("	* Starting metrics HTTP server in addr: %s", s.conf.MetricsAddr)
		s.metricsServer.Start()
	}()

	if s.profilingServer != nil {
		go func() {
			s.log.Debugf("	* Starting profiling HTTP server in addr: %s", s.conf.ProfilingAddr)
			if err := s.profilingServer.ListenAndServe(); err != http.ErrServerClosed {
				s.log.Errorf("Can't start profiling HTTP server: %s", err)
			}
		}()
	}

	if s.conf.EnableTLS {
		go func() {
			s.log.Debugf("	* Starting reserves API HTTPS server in addr: %s", listener.Addr())
			if err := s.httpServer.ServeTLS(listener, "", ""); err != http.ErrServerClosed {
				s.log.Errorf("Can't start reserves API HTTPS server: %s", err)
			}
		}()
	} else {
		go func() {
			s.log.Debugf("	* Starting reserves API HTTP server in addr: %s", listener.Addr())
			if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
				s.log.Errorf("Can't start reserves API HTTP server: %s", err)
			}
		}()
	}

	if s.publisher != nil {
		go func() {
			if err := s.publisher.Publish(s.signedRoot); err != nil {
				s.log.Errorf("Unable to publish signed root: %v", err)
			}
		}()
	}

	s.log.Debugf(" ready on %s", listener.Addr())
	return nil
}

// Addr returns the address the API listens on, once started.
func (s *Server) Addr() string {
	if s.httpListener == nil {
		return s.conf.HTTPAddr
	}
	return s.httpListener.Addr().String()
}

// Ledger returns the committed records.
func (s *Server) Ledger() *ledger.Ledger {
	return s.ledger
}

// Stop shuts down every server and closes the store.
func (s *Server) Stop() error {
	metrics.ReservesInstancesCount.Dec()
	s.log.Infof("Shutting down reserves server")

	s.log.Debugf("Stopping metrics server...")
	s.metricsServer.Shutdown()

	if s.profilingServer != nil {
		s.log.Debugf("Stopping profiling server...")
		if err := shutdown(s.profilingServer); err != nil {
			s.log.Error(err.Error())
			return err
		}
	}

	s.log.Debugf("Stopping API HTTP server...")
	if err := shutdown(s.httpServer); err != nil {
		s.log.Error(err.Error())
		return err
	}

	s.log.Debugf("Closing store...")
	if err := s.store.Close(); err != nil {
		s.log.Error(err.Error())
		return err
	}

	s.log.Debugf("Done. Exiting...")
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

func newTLSServer(conf *Config, mux *http.ServeMux, logger log.Logger) (*http.Server, error) {
	certPath, err := homedir.Expand(conf.TLSCertPath)
	if err != nil {
		return nil, err
	}
	keyPath, err := homedir.Expand(conf.TLSKeyPath)
	if err != nil {
		return nil, err
	}

	tlsConf := &tlsutil.Config{
		CertFilePath: certPath,
		KeyFilePath:  keyPath,
	}
	cfg, err := tlsConf.IncomingTLSConfig()
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         conf.HTTPAddr,
		Handler:      apihttp.LogHandler(mux),
		TLSConfig:    cfg,
		TLSNextProto: make(map[string]func(*http.Server, *tls.Conn, http.Handler), 0),
		ErrorLog:     logger.StdLogger(&log.StdLoggerOptions{ForceLevel: log.Error}),
	}, nil
}

func newHTTPServer(addr string, mux *http.ServeMux, logger log.Logger) *http.Server {
	var handler http.Handler
	if mux != nil {
		handler = apihttp.LogHandler(mux)
	}

	return &http.Server{
		Addr:     addr,
		Handler:  handler,
		ErrorLog: logger.StdLogger(&log.StdLoggerOptions{InferLevels: true}),
	}
}
