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

package server

import (
	"net"
	"os"
	"path/filepath"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/storage/loader"
)

// Storage backends.
const (
	MemoryStorage = "memory"
	BadgerStorage = "badger"
	BoltStorage   = "bolt"
	RedisStorage  = "redis"
)

// Lookup caches.
const (
	NoCache   = "none"
	FastCache = "fast"
	FreeCache = "free"
)

type Config struct {
	// Log level of the server components. The process wide level is set by
	// the command line.
	Log string `flag:"-"`

	// HTTP API server bind address/port.
	HTTPAddr string `flag:"http-addr" desc:"Endpoint for the REST API (host:port)"`

	// Metrics bind address/port.
	MetricsAddr string `flag:"metrics-addr" desc:"Endpoint for the prometheus metrics (host:port)"`

	// Enable Pprof profiling server
	EnableProfiling bool `flag:"enable-profiling" desc:"Enable the pprof profiling server"`

	// Profiling server address/port
	ProfilingAddr string `flag:"profiling-addr" desc:"Endpoint for the pprof profiling server (host:port)"`

	// Storage backend of the records: memory, badger, bolt or redis.
	Storage string `flag:"storage" desc:"Records storage: memory, badger, bolt or redis"`

	// Path to storage directory of badger, or file of bolt.
	DBPath string `flag:"db-path" desc:"Path to the badger directory or the bolt file"`

	// Redis server address/port.
	RedisAddr string `flag:"redis-addr" desc:"Redis server (host:port)"`

	// Prefix of the redis keys.
	RedisPrefix string `flag:"redis-prefix" desc:"Prefix of the redis keys"`

	// Lookup cache in front of the store: none, fast or free.
	Cache string `flag:"cache" desc:"Lookup cache: none, fast or free"`

	// Cache size in bytes.
	CacheSize int `flag:"cache-size" desc:"Lookup cache size in bytes"`

	// File with the records to commit. Demo records are used if empty and
	// the store holds no record.
	RecordsPath string `flag:"records-path" desc:"Records file to load (json, csv or msgpack); a persistent store must be empty or hold the same records"`

	// Format of the records file. Guessed from the extension if empty.
	RecordsFormat string `flag:"records-format" desc:"Records file format: json, csv or msgpack"`

	// Hashing algorithm: sha256, blake2b or rfc6962.
	Hashing string `flag:"hashing" desc:"Hashing algorithm: sha256, blake2b or rfc6962"`

	// Tag of the leaf hashes of the tagged algorithms.
	LeafTag string `flag:"leaf-tag" desc:"Tag of the leaf hashes"`

	// Tag of the branch hashes of the tagged algorithms.
	BranchTag string `flag:"branch-tag" desc:"Tag of the branch hashes"`

	// Path to the private key file used to sign the root.
	PrivateKeyPath string `flag:"private-key-path" desc:"Path to the ed25519 private key used to sign the root"`

	// List of snapshot stores the signed root is published to.
	PublishURLs []string `flag:"publish-urls" desc:"Comma-delimited list of stores (http://host:port) to publish the signed root to"`

	// Enable TLS service
	EnableTLS bool `flag:"enable-tls" desc:"Serve the REST API over TLS"`

	// TLS server cerificate
	TLSCertPath string `flag:"tls-cert-path" desc:"Path to the TLS certificate"`

	// TLS server cerificate key
	TLSKeyPath string `flag:"tls-key-path" desc:"Path to the TLS certificate key"`
}

func DefaultConfig() *Config {
	currentDir := getCurrentDir()

	return &Config{
		Log:             "info",
		HTTPAddr:        "127.0.0.1:8080",
		MetricsAddr:     "127.0.0.1:8600",
		EnableProfiling: false,
		ProfilingAddr:   "127.0.0.1:6060",
		Storage:         MemoryStorage,
		DBPath:          filepath.Join(currentDir, "db"),
		RedisAddr:       "127.0.0.1:6379",
		RedisPrefix:     "reserves",
		Cache:           NoCache,
		CacheSize:       32 << 20,
		RecordsPath:     "",
		RecordsFormat:   "",
		Hashing:         hashing.SHA256,
		LeafTag:         hashing.DefaultLeafTag,
		BranchTag:       hashing.DefaultBranchTag,
		PrivateKeyPath:  "",
		PublishURLs:     []string{},
		EnableTLS:       false,
		TLSCertPath:     "",
		TLSKeyPath:      "",
	}
}

func (c *Config) recordsFormat() string {
	if c.RecordsFormat != "" {
		return c.RecordsFormat
	}
	return loader.FormatFromPath(c.RecordsPath)
}

func getCurrentDir() string {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	return exPath
}

// addrParts returns the parts of and address/port.
func addrParts(address string) (string, int, error) {
	_, _, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, err
	}

	addr, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return "", 0, err
	}

	return addr.IP.String(), addr.Port, nil
}
