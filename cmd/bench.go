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
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/imdario/mergo"
	"github.com/octago/sflags/gen/gpflag"
	"github.com/spf13/cobra"
	vegeta "github.com/tsenart/vegeta/lib"

	"github.com/bbva/reserves/log"
)

type BenchConfig struct {
	// Endpoint of the reserves server.
	Endpoint string `desc:"Reserves server endpoint http://ip:port"`

	// Insecure disables the verification of the server certificate.
	Insecure bool `desc:"Allow self-signed TLS certificates"`

	// Rate of requests per second.
	Rate int `desc:"Requests per second"`

	// Duration of the attack.
	Duration time.Duration `desc:"Duration of the attack"`

	// Timeout of every request.
	Timeout time.Duration `desc:"Timeout of every request"`

	// Workers is the initial number of attack goroutines.
	Workers uint64 `desc:"Initial number of workers"`

	// Connections is the maximum number of idle connections per host.
	Connections int `desc:"Max open idle connections per host"`

	// MaxID is the highest id queried; ids 1..MaxID are queried in turn.
	MaxID uint64 `flag:"max-id" desc:"Proofs of ids 1..max-id are requested in turn"`
}

func BenchDefaultConfig() *BenchConfig {
	return &BenchConfig{
		Endpoint:    "http://127.0.0.1:8080",
		Rate:        100,
		Duration:    10 * time.Second,
		Timeout:     vegeta.DefaultTimeout,
		Workers:     vegeta.DefaultWorkers,
		Connections: vegeta.DefaultConnections,
		MaxID:       8,
	}
}

var benchConf = BenchDefaultConfig()

var benchCmd *cobra.Command = &cobra.Command{
	Use:   "bench",
	Short: "Load test the proof endpoint of a reserves server",
	RunE:  runBench,
}

func init() {
	if err := gpflag.ParseTo(benchConf, benchCmd.Flags()); err != nil {
		panic(fmt.Sprintf("Unable to parse bench config: %v", err))
	}
	Root.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	conf := *benchConf
	if err := mergo.Merge(&conf, BenchDefaultConfig()); err != nil {
		return err
	}
	markStringRequired(conf.Endpoint, "endpoint")
	if err := validateEndpoints(conf.Endpoint); err != nil {
		return err
	}

	log.Infof("Attacking %s/proof/{1..%d} at %d req/s for %s", conf.Endpoint, conf.MaxID, conf.Rate, conf.Duration)
	metrics := attack(conf, proofTargeter(conf.Endpoint, conf.MaxID))
	return vegeta.NewTextReporter(metrics).Report(cmd.OutOrStdout())
}

// attack runs the attack until its duration elapses or an interrupt is
// received.
func attack(conf BenchConfig, targeter vegeta.Targeter) *vegeta.Metrics {
	atk := vegeta.NewAttacker(
		vegeta.Connections(conf.Connections),
		vegeta.Workers(conf.Workers),
		vegeta.Timeout(conf.Timeout),
		vegeta.TLSConfig(&tls.Config{InsecureSkipVerify: conf.Insecure}),
	)
	rate := vegeta.Rate{Freq: conf.Rate, Per: time.Second}
	res := atk.Attack(targeter, rate, conf.Duration, "proof")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	var metrics vegeta.Metrics
	for {
		select {
		case <-sig:
			atk.Stop()
		case r, ok := <-res:
			if !ok {
				metrics.Close()
				return &metrics
			}
			metrics.Add(r)
		}
	}
}

func proofTargeter(endpoint string, maxID uint64) vegeta.Targeter {
	var mu sync.Mutex
	var next uint64
	endpoint = strings.TrimSuffix(endpoint, "/")
	if maxID == 0 {
		maxID = 1
	}

	return func(tgt *vegeta.Target) (err error) {
		mu.Lock()
		defer mu.Unlock()

		if tgt == nil {
			return vegeta.ErrNilTarget
		}

		next = next%maxID + 1
		tgt.Method = "GET"
		tgt.URL = fmt.Sprintf("%s/proof/%d", endpoint, next)

		return nil
	}
}
