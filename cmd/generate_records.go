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
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bbva/reserves/storage"
	"github.com/bbva/reserves/storage/loader"
)

var recordsCtx = struct {
	count      uint64
	maxBalance uint64
	format     string
	seed       int64
}{}

var generateRecords *cobra.Command = &cobra.Command{
	Use:   "records",
	Short: "Generate a records file with ids 1..n and random balances",
	RunE:  runGenerateRecords,
}

func init() {
	f := generateRecords.Flags()
	f.Uint64Var(&recordsCtx.count, "count", 1000, "Number of records")
	f.Uint64Var(&recordsCtx.maxBalance, "max-balance", 1000000, "Upper bound of the random balances")
	f.StringVar(&recordsCtx.format, "format", loader.JSON, "Output format: json, csv or msgpack")
	f.Int64Var(&recordsCtx.seed, "seed", 0, "Random seed, the current time if 0")
	generateCmd.AddCommand(generateRecords)
}

func runGenerateRecords(cmd *cobra.Command, args []string) error {
	conf := generateCtx.Value(k("generate.config")).(*GenerateConfig)

	dir, err := homedir.Expand(conf.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	seed := recordsCtx.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	max := recordsCtx.maxBalance
	if max == 0 {
		max = 1
	} else if max > math.MaxInt64 {
		max = math.MaxInt64
	}
	records := make([]storage.Record, recordsCtx.count)
	for i := range records {
		records[i] = storage.Record{ID: uint64(i + 1), Balance: uint64(rnd.Int63n(int64(max)))}
	}

	path := filepath.Join(dir, "records."+recordsCtx.format)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := loader.Write(f, recordsCtx.format, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d records generated at:\n%v\n", len(records), path)
	return nil
}
