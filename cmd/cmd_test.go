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
	"bytes"
	"io/ioutil"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/octago/sflags/gen/gpflag"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	vegeta "github.com/tsenart/vegeta/lib"

	"github.com/bbva/reserves/api/apihttp"
	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/ledger"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/server"
	"github.com/bbva/reserves/storage/bplus"
	"github.com/bbva/reserves/storage/loader"
	utilstorage "github.com/bbva/reserves/testutils/storage"
)

const demoRoot = "0xb1231de33da17c23cebd80c104b88198e0914b0463d0e14db163605b904a7ba3"

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs(append([]string{"--log", "off"}, args...))
	err := Root.Execute()
	return out.String(), err
}

func TestApplyConfig(t *testing.T) {
	v.Reset()
	defer v.Reset()
	initViper()

	os.Setenv("RESERVES_HTTP_ADDR", "0.0.0.0:9999")
	os.Setenv("RESERVES_STORAGE", "redis")
	os.Setenv("RESERVES_PUBLISH_URLS", "http://a:1,http://b:2")
	defer os.Unsetenv("RESERVES_HTTP_ADDR")
	defer os.Unsetenv("RESERVES_STORAGE")
	defer os.Unsetenv("RESERVES_PUBLISH_URLS")

	conf := server.DefaultConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, gpflag.ParseTo(conf, flags))
	require.NoError(t, flags.Parse([]string{"--storage", "bolt"}))

	require.NoError(t, applyConfig(flags))
	require.Equal(t, "0.0.0.0:9999", conf.HTTPAddr, "environment overrides defaults")
	require.Equal(t, server.BoltStorage, conf.Storage, "command line overrides environment")
	require.Equal(t, []string{"http://a:1", "http://b:2"}, conf.PublishURLs)
	require.Equal(t, server.DefaultConfig().MetricsAddr, conf.MetricsAddr)
}

func TestApplyConfigFile(t *testing.T) {
	dir, clean := utilstorage.TempDir(t, "cmd-config")
	defer clean()

	path := filepath.Join(dir, "reserves.yaml")
	content := "cache: free\ncache-size: 1024\nhashing: blake2b\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	v.Reset()
	defer v.Reset()
	initViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	conf := server.DefaultConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, gpflag.ParseTo(conf, flags))
	require.NoError(t, applyConfig(flags))

	require.Equal(t, server.FreeCache, conf.Cache)
	require.Equal(t, 1024, conf.CacheSize)
	require.Equal(t, hashing.BLAKE2B, conf.Hashing)
}

func TestGenerate(t *testing.T) {
	dir, clean := utilstorage.TempDir(t, "cmd-generate")
	defer clean()

	_, err := execute(t, "generate", "--path", dir, "keypair")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "reserves_ed25519"))
	require.FileExists(t, filepath.Join(dir, "reserves_ed25519.pub"))

	_, err = execute(t, "generate", "--path", dir, "records", "--count", "10", "--format", "csv", "--seed", "1")
	require.NoError(t, err)
	records, err := loader.ReadFile(filepath.Join(dir, "records.csv"), "")
	require.NoError(t, err)
	require.Len(t, records, 10)
	for i, r := range records {
		require.Equal(t, uint64(i+1), r.ID)
	}
}

func TestClient(t *testing.T) {
	store := bplus.NewBPlusTreeStore()
	require.NoError(t, store.Load(loader.DemoRecords()))
	l, err := ledger.New(store, hashing.NewDefaultAlgorithm(), log.New(&log.LoggerOptions{Level: log.Off}))
	require.NoError(t, err)
	srv := httptest.NewServer(apihttp.NewApiHttp(l, nil))
	defer srv.Close()

	out, err := execute(t, "client", "--endpoint", srv.URL, "root")
	require.NoError(t, err)
	require.Equal(t, demoRoot+"\n", out)

	out, err = execute(t, "client", "--endpoint", srv.URL, "verify", "3")
	require.NoError(t, err)
	require.Contains(t, out, "Record 3 with balance 3333")
	require.Contains(t, out, "Verify: OK")

	out, err = execute(t, "client", "--endpoint", srv.URL, "proof", "1")
	require.NoError(t, err)
	require.Contains(t, out, `"balance": 1111`)

	_, err = execute(t, "client", "--endpoint", srv.URL, "proof", "9")
	require.Error(t, err)

	_, err = execute(t, "client", "--endpoint", srv.URL, "proof", "abc")
	require.Error(t, err)

	_, err = execute(t, "client", "--endpoint", "localhost:8080", "root")
	require.Error(t, err)
}

func TestProofTargeter(t *testing.T) {
	targeter := proofTargeter("http://localhost:8080/", 3)

	var urls []string
	for i := 0; i < 4; i++ {
		var tgt vegeta.Target
		require.NoError(t, targeter(&tgt))
		require.Equal(t, "GET", tgt.Method)
		urls = append(urls, tgt.URL)
	}
	require.Equal(t, []string{
		"http://localhost:8080/proof/1",
		"http://localhost:8080/proof/2",
		"http://localhost:8080/proof/3",
		"http://localhost:8080/proof/1",
	}, urls)
	require.Error(t, targeter(nil))
}
