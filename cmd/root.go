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

// Package cmd implements the command line commands of reserves.
package cmd

import (
	"context"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"

	"github.com/bbva/reserves/log"
)

// Context key type to be used when adding values to context
// as per documentation:
//	https://golang.org/pkg/context/#example_WithValue
type k string

// EnvPrefix is the prefix of the environment variables read as flags,
// e.g. RESERVES_HTTP_ADDR for --http-addr.
const EnvPrefix = "reserves"

var Root *cobra.Command = &cobra.Command{
	Use:   "reserves",
	Short: "Proof of reserves system",
	Long: `Reserves commits a snapshot of (id, balance) records into a Merkle tree and
serves inclusion proofs of every record against the published root.`,
	// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
	SilenceUsage:      true,
	PersistentPreRunE: rootPreRun,
}

var Ctx context.Context = context.Background()

var rootCtx = &cmdContext{}

type cmdContext struct {
	configFile, logLevel string
}

func init() {
	f := Root.PersistentFlags()
	f.StringVar(&rootCtx.configFile, "config", "", "Config file (yaml, json or toml) with flag values keyed by flag name")
	f.StringVar(&rootCtx.logLevel, "log", "info", "Set log level to off, error, warn, info, debug or trace")
}

// rootPreRun reads the config file and the environment and sets the default
// logger. Flags given on the command line take precedence over both.
func rootPreRun(cmd *cobra.Command, args []string) error {
	initViper()

	if rootCtx.configFile != "" {
		path, err := homedir.Expand(rootCtx.configFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", path)
		}
	}

	if err := applyConfig(cmd.Flags()); err != nil {
		return err
	}

	setLogger(rootCtx.logLevel)
	return nil
}

func initViper() {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// applyConfig sets every flag not given on the command line from the config
// file or the environment.
func applyConfig(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		value := v.GetString(f.Name)
		if strings.HasSuffix(f.Value.Type(), "Slice") {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		}
		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = errors.Wrapf(setErr, "invalid value %q for %s", value, f.Name)
		}
	})
	return err
}

func setLogger(level string) {
	lvl := log.LevelFromString(level)
	log.SetDefault(log.New(&log.LoggerOptions{
		Name:            "reserves",
		Level:           lvl,
		IncludeLocation: lvl == log.Debug || lvl == log.Trace,
	}))
}

func markStringRequired(value, name string) {
	if value == "" {
		log.Fatalf("Argument `%s` is required", name)
	}
}
