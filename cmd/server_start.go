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
	"github.com/imdario/mergo"
	"github.com/spf13/cobra"

	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/server"
	"github.com/bbva/reserves/util"
)

var serverStart *cobra.Command = &cobra.Command{
	Use:   "start",
	Short: "Starts the reserves service",
	RunE:  runServerStart,
}

func init() {
	serverCmd.AddCommand(serverStart)
}

func runServerStart(cmd *cobra.Command, args []string) error {
	conf := serverCtx.Value(k("server.config")).(*server.Config)

	// empty values from the config file fall back to the defaults
	if err := mergo.Merge(conf, server.DefaultConfig()); err != nil {
		return err
	}
	conf.Log = rootCtx.logLevel

	if err := validateListenAddrs(conf.HTTPAddr, conf.MetricsAddr); err != nil {
		return err
	}
	if err := validateEndpoints(conf.PublishURLs...); err != nil {
		return err
	}

	log.Debugf("Server config: %+v", conf)
	srv, err := server.NewServer(conf)
	if err != nil {
		log.Fatalf("Can't start reserves server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Can't start reserves server: %v", err)
	}

	util.AwaitTermSignal(func() {
		if err := srv.Stop(); err != nil {
			log.Errorf("Error stopping reserves server: %v", err)
		}
	})

	log.Debugf("Stopping server, about to exit...")
	return nil
}
