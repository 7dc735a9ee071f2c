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
	"context"
	"fmt"

	"github.com/octago/sflags/gen/gpflag"
	"github.com/spf13/cobra"

	"github.com/bbva/reserves/client"
)

var clientCmd *cobra.Command = &cobra.Command{
	Use:   "client",
	Short: "Client mode for reserves",
	Long: `Client process to query the root and the inclusion proofs of a reserves
server, and to verify them locally.`,
	TraverseChildren: true,
}

var clientCtx context.Context = configClient()

func init() {
	Root.AddCommand(clientCmd)
}

func configClient() context.Context {

	conf := client.DefaultConfig()

	err := gpflag.ParseTo(conf, clientCmd.PersistentFlags())
	if err != nil {
		panic(fmt.Sprintf("Unable to parse client config: %v", err))
	}
	return context.WithValue(Ctx, k("client.config"), conf)
}

func newHTTPClient() (*client.HTTPClient, *client.Config, error) {
	conf := clientCtx.Value(k("client.config")).(*client.Config)
	if err := validateEndpoints(conf.Endpoint); err != nil {
		return nil, nil, err
	}
	c, err := client.NewHTTPClientFromConfig(conf)
	return c, conf, err
}
