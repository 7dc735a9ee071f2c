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

	"github.com/spf13/cobra"
)

var clientRoot *cobra.Command = &cobra.Command{
	Use:   "root",
	Short: "Query the root digest of the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := newHTTPClient()
		if err != nil {
			return err
		}
		root, err := c.Root()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), root.Hex())
		return nil
	},
}

func init() {
	clientCmd.AddCommand(clientRoot)
}
