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
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bbva/reserves/crypto/sign"
)

var generateKeypair *cobra.Command = &cobra.Command{
	Use:   "keypair",
	Short: "Generate the ed25519 key pair that signs the root",
	RunE:  runGenerateKeypair,
}

func init() {
	generateCmd.AddCommand(generateKeypair)
}

func runGenerateKeypair(cmd *cobra.Command, args []string) error {
	conf := generateCtx.Value(k("generate.config")).(*GenerateConfig)

	path, err := homedir.Expand(conf.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}

	priv, pub, err := sign.GenerateKeyFiles(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "New ed25519 key pair generated at:\n%v\n%v\n", priv, pub)
	return nil
}
