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
	"errors"
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bbva/reserves/crypto/sign"
)

var errVerificationFailed = errors.New("verification failed")

var clientVerify *cobra.Command = &cobra.Command{
	Use:   "verify <id>",
	Short: "Fetch and verify the inclusion proof of a record",
	Long: `Fetch the root and the inclusion proof of a record and check them locally.
With a public key, the signed root is checked as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, conf, err := newHTTPClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if conf.PublicKeyPath != "" {
			path, err := homedir.Expand(conf.PublicKeyPath)
			if err != nil {
				return err
			}
			verifier, err := sign.NewEd25519VerifierFromFile(path)
			if err != nil {
				return err
			}
			signed, ok, err := c.VerifySignedRoot(verifier)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "Signed root %s: KO\n", signed.Root.Hex())
				return errVerificationFailed
			}
			fmt.Fprintf(out, "Signed root %s: OK\n", signed.Root.Hex())
		}

		proof, ok, err := c.RootAndVerify(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Record %d with balance %d, proof of %d items\n", id, proof.Balance, len(proof.Proof))
		if !ok {
			fmt.Fprintln(out, "Verify: KO")
			return errVerificationFailed
		}
		fmt.Fprintln(out, "Verify: OK")
		return nil
	},
}

func init() {
	clientCmd.AddCommand(clientVerify)
}
