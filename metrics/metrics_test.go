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

package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterDefaultMetrics(t *testing.T) {
	srv := NewServer("127.0.0.1:0")
	srv.Register(DefaultMetrics...)

	ReservesLedgerLeaves.Set(8)

	families, err := srv.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["reserves_ledger_leaves"])
	require.True(t, names["reserves_instances_count"])

	// collectors can only be registered once per registry
	require.Panics(t, func() { srv.Register(ReservesLedgerLeaves) })
}
