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

package merkle

import (
	"bytes"

	"github.com/bbva/reserves/crypto/hashing"
)

// Verify recomputes the root from a serialized value and its proof and
// reports whether it matches the claimed root. It does not need the tree.
func Verify(alg hashing.Algorithm, value []byte, proof Proof, root hashing.Digest) bool {
	hash := alg.Leaf(value)
	for _, item := range proof {
		switch item.Direction {
		case Left:
			hash = alg.Node(item.Digest, hash)
		case Right:
			hash = alg.Node(hash, item.Digest)
		default:
			return false
		}
	}
	return bytes.Equal(hash, root)
}
