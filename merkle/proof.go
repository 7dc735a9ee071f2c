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
	"fmt"

	"github.com/bbva/reserves/crypto/hashing"
)

// Direction tells on which side of the climbing node a sibling sits.
type Direction uint8

const (
	Left  Direction = 0
	Right Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ProofItem is one step of an inclusion proof.
type ProofItem struct {
	Direction Direction
	Digest    hashing.Digest
}

// Proof is the ordered list of siblings from a leaf up to, but excluding,
// the root.
type Proof []ProofItem

// Proof returns the inclusion proof of the leaf at the given index.
// It only reads the tree so it can be called from many goroutines.
func (t *Tree) Proof(index int) (Proof, error) {
	if index < 0 || index >= len(t.layers[0]) {
		return nil, ErrIndexOutOfRange
	}

	proof := make(Proof, 0, len(t.layers)-1)
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := index ^ 1

		direction := Left
		if sibling > index {
			direction = Right
		}

		// an odd tail was paired with itself
		digest := layer[index]
		if sibling < len(layer) {
			digest = layer[sibling]
		}

		proof = append(proof, ProofItem{Direction: direction, Digest: digest})
		index /= 2
	}

	return proof, nil
}

// Verify replays the proof from value and compares the result with root.
func (p Proof) Verify(alg hashing.Algorithm, value []byte, root hashing.Digest) bool {
	return Verify(alg, value, p, root)
}
