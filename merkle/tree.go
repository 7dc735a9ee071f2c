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

// Package merkle builds static binary Merkle trees over an ordered list of
// values and generates and verifies inclusion proofs against their roots.
//
// A tree is stored as an arena of layers: layer 0 holds the leaf hashes and
// every following layer holds ceil(n/2) hashes of the one below, the last
// layer containing only the root. A layer with an odd number of entries
// hashes its last entry with a copy of itself.
package merkle

import (
	"github.com/pkg/errors"

	"github.com/bbva/reserves/crypto/hashing"
)

var (
	// ErrEmptyRecordSet is returned when building a tree without values.
	ErrEmptyRecordSet = errors.New("merkle: cannot build a tree without values")

	// ErrIndexOutOfRange is returned when asking for the proof of a leaf
	// the tree does not have.
	ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")
)

// Tree is an immutable Merkle tree. It is safe for concurrent use once built.
type Tree struct {
	alg    hashing.Algorithm
	layers [][]hashing.Digest
}

// Build hashes every value into a leaf, in input order, and reduces the
// leaves layer by layer up to the root.
func Build(alg hashing.Algorithm, values [][]byte) (*Tree, error) {
	if len(values) == 0 {
		return nil, ErrEmptyRecordSet
	}

	leaves := make([]hashing.Digest, len(values))
	for i, value := range values {
		leaves[i] = alg.Leaf(value)
	}

	layers := [][]hashing.Digest{leaves}
	for current := leaves; len(current) > 1; {
		next := make([]hashing.Digest, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, alg.Node(current[i], current[i+1]))
			} else {
				next = append(next, alg.Node(current[i], current[i]))
			}
		}
		layers = append(layers, next)
		current = next
	}

	return &Tree{alg: alg, layers: layers}, nil
}

// Root returns the single digest of the last layer.
func (t *Tree) Root() hashing.Digest {
	return t.layers[len(t.layers)-1][0]
}

// Height returns the number of layers, leaves and root included.
func (t *Tree) Height() int {
	return len(t.layers)
}

// Leaves returns the number of leaves.
func (t *Tree) Leaves() int {
	return len(t.layers[0])
}

// Layer returns a copy of the digests stored at the given height, 0 being
// the leaves. It returns nil for a layer the tree does not have.
func (t *Tree) Layer(height int) []hashing.Digest {
	if height < 0 || height >= len(t.layers) {
		return nil
	}
	layer := make([]hashing.Digest, len(t.layers[height]))
	copy(layer, t.layers[height])
	return layer
}

// Algorithm returns the hashing algorithm the tree was built with.
func (t *Tree) Algorithm() hashing.Algorithm {
	return t.alg
}
