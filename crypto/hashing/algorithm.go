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

package hashing

import (
	"fmt"
	"strings"
)

const (
	// DefaultLeafTag is the tag used to hash serialized records.
	DefaultLeafTag = "ProofOfReserve_Leaf"

	// DefaultBranchTag is the tag used to hash pairs of child digests.
	DefaultBranchTag = "ProofOfReserve_Branch"
)

// Names accepted by NewAlgorithm.
const (
	SHA256  = "sha256"
	BLAKE2B = "blake2b"
	RFC6962 = "rfc6962"
)

// Algorithm is the hashing capability a Merkle tree is built with. Leaf
// commits a serialized value and Node commits an ordered pair of children.
// Implementations must be deterministic and safe for concurrent use.
type Algorithm interface {
	Leaf(value []byte) Digest
	Node(left, right Digest) Digest
	// Size returns the digest size in bytes.
	Size() int
}

// TaggedAlgorithm implements BIP-340 style tagged hashing:
//	tagged(tag, data) = H(H(tag) || H(tag) || data)
// Leaves use the leaf tag and nodes the branch tag over left || right.
type TaggedAlgorithm struct {
	hasher    Hasher
	leafTag   Digest
	branchTag Digest
}

// NewTaggedAlgorithm precomputes the tag digests with the given hasher.
func NewTaggedAlgorithm(hasher Hasher, leafTag, branchTag []byte) *TaggedAlgorithm {
	return &TaggedAlgorithm{
		hasher:    hasher,
		leafTag:   hasher.Do(leafTag),
		branchTag: hasher.Do(branchTag),
	}
}

func (a TaggedAlgorithm) Leaf(value []byte) Digest {
	return a.hasher.Do(a.leafTag, a.leafTag, value)
}

func (a TaggedAlgorithm) Node(left, right Digest) Digest {
	return a.hasher.Do(a.branchTag, a.branchTag, left, right)
}

func (a TaggedAlgorithm) Size() int {
	return int(a.hasher.Len() / 8)
}

// PrefixedAlgorithm implements the RFC 6962 domain separation:
//	leaf = H(0x00 || data), node = H(0x01 || left || right)
type PrefixedAlgorithm struct {
	hasher Hasher
}

var (
	leafPrefix = []byte{0x00}
	nodePrefix = []byte{0x01}
)

func NewPrefixedAlgorithm(hasher Hasher) *PrefixedAlgorithm {
	return &PrefixedAlgorithm{hasher: hasher}
}

func (a PrefixedAlgorithm) Leaf(value []byte) Digest {
	return a.hasher.Do(leafPrefix, value)
}

func (a PrefixedAlgorithm) Node(left, right Digest) Digest {
	return a.hasher.Do(nodePrefix, left, right)
}

func (a PrefixedAlgorithm) Size() int {
	return int(a.hasher.Len() / 8)
}

// Params identifies an algorithm the way NewAlgorithm resolves it, so two
// equal Params always build the same trees.
type Params struct {
	Name      string
	LeafTag   string
	BranchTag string
}

// NewParams normalizes an algorithm name, an empty name meaning sha256.
// The tags are dropped for rfc6962, which does not use them.
func NewParams(name, leafTag, branchTag string) (Params, error) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case SHA256, "":
		return Params{Name: SHA256, LeafTag: leafTag, BranchTag: branchTag}, nil
	case BLAKE2B:
		return Params{Name: BLAKE2B, LeafTag: leafTag, BranchTag: branchTag}, nil
	case RFC6962:
		return Params{Name: RFC6962}, nil
	default:
		return Params{}, fmt.Errorf("unknown hashing algorithm %q", name)
	}
}

// Algorithm builds the algorithm described by normalized params.
func (p Params) Algorithm() Algorithm {
	switch p.Name {
	case BLAKE2B:
		return NewTaggedAlgorithm(NewBlake2bHasher(), []byte(p.LeafTag), []byte(p.BranchTag))
	case RFC6962:
		return NewPrefixedAlgorithm(NewSha256Hasher())
	default:
		return NewTaggedAlgorithm(NewSha256Hasher(), []byte(p.LeafTag), []byte(p.BranchTag))
	}
}

// NewAlgorithm resolves an algorithm by name. Tags are ignored by rfc6962.
func NewAlgorithm(name, leafTag, branchTag string) (Algorithm, error) {
	params, err := NewParams(name, leafTag, branchTag)
	if err != nil {
		return nil, err
	}
	return params.Algorithm(), nil
}

// NewDefaultAlgorithm returns tagged SHA-256 with the default tags.
func NewDefaultAlgorithm() Algorithm {
	return NewTaggedAlgorithm(NewSha256Hasher(), []byte(DefaultLeafTag), []byte(DefaultBranchTag))
}
