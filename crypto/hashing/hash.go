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

// Package hashing implements different hashers and the hash algorithms
// used to commit records into a Merkle tree.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Digest is the output of a hash function.
type Digest []byte

// Hex returns the lowercase hexadecimal representation prefixed with 0x.
func (d Digest) Hex() string {
	return "0x" + hex.EncodeToString(d)
}

func (d Digest) String() string {
	return d.Hex()
}

// Hasher is a raw hash primitive.
type Hasher interface {
	Salted([]byte, ...[]byte) Digest
	Do(...[]byte) Digest
	// Len returns the size of the resulting hash in bits.
	Len() uint16
}

// XorHasher implements the Hasher interface and computes a 8 bit hash
// function. Trees built with it can be checked by hand in tests.
type XorHasher struct{}

func NewXorHasher() Hasher {
	return new(XorHasher)
}

// Salted function adds a seed to the input data before hashing it.
func (x XorHasher) Salted(salt []byte, data ...[]byte) Digest {
	data = append(data, salt)
	return x.Do(data...)
}

// Do function hashes input data using the XOR hash function.
func (x XorHasher) Do(data ...[]byte) Digest {
	var result byte
	for _, elem := range data {
		var sum byte
		for _, b := range elem {
			sum = sum ^ b
		}
		result = result ^ sum
	}
	return []byte{result}
}

// Len function returns the size of the resulting hash.
func (x XorHasher) Len() uint16 { return uint16(8) }

// KeyHasher wraps a standard library hash constructor. A fresh hash.Hash is
// created on every call so a KeyHasher can be shared between goroutines.
type KeyHasher struct {
	newHash func() hash.Hash
	size    uint16
}

// NewSha256Hasher implements the Hasher interface and computes a 256 bit hash
// function using the SHA256 hashing algorithm.
func NewSha256Hasher() Hasher {
	return &KeyHasher{newHash: sha256.New, size: 256}
}

// NewBlake2bHasher implements the Hasher interface and computes a 256 bit hash
// function using the Blake2 hashing algorithm.
func NewBlake2bHasher() Hasher {
	return &KeyHasher{
		newHash: func() hash.Hash {
			h, err := blake2b.New256(nil)
			if err != nil {
				panic(fmt.Sprintf("Error creating BLAKE2b hasher %v", err))
			}
			return h
		},
		size: 256,
	}
}

// Salted function adds a seed to the input data before hashing it.
func (s *KeyHasher) Salted(salt []byte, data ...[]byte) Digest {
	data = append(data, salt)
	return s.Do(data...)
}

// Do function hashes input data using the hashing function given by the KeyHasher.
func (s *KeyHasher) Do(data ...[]byte) Digest {
	h := s.newHash()
	for i := 0; i < len(data); i++ {
		_, _ = h.Write(data[i])
	}
	return h.Sum(nil)
}

// Len function returns the size of the resulting hash.
func (s KeyHasher) Len() uint16 { return s.size }
