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

package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/sign"
	"github.com/bbva/reserves/ledger"
	"github.com/bbva/reserves/merkle"
	"github.com/bbva/reserves/storage"
)

func TestProofResponseWireFormat(t *testing.T) {
	p := &ledger.Proof{
		Record: storage.Record{ID: 1, Balance: 1111},
		Proof: merkle.Proof{
			{Direction: merkle.Right, Digest: hashing.Digest{0xab, 0x01}},
			{Direction: merkle.Left, Digest: hashing.Digest{0x00, 0xff}},
		},
	}

	data, err := json.Marshal(ToProofResponse(p))
	require.NoError(t, err)
	require.JSONEq(t, `{"balance":1111,"proof":[[1,"0xab01"],[0,"0x00ff"]]}`, string(data))

	var decoded ProofResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, uint64(1111), decoded.Balance)
	require.Equal(t, p.Proof, decoded.ToMerkleProof())
}

func TestEmptyProofIsAnArray(t *testing.T) {
	p := &ledger.Proof{Record: storage.Record{ID: 1, Balance: 5}, Proof: merkle.Proof{}}
	data, err := json.Marshal(ToProofResponse(p))
	require.NoError(t, err)
	require.JSONEq(t, `{"balance":5,"proof":[]}`, string(data))
}

func TestProofItemUnmarshalErrors(t *testing.T) {
	testCases := []string{
		`[1]`,
		`[1,"0xab","extra"]`,
		`[2,"0xab"]`,
		`["1","0xab"]`,
		`[0,"ab"]`,
		`[0,"0xzz"]`,
		`{"direction":0}`,
	}

	for _, c := range testCases {
		var item ProofItem
		require.Errorf(t, json.Unmarshal([]byte(c), &item), "Expected error decoding %s", c)
	}
}

func TestHexDigest(t *testing.T) {
	data, err := json.Marshal(HexDigest{0xb1, 0x23})
	require.NoError(t, err)
	require.Equal(t, `"0xb123"`, string(data))

	var d HexDigest
	require.NoError(t, json.Unmarshal([]byte(`"0xB123"`), &d))
	require.Equal(t, HexDigest{0xb1, 0x23}, d)

	_, err = ParseHexDigest("b123")
	require.Error(t, err)
}

func TestSignedRootEncoding(t *testing.T) {
	signed := &SignedRoot{
		Root:      hashing.Digest{0x01, 0x02, 0x03},
		Leaves:    8,
		Hashing:   hashing.SHA256,
		Signature: []byte{0xaa, 0xbb},
	}

	msg, err := signed.Encode()
	require.NoError(t, err)

	var decoded SignedRoot
	require.NoError(t, decoded.Decode(msg))
	require.Equal(t, signed, &decoded)

	require.Error(t, decoded.Decode([]byte{0xc1}))
}

func TestSignRoot(t *testing.T) {
	signer, err := sign.NewEd25519Signer()
	require.NoError(t, err)

	params, err := hashing.NewParams("", hashing.DefaultLeafTag, hashing.DefaultBranchTag)
	require.NoError(t, err)

	root := hashing.Digest{0x01, 0x02, 0x03}
	signed, err := SignRoot(signer, root, 8, params)
	require.NoError(t, err)
	require.NotEmpty(t, signed.Signature)
	require.Equal(t, hashing.SHA256, signed.Hashing)
	require.Equal(t, params, signed.Params())

	ok, err := signed.Verify(signer)
	require.NoError(t, err)
	require.True(t, ok)

	testCases := []struct {
		name   string
		tamper func(*SignedRoot)
	}{
		{"leaves", func(s *SignedRoot) { s.Leaves = 9 }},
		{"hashing", func(s *SignedRoot) { s.Hashing = hashing.BLAKE2B }},
		{"leaf tag", func(s *SignedRoot) { s.LeafTag = "Other_Leaf" }},
		{"branch tag", func(s *SignedRoot) { s.BranchTag = "Other_Branch" }},
		{"tag boundary", func(s *SignedRoot) {
			s.LeafTag = s.LeafTag + s.BranchTag[:1]
			s.BranchTag = s.BranchTag[1:]
		}},
	}

	for _, c := range testCases {
		tampered := *signed
		c.tamper(&tampered)
		ok, _ = tampered.Verify(signer)
		require.Falsef(t, ok, "The %s is part of the signed message", c.name)
	}
}
