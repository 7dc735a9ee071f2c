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

// Package protocol defines the information types required and expected when
// interacting with the reserves service.
package protocol

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-msgpack/codec"

	"github.com/bbva/reserves/crypto/hashing"
	"github.com/bbva/reserves/crypto/sign"
	"github.com/bbva/reserves/ledger"
	"github.com/bbva/reserves/log"
	"github.com/bbva/reserves/merkle"
	"github.com/bbva/reserves/util"
)

// HexDigest is a digest that travels as a "0x" prefixed lowercase hex
// JSON string.
type HexDigest hashing.Digest

// ParseHexDigest decodes a "0x" prefixed hex string.
func ParseHexDigest(s string) (HexDigest, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("digest %q lacks the 0x prefix", s)
	}
	d, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %v", s, err)
	}
	return HexDigest(d), nil
}

func (d HexDigest) String() string {
	return hashing.Digest(d).Hex()
}

func (d HexDigest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *HexDigest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHexDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ProofItem travels as a two element array: [direction, "0x<digest>"],
// direction being 0 for a left sibling and 1 for a right one.
type ProofItem struct {
	Direction merkle.Direction
	Digest    HexDigest
}

func (p ProofItem) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{uint8(p.Direction), p.Digest})
}

func (p *ProofItem) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("proof item must have 2 elements, got %d", len(pair))
	}

	var direction uint8
	if err := json.Unmarshal(pair[0], &direction); err != nil {
		return fmt.Errorf("invalid proof direction: %v", err)
	}
	if merkle.Direction(direction) != merkle.Left && merkle.Direction(direction) != merkle.Right {
		return fmt.Errorf("invalid proof direction %d", direction)
	}

	var digest HexDigest
	if err := json.Unmarshal(pair[1], &digest); err != nil {
		return err
	}

	p.Direction = merkle.Direction(direction)
	p.Digest = digest
	return nil
}

// ProofResponse is the public struct that apihttp.Proof handler returns.
type ProofResponse struct {
	Balance uint64      `json:"balance"`
	Proof   []ProofItem `json:"proof"`
}

// ToProofResponse translates a ledger proof to its wire form.
func ToProofResponse(p *ledger.Proof) *ProofResponse {
	items := make([]ProofItem, len(p.Proof))
	for i, item := range p.Proof {
		items[i] = ProofItem{Direction: item.Direction, Digest: HexDigest(item.Digest)}
	}
	return &ProofResponse{Balance: p.Record.Balance, Proof: items}
}

// ToMerkleProof translates the wire proof back to a merkle.Proof.
func (r *ProofResponse) ToMerkleProof() merkle.Proof {
	proof := make(merkle.Proof, len(r.Proof))
	for i, item := range r.Proof {
		proof[i] = merkle.ProofItem{Direction: item.Direction, Digest: hashing.Digest(item.Digest)}
	}
	return proof
}

// HealthCheckResponse contains the response from HealthCheckHandler.
type HealthCheckResponse struct {
	Version int    `json:"version"`
	Status  string `json:"status"`
}

// SignedRoot is a root commitment signed by the server key. It names the
// hashing algorithm and tags, so a root cannot be replayed as if it was
// built with other ones.
type SignedRoot struct {
	Root      hashing.Digest
	Leaves    uint64
	Hashing   string
	LeafTag   string
	BranchTag string
	Signature []byte
}

// SignRoot signs the commitment of a tree of the given number of leaves
// built with the algorithm params describe.
func SignRoot(signer sign.Signer, root hashing.Digest, leaves uint64, params hashing.Params) (*SignedRoot, error) {
	signed := &SignedRoot{
		Root:      root,
		Leaves:    leaves,
		Hashing:   params.Name,
		LeafTag:   params.LeafTag,
		BranchTag: params.BranchTag,
	}
	signature, err := signer.Sign(signed.Message())
	if err != nil {
		return nil, err
	}
	signed.Signature = signature
	return signed, nil
}

// Params returns the hashing params the root was signed with.
func (b *SignedRoot) Params() hashing.Params {
	return hashing.Params{Name: b.Hashing, LeafTag: b.LeafTag, BranchTag: b.BranchTag}
}

// Message returns the signed bytes:
//	root || uint64(leaves) || hashing || leaf tag || branch tag
// where every string is preceded by its uint64 length.
func (b *SignedRoot) Message() []byte {
	var buf bytes.Buffer
	buf.Write(b.Root)
	buf.Write(util.Uint64AsBytes(b.Leaves))
	for _, s := range []string{b.Hashing, b.LeafTag, b.BranchTag} {
		buf.Write(util.Uint64AsBytes(uint64(len(s))))
		buf.WriteString(s)
	}
	return buf.Bytes()
}

// Verify checks the signature against the given public key.
func (b *SignedRoot) Verify(verifier sign.Verifier) (bool, error) {
	return verifier.Verify(b.Message(), b.Signature)
}

func (b *SignedRoot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := codec.NewEncoder(&buf, &codec.MsgpackHandle{})
	if err := encoder.Encode(b); err != nil {
		log.Errorf("Failed to encode signed root into message: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *SignedRoot) Decode(msg []byte) error {
	reader := bytes.NewReader(msg)
	decoder := codec.NewDecoder(reader, &codec.MsgpackHandle{})
	if err := decoder.Decode(b); err != nil {
		log.Errorf("Failed to decode signed root: %v", err)
		return err
	}
	return nil
}
