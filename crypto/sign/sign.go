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

// Package sign implements funcionality to create signers, which are
// able to sign messages and verify signed messages.
package sign

import (
	"crypto/rand"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
)

// ErrUnusableKey is returned when a key pair fails to verify its own
// signature.
var ErrUnusableKey = errors.New("key is unusable")

// Signer is the interface implemented by any value that has Sign and Verify methods.
// Signers are able to sign messages and verify them using a signature.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	Verify(message, sig []byte) (bool, error)
}

// Verifier only checks signatures. Clients use it with a public key file.
type Verifier interface {
	Verify(message, sig []byte) (bool, error)
}

type Ed25519Signer struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewEd25519Signer creates an ed25519 signer from scratch.
func NewEd25519Signer() (*Ed25519Signer, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generating ed25519 key")
	}
	return &Ed25519Signer{privateKey, publicKey}, nil
}

// NewEd25519SignerFromFile creates an ed25519 signer using existing private and
// public keys, the latter stored next to the former with a .pub suffix.
// It also checks that keys are usable.
func NewEd25519SignerFromFile(privateKeyPath string) (*Ed25519Signer, error) {

	privateKeyBytes, err := ioutil.ReadFile(privateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}
	if len(privateKeyBytes) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrUnusableKey, "private key has %d bytes", len(privateKeyBytes))
	}

	publicKeyBytes, err := ioutil.ReadFile(privateKeyPath + ".pub")
	if err != nil {
		return nil, errors.Wrap(err, "reading public key")
	}
	if len(publicKeyBytes) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrUnusableKey, "public key has %d bytes", len(publicKeyBytes))
	}

	signer := &Ed25519Signer{
		privateKeyBytes,
		publicKeyBytes,
	}

	message := []byte("test message")
	sig, _ := signer.Sign(message)
	result, _ := signer.Verify(message, sig)
	if !result {
		return nil, ErrUnusableKey
	}

	return signer, nil
}

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.privateKey, message), nil
}

func (s *Ed25519Signer) Verify(message, sig []byte) (bool, error) {
	return ed25519.Verify(s.publicKey, message, sig), nil
}

// PublicKey returns the raw public key.
func (s *Ed25519Signer) PublicKey() []byte {
	return s.publicKey
}

type Ed25519Verifier struct {
	publicKey ed25519.PublicKey
}

// NewEd25519VerifierFromFile reads a raw ed25519 public key.
func NewEd25519VerifierFromFile(publicKeyPath string) (*Ed25519Verifier, error) {
	publicKeyBytes, err := ioutil.ReadFile(publicKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading public key")
	}
	if len(publicKeyBytes) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrUnusableKey, "public key has %d bytes", len(publicKeyBytes))
	}
	return &Ed25519Verifier{publicKeyBytes}, nil
}

func (v *Ed25519Verifier) Verify(message, sig []byte) (bool, error) {
	return ed25519.Verify(v.publicKey, message, sig), nil
}

// GenerateKeyFiles writes a new key pair into dir, named reserves_ed25519
// and reserves_ed25519.pub, and returns both paths.
func GenerateKeyFiles(dir string) (privPath, pubPath string, err error) {
	privPath = filepath.Join(dir, "reserves_ed25519")
	pubPath = privPath + ".pub"

	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", errors.Wrap(err, "generating ed25519 key")
	}

	if err := ioutil.WriteFile(privPath, privKey, 0600); err != nil {
		return "", "", errors.Wrap(err, "writing private key")
	}
	if err := ioutil.WriteFile(pubPath, pubKey, 0644); err != nil {
		return "", "", errors.Wrap(err, "writing public key")
	}

	return privPath, pubPath, nil
}
