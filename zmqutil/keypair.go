// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/ledgerclient/fault"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
)

// NewKeyPair - create a random CURVE keypair
func NewKeyPair() ([]byte, []byte, error) {
	var private [privateKeySize]byte
	if _, err := rand.Read(private[:]); nil != err {
		return nil, nil, err
	}
	return publicFromPrivate(private), private[:], nil
}

func publicFromPrivate(private [privateKeySize]byte) []byte {
	var public [publicKeySize]byte
	curve25519.ScalarBaseMult(&public, &private)
	return public[:]
}

// PublicFromPrivate - derive the CURVE public key of a private key
func PublicFromPrivate(privateKey []byte) ([]byte, error) {
	if len(privateKey) != privateKeySize {
		return nil, fault.ErrInvalidPrivateKey
	}
	var private [privateKeySize]byte
	copy(private[:], privateKey)
	return publicFromPrivate(private), nil
}

// ServerKeyFromVerkey - the CURVE public key of a node
//
// a node's ed25519 verification key is mapped to the equivalent
// Montgomery form
func ServerKeyFromVerkey(verkey []byte) ([]byte, error) {
	if len(verkey) != publicKeySize {
		return nil, fault.ErrInvalidVerkey
	}
	p, err := new(edwards25519.Point).SetBytes(verkey)
	if nil != err {
		return nil, fault.ErrInvalidVerkey
	}
	return p.BytesMontgomery(), nil
}

// ServerPrivateFromSigningKey - the CURVE private key matching
// ServerKeyFromVerkey for the same ed25519 keypair
func ServerPrivateFromSigningKey(signingKey ed25519.PrivateKey) ([]byte, error) {
	if len(signingKey) != ed25519.PrivateKeySize {
		return nil, fault.ErrInvalidPrivateKey
	}
	h := sha512.Sum512(signingKey.Seed())
	private := make([]byte, privateKeySize)
	copy(private, h[:privateKeySize])
	private[0] &= 248
	private[31] &= 127
	private[31] |= 64
	return private, nil
}

// MakeKeyPair - create a new public/private keypair and write them
// to separate files
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if fileExists(publicKeyFileName) || fileExists(privateKeyFileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	publicKey, privateKey, err := NewKeyPair()
	if nil != err {
		return err
	}

	public := taggedPublic + hex.EncodeToString(publicKey) + "\n"
	private := taggedPrivate + hex.EncodeToString(privateKey) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(public), 0666); err != nil {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, []byte(private), 0600); err != nil {
		os.Remove(publicKeyFileName)
		return err
	}

	return nil
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// ReadPublicKey - read a public key from a string returning it as a
// 32 byte string
func ReadPublicKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if err != nil {
		return []byte{}, err
	}
	if private {
		return []byte{}, fault.ErrInvalidKeyFile
	}
	return data, err
}

// ReadPrivateKey - read a private key from a string returning it as
// a 32 byte string
func ReadPrivateKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if err != nil {
		return []byte{}, err
	}
	if !private {
		return []byte{}, fault.ErrInvalidKeyFile
	}
	return data, err
}

// ParseKey - decode a tagged hex key, reporting if it is private
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)
	if strings.HasPrefix(s, taggedPrivate) {
		h, err := hex.DecodeString(s[len(taggedPrivate):])
		if err != nil {
			return []byte{}, false, fault.ErrInvalidKeyFile
		}
		if len(h) != privateKeySize {
			return []byte{}, false, fault.ErrInvalidKeyFile
		}
		return h, true, nil
	} else if strings.HasPrefix(s, taggedPublic) {
		h, err := hex.DecodeString(s[len(taggedPublic):])
		if err != nil {
			return []byte{}, false, fault.ErrInvalidKeyFile
		}
		if len(h) != publicKeySize {
			return []byte{}, false, fault.ErrInvalidKeyFile
		}
		return h, false, nil
	}

	return []byte{}, false, fault.ErrInvalidKeyFile
}
