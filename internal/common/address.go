// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Ergo's address-type nibbles (the low 4 bits of an address's prefix
// byte); the high bits hold the network prefix (mainnet = 0x00,
// testnet = 0x10).
const (
	addressTypeP2PK = 1
	addressTypeP2S  = 3
)

// EncodeP2SAddress derives the Base58Check Ergo P2S address for an
// ErgoTree script, generalizing the teacher's Cardano script-address
// derivation (cmd/mk-script-address: blake2b digest of the script,
// network-prefixed, rendered as a chain address string) to Ergo's
// address format: a prefix byte combining the network id and address
// type, the raw ErgoTree bytes, and a 4-byte Blake2b256 checksum, all
// Base58-encoded.
func EncodeP2SAddress(tree ErgoTree, networkPrefix byte) string {
	prefixByte := networkPrefix + addressTypeP2S
	body := append([]byte{prefixByte}, tree...)
	sum := blake2b.Sum256(body)
	full := append(body, sum[:4]...)
	return base58.Encode(full)
}

// DecodeP2PKAddress recovers the raw 33-byte compressed public key
// from a P2PK Ergo address, the inverse operation an operator's own
// oracle/ballot box registers need populated with (spec.md §3's R4
// "operator's public key"): unlike a P2S address, a P2PK address's
// body is the bare group element rather than a serialized ErgoTree.
func DecodeP2PKAddress(address string) ([]byte, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("address: invalid base58: %w", err)
	}
	if len(raw) < 5 {
		return nil, fmt.Errorf("address: too short to contain a checksum")
	}
	body, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	sum := blake2b.Sum256(body)
	if !bytes.Equal(sum[:4], checksum) {
		return nil, fmt.Errorf("address: checksum mismatch")
	}
	if body[0]&0x0F != addressTypeP2PK {
		return nil, fmt.Errorf("address: not a P2PK address")
	}
	return body[1:], nil
}
