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

// Package common holds small value types shared across the oracle-pool
// core: token identifiers, token amounts, and the ErgoTree byte-string
// wrapper boxes are matched against.
package common

import (
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// TokenId identifies an Ergo token by the 32-byte id of the box that
// minted it. The zero value identifies the chain's native ERG/nanoERG
// "token" for the purposes of TokenAmount bookkeeping.
type TokenId struct {
	cbor.StructAsArray
	Bytes []byte
}

// UnmarshalCBOR decodes CBOR data into a TokenId
func (t *TokenId) UnmarshalCBOR(cborData []byte) error {
	var tmpConstr cbor.Constructor
	if _, err := cbor.Decode(cborData, &tmpConstr); err != nil {
		return err
	}
	return cbor.DecodeGeneric(
		tmpConstr.FieldsCbor(),
		t,
	)
}

// MarshalCBOR encodes a TokenId to CBOR
func (t *TokenId) MarshalCBOR() ([]byte, error) {
	tmpConstr := cbor.NewConstructor(
		0,
		cbor.IndefLengthList{
			t.Bytes,
		},
	)
	return cbor.Encode(&tmpConstr)
}

// String returns the hex encoding of the token id
func (t TokenId) String() string {
	return hex.EncodeToString(t.Bytes)
}

// IsNanoErg returns true if this TokenId represents native nanoERG
// rather than a minted token
func (t TokenId) IsNanoErg() bool {
	return len(t.Bytes) == 0
}

// NewTokenId creates a TokenId from a hex-encoded 32-byte token id
func NewTokenId(idHex string) (TokenId, error) {
	b, err := hex.DecodeString(idHex)
	if err != nil {
		return TokenId{}, fmt.Errorf("invalid token id hex: %w", err)
	}
	if len(b) != 32 {
		return TokenId{}, fmt.Errorf(
			"invalid token id: expected 32 bytes, got %d",
			len(b),
		)
	}
	return TokenId{Bytes: b}, nil
}

// NanoErg returns the sentinel TokenId representing native nanoERG
func NanoErg() TokenId {
	return TokenId{}
}

// Equal returns true if both TokenIds identify the same token
func (t TokenId) Equal(other TokenId) bool {
	return t.String() == other.String()
}

// TokenAmount represents a quantity of a specific token carried by a box
type TokenAmount struct {
	cbor.StructAsArray
	Id     TokenId
	Amount uint64
}

// UnmarshalCBOR decodes CBOR data into a TokenAmount
func (a *TokenAmount) UnmarshalCBOR(cborData []byte) error {
	var tmpConstr cbor.Constructor
	if _, err := cbor.Decode(cborData, &tmpConstr); err != nil {
		return err
	}
	return cbor.DecodeGeneric(
		tmpConstr.FieldsCbor(),
		a,
	)
}

// MarshalCBOR encodes a TokenAmount to CBOR
func (a *TokenAmount) MarshalCBOR() ([]byte, error) {
	tmpConstr := cbor.NewConstructor(
		0,
		cbor.IndefLengthList{
			a.Id.Bytes,
			a.Amount,
		},
	)
	return cbor.Encode(&tmpConstr)
}

// Is returns true if the TokenAmount's id matches the given TokenId
func (a TokenAmount) Is(id TokenId) bool {
	return a.Id.Equal(id)
}

// String returns a human-readable representation of the TokenAmount
func (a TokenAmount) String() string {
	return fmt.Sprintf(
		"TokenAmount< id = %s, amount = %d >",
		a.Id.String(),
		a.Amount,
	)
}

// ErgoTree is the serialized script bytes attached to a box. Box
// wrappers compare these byte-for-byte against the expected contract
// template supplied in their wrapper-inputs bundle.
type ErgoTree []byte

// Hex returns the hex encoding of the ErgoTree bytes
func (t ErgoTree) Hex() string {
	return hex.EncodeToString(t)
}

// Equal returns true if both ErgoTrees are byte-identical
func (t ErgoTree) Equal(other ErgoTree) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}
