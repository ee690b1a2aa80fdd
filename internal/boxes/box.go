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

// Package boxes holds the typed box-wrapper layer (spec.md §4.1): each
// wrapper takes a RawBox plus a small "wrapper-inputs" bundle of
// expected contract parameters, and fails construction with a tagged
// oraclerr.BoxValidation error on any invariant violation. Once
// constructed, wrappers are immutable and their accessors are total.
package boxes

import (
	"fmt"
	"sort"

	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/oraclerr"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// Register names, matching the chain's fixed register layout
// (spec.md §3).
const (
	R4 = "R4"
	R5 = "R5"
	R6 = "R6"
)

// RawBox is the raw, undecoded form of a UTXO as returned by the chain
// node's scan API: a box id, value, script, tokens, registers and
// provenance (spec.md §3 "Scan" / §4.2 get_boxes).
type RawBox struct {
	BoxId          string
	Value          uint64
	ErgoTree       common.ErgoTree
	Tokens         []common.TokenAmount
	Registers      map[string][]byte
	CreationHeight uint32
	TransactionId  string
	Index          uint32
}

// RegisterBytes returns the raw bytes for a register, or (nil, false)
// if the register is absent.
func (b RawBox) RegisterBytes(name string) ([]byte, bool) {
	v, ok := b.Registers[name]
	return v, ok
}

// Token returns the amount of token id carried by the box, or 0 if the
// box does not carry that token at all.
func (b RawBox) Token(id common.TokenId) uint64 {
	for _, t := range b.Tokens {
		if t.Id.Equal(id) {
			return t.Amount
		}
	}
	return 0
}

// BoxCandidate is the re-serializable projection of a box used both for
// the round-trip testable property (spec.md §8) and for building
// transaction outputs in internal/actions: value, script, tokens,
// registers and creation height, deliberately excluding the
// already-on-chain identity fields (BoxId/TransactionId/Index) that
// only exist once a candidate has actually been included in a block.
type BoxCandidate struct {
	cbor.StructAsArray
	Value          uint64
	ErgoTree       []byte
	Tokens         []common.TokenAmount
	Registers      map[string][]byte
	CreationHeight uint32
}

// Candidate projects a RawBox down to its re-serializable form.
func (b RawBox) Candidate() BoxCandidate {
	tokens := make([]common.TokenAmount, len(b.Tokens))
	copy(tokens, b.Tokens)
	regs := make(map[string][]byte, len(b.Registers))
	for k, v := range b.Registers {
		cp := make([]byte, len(v))
		copy(cp, v)
		regs[k] = cp
	}
	return BoxCandidate{
		Value:          b.Value,
		ErgoTree:       []byte(b.ErgoTree),
		Tokens:         tokens,
		Registers:      regs,
		CreationHeight: b.CreationHeight,
	}
}

// Encode CBOR-encodes the candidate. This is a generic wire-format
// stand-in for Ergo's native box serializer (not available as a Go
// library): the same pattern the teacher uses in
// internal/common.AssetClass and internal/storage to encode opaque
// on-chain structures generically via gouroboros/cbor.
func (c *BoxCandidate) Encode() ([]byte, error) {
	regKeys := make([]string, 0, len(c.Registers))
	for k := range c.Registers {
		regKeys = append(regKeys, k)
	}
	sort.Strings(regKeys)
	regPairs := make(cbor.IndefLengthList, 0, len(regKeys)*2)
	for _, k := range regKeys {
		regPairs = append(regPairs, k, c.Registers[k])
	}
	tmpConstr := cbor.NewConstructor(
		0,
		cbor.IndefLengthList{
			c.Value,
			c.ErgoTree,
			c.CreationHeight,
			c.Tokens,
			regPairs,
		},
	)
	return cbor.Encode(&tmpConstr)
}

// requireErgoTree fails wrapper construction if the box's script does
// not byte-match the expected contract template.
func requireErgoTree(box RawBox, expected common.ErgoTree, boxKind string) error {
	if !box.ErgoTree.Equal(expected) {
		return oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf(
				"%s box: unexpected ErgoTree (got %s)",
				boxKind,
				box.ErgoTree.Hex(),
			),
		)
	}
	return nil
}

// requireSingletonToken fails construction unless the box carries
// exactly one unit of the given token id among its token list, and
// that the token is present at all -- spec.md I1 ("every ... box
// exactly one ... token").
func requireSingletonToken(box RawBox, id common.TokenId, tokenKind, boxKind string) error {
	var found *common.TokenAmount
	for i := range box.Tokens {
		if box.Tokens[i].Id.Equal(id) {
			found = &box.Tokens[i]
			break
		}
	}
	if found == nil {
		return oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf("%s box: missing required %s token", boxKind, tokenKind),
		)
	}
	if found.Amount != 1 {
		return oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf(
				"%s box: expected exactly 1 %s token, found %d",
				boxKind,
				tokenKind,
				found.Amount,
			),
		)
	}
	return nil
}

// registerInt32 decodes a register as a big-endian signed 32-bit
// integer (Ergo register R5's on-chain type per spec.md §3).
func registerInt32(box RawBox, name, boxKind string) (int32, error) {
	b, ok := box.RegisterBytes(name)
	if !ok || len(b) != 4 {
		return 0, oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf("%s box: missing or malformed register %s", boxKind, name),
		)
	}
	v := int32(b[0])<<24 | int32(b[1])<<16 | int32(b[2])<<8 | int32(b[3])
	return v, nil
}

// registerInt64 decodes a register as a big-endian signed 64-bit
// integer (Ergo registers R4/R6's on-chain type per spec.md §3).
func registerInt64(box RawBox, name, boxKind string) (int64, error) {
	b, ok := box.RegisterBytes(name)
	if !ok || len(b) != 8 {
		return 0, oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf("%s box: missing or malformed register %s", boxKind, name),
		)
	}
	var v int64
	for _, byt := range b {
		v = v<<8 | int64(byt)
	}
	return v, nil
}

// registerBytes fails construction unless the register is present,
// returning its raw bytes (used for R4 = operator public key).
func registerBytes(box RawBox, name, boxKind string) ([]byte, error) {
	b, ok := box.RegisterBytes(name)
	if !ok || len(b) == 0 {
		return nil, oraclerr.New(
			oraclerr.BoxValidation,
			fmt.Sprintf("%s box: missing register %s", boxKind, name),
		)
	}
	return b, nil
}

// PutInt32 encodes v as big-endian bytes for storage in a register.
func PutInt32(v int32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// PutInt64 encodes v as big-endian bytes for storage in a register.
func PutInt64(v int64) []byte {
	return []byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	}
}
