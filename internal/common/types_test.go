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

package common_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/common"
)

func TestTokenIdIsNanoErg(t *testing.T) {
	// Zero-value TokenId should be nanoERG
	var zero common.TokenId
	if !zero.IsNanoErg() {
		t.Errorf("zero-value TokenId should be nanoErg")
	}

	// NanoErg() should also be nanoERG
	if !common.NanoErg().IsNanoErg() {
		t.Errorf("NanoErg() should return a TokenId that IsNanoErg()")
	}

	// Non-empty bytes should not be nanoERG
	nonEmpty := common.TokenId{Bytes: []byte{0x01, 0x02, 0x03}}
	if nonEmpty.IsNanoErg() {
		t.Errorf("non-empty TokenId should not be nanoErg")
	}
}

func TestNewTokenId(t *testing.T) {
	valid := make([]byte, 32)
	for i := range valid {
		valid[i] = byte(i)
	}
	validHex := common.ErgoTree(valid).Hex()

	id, err := common.NewTokenId(validHex)
	if err != nil {
		t.Fatalf("NewTokenId with valid 32-byte hex should not error: %v", err)
	}
	if id.String() != validHex {
		t.Errorf("String() should round-trip hex, got %q want %q", id.String(), validHex)
	}

	if _, err := common.NewTokenId("not-hex"); err == nil {
		t.Errorf("NewTokenId with invalid hex should return error")
	}

	if _, err := common.NewTokenId("abcd"); err == nil {
		t.Errorf("NewTokenId with wrong-length id should return error")
	}
}

func TestTokenIdEqual(t *testing.T) {
	a := common.TokenId{Bytes: []byte{0x01, 0x02, 0x03}}
	b := common.TokenId{Bytes: []byte{0x01, 0x02, 0x03}}
	c := common.TokenId{Bytes: []byte{0xaa, 0xbb, 0xcc}}

	if !a.Equal(b) {
		t.Errorf("identical TokenIds should be Equal")
	}
	if a.Equal(c) {
		t.Errorf("different TokenIds should not be Equal")
	}
}

func TestTokenAmountIs(t *testing.T) {
	id1 := common.TokenId{Bytes: []byte{0x01, 0x02, 0x03}}
	id2 := common.TokenId{Bytes: []byte{0xaa, 0xbb, 0xcc}}

	amount := common.TokenAmount{Id: id1, Amount: 100}

	if !amount.Is(id1) {
		t.Errorf("Is should return true for matching token id")
	}
	if amount.Is(id2) {
		t.Errorf("Is should return false for non-matching token id")
	}
}

func TestErgoTreeEqual(t *testing.T) {
	a := common.ErgoTree{0x00, 0x01, 0x02}
	b := common.ErgoTree{0x00, 0x01, 0x02}
	c := common.ErgoTree{0x00, 0x01, 0x03}

	if !a.Equal(b) {
		t.Errorf("identical ErgoTrees should be Equal")
	}
	if a.Equal(c) {
		t.Errorf("different ErgoTrees should not be Equal")
	}
	if a.Equal(common.ErgoTree{0x00}) {
		t.Errorf("different-length ErgoTrees should not be Equal")
	}
}
