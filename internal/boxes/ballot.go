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

package boxes

import (
	"encoding/binary"
	"fmt"

	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
)

// VotePayload is the proposed pool-update a ballot box votes for: a new
// pool contract hash, an updated reward token id/amount, and the chain
// height at which the update may be applied (spec.md §6
// vote-update-pool arguments).
type VotePayload struct {
	NewPoolHash   []byte
	RewardTokenId common.TokenId
	RewardAmount  uint64
	UpdateHeight  uint32
}

// Encode serializes the payload into the R6 register bytes: a 32-byte
// hash, a 32-byte token id, an 8-byte amount and a 4-byte height.
func (v VotePayload) Encode() []byte {
	buf := make([]byte, 0, 32+32+8+4)
	buf = append(buf, v.NewPoolHash...)
	buf = append(buf, v.RewardTokenId.Bytes...)
	amt := make([]byte, 8)
	binary.BigEndian.PutUint64(amt, v.RewardAmount)
	buf = append(buf, amt...)
	buf = append(buf, PutInt32(int32(v.UpdateHeight))...)
	return buf
}

// DecodeVotePayload is the inverse of Encode.
func DecodeVotePayload(b []byte) (VotePayload, error) {
	if len(b) != 32+32+8+4 {
		return VotePayload{}, fmt.Errorf(
			"malformed vote payload: expected %d bytes, got %d",
			32+32+8+4,
			len(b),
		)
	}
	return VotePayload{
		NewPoolHash:   append([]byte(nil), b[0:32]...),
		RewardTokenId: common.TokenId{Bytes: append([]byte(nil), b[32:64]...)},
		RewardAmount:  binary.BigEndian.Uint64(b[64:72]),
		UpdateHeight:  binary.BigEndian.Uint32(b[72:76]),
	}, nil
}

// BallotBoxInputs is the wrapper-inputs bundle for BallotBox.
type BallotBoxInputs struct {
	ExpectedTree  common.ErgoTree
	BallotTokenId common.TokenId
}

// BallotBox is the validated per-voter ballot box: R4 holds the
// voter's public key, R6 the encoded VotePayload (spec.md §3,
// "Ballot / Update Boxes").
type BallotBox struct {
	raw    RawBox
	pubKey []byte
	vote   VotePayload
}

// NewBallotBox validates a raw box against BallotBoxInputs.
func NewBallotBox(box RawBox, in BallotBoxInputs) (*BallotBox, error) {
	if err := requireErgoTree(box, in.ExpectedTree, "ballot"); err != nil {
		return nil, err
	}
	if err := requireSingletonToken(box, in.BallotTokenId, "ballot", "ballot"); err != nil {
		return nil, err
	}
	pubKey, err := registerBytes(box, R4, "ballot")
	if err != nil {
		return nil, err
	}
	voteBytes, ok := box.RegisterBytes(R6)
	if !ok {
		return nil, oraclerr.New(oraclerr.BoxValidation, "ballot box: missing register R6")
	}
	vote, err := DecodeVotePayload(voteBytes)
	if err != nil {
		return nil, oraclerr.Wrap(oraclerr.BoxValidation, "ballot box: malformed vote", err)
	}
	return &BallotBox{raw: box, pubKey: pubKey, vote: vote}, nil
}

// Raw returns the underlying validated box.
func (b *BallotBox) Raw() RawBox { return b.raw }

// PublicKey returns the voter's public-key bytes held in R4.
func (b *BallotBox) PublicKey() []byte { return b.pubKey }

// Vote returns the decoded proposal this ballot votes for.
func (b *BallotBox) Vote() VotePayload { return b.vote }

// OwnerMatches reports whether this ballot's R4 matches the given
// public key, used to locate an operator's own local ballot box
// (spec.md §4.1 "register value inconsistent with external
// expectation").
func (b *BallotBox) OwnerMatches(pubKey []byte) bool {
	if len(b.pubKey) != len(pubKey) {
		return false
	}
	for i := range b.pubKey {
		if b.pubKey[i] != pubKey[i] {
			return false
		}
	}
	return true
}
