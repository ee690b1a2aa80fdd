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
	"github.com/SethDusek/oracle-core/internal/common"
)

// OracleBoxInputs is the wrapper-inputs bundle for OracleBox.
type OracleBoxInputs struct {
	ExpectedTree  common.ErgoTree
	OracleTokenId common.TokenId
	RewardTokenId common.TokenId
}

// OracleBox is the validated per-oracle datapoint box: R4 holds the
// operator's public key, R5 the epoch counter the datapoint was posted
// at, R6 the rate itself (spec.md §3, §4.1).
//
// The reward-token entry is intentionally optional at construction: an
// oracle box with zero reward tokens is still a structurally valid
// box, it simply cannot be used as input to publish-subsequent or
// transfer-oracle-token (those check reward-token presence themselves
// as an action-builder precondition, spec.md §4.5.2/§4.5.4).
type OracleBox struct {
	raw         RawBox
	pubKey      []byte
	epochId     int32
	rate        int64
	rewardToken common.TokenAmount
	hasReward   bool
}

// NewOracleBox validates a raw box against OracleBoxInputs.
func NewOracleBox(box RawBox, in OracleBoxInputs) (*OracleBox, error) {
	if err := requireErgoTree(box, in.ExpectedTree, "oracle"); err != nil {
		return nil, err
	}
	if err := requireSingletonToken(box, in.OracleTokenId, "oracle", "oracle"); err != nil {
		return nil, err
	}
	pubKey, err := registerBytes(box, R4, "oracle")
	if err != nil {
		return nil, err
	}
	epochId, err := registerInt32(box, R5, "oracle")
	if err != nil {
		return nil, err
	}
	rate, err := registerInt64(box, R6, "oracle")
	if err != nil {
		return nil, err
	}
	ob := &OracleBox{
		raw:     box,
		pubKey:  pubKey,
		epochId: epochId,
		rate:    rate,
	}
	for _, t := range box.Tokens {
		if t.Id.Equal(in.RewardTokenId) {
			ob.rewardToken = t
			ob.hasReward = true
			break
		}
	}
	return ob, nil
}

// Raw returns the underlying validated box.
func (o *OracleBox) Raw() RawBox { return o.raw }

// PublicKey returns the operator public-key bytes held in R4.
func (o *OracleBox) PublicKey() []byte { return o.pubKey }

// EpochId returns the epoch counter this datapoint was posted at (R5).
func (o *OracleBox) EpochId() int32 { return o.epochId }

// Rate returns the datapoint's rate (R6).
func (o *OracleBox) Rate() int64 { return o.rate }

// RewardTokenAmount returns the accumulated reward-token count, or 0 if
// the box carries none.
func (o *OracleBox) RewardTokenAmount() uint64 { return o.rewardToken.Amount }

// HasRewardToken reports whether the box carries any reward token at
// all, distinct from carrying zero of a present entry.
func (o *OracleBox) HasRewardToken() bool { return o.hasReward }

// Value returns the box's nanoERG value.
func (o *OracleBox) Value() uint64 { return o.raw.Value }

// Tree returns the oracle box's ErgoTree.
func (o *OracleBox) Tree() common.ErgoTree { return o.raw.ErgoTree }

// CreationHeight returns the height at which this box was created.
func (o *OracleBox) CreationHeight() uint32 { return o.raw.CreationHeight }
