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

// PoolBoxInputs is the wrapper-inputs bundle for PoolBox: the contract
// template and pool/reward token ids expected by configuration.
type PoolBoxInputs struct {
	ExpectedTree    common.ErgoTree
	PoolNftId       common.TokenId
	RewardTokenId   common.TokenId
}

// PoolBox is the validated singleton pool box: R4 holds the consensus
// rate, R5 the epoch counter; it carries exactly one pool NFT and a
// reward-token reserve (spec.md §3, §4.1).
type PoolBox struct {
	raw         RawBox
	rate        int64
	epochId     int32
	rewardToken common.TokenAmount
}

// NewPoolBox validates a raw box against PoolBoxInputs and constructs a
// PoolBox, failing with a BoxValidation error on any mismatch.
func NewPoolBox(box RawBox, in PoolBoxInputs) (*PoolBox, error) {
	if err := requireErgoTree(box, in.ExpectedTree, "pool"); err != nil {
		return nil, err
	}
	if err := requireSingletonToken(box, in.PoolNftId, "pool-NFT", "pool"); err != nil {
		return nil, err
	}
	rate, err := registerInt64(box, R4, "pool")
	if err != nil {
		return nil, err
	}
	epochId, err := registerInt32(box, R5, "pool")
	if err != nil {
		return nil, err
	}
	var reward common.TokenAmount
	for _, t := range box.Tokens {
		if t.Id.Equal(in.RewardTokenId) {
			reward = t
			break
		}
	}
	return &PoolBox{
		raw:         box,
		rate:        rate,
		epochId:     epochId,
		rewardToken: reward,
	}, nil
}

// Raw returns the underlying validated box.
func (p *PoolBox) Raw() RawBox { return p.raw }

// Rate returns the current consensus rate held in R4.
func (p *PoolBox) Rate() int64 { return p.rate }

// EpochId returns the monotonically non-decreasing epoch counter in R5.
func (p *PoolBox) EpochId() int32 { return p.epochId }

// RewardTokenAmount returns the pool's remaining reward-token reserve.
func (p *PoolBox) RewardTokenAmount() uint64 { return p.rewardToken.Amount }

// CreationHeight returns the height at which this pool box was created,
// used by the classifier to derive epoch_ends_height.
func (p *PoolBox) CreationHeight() uint32 { return p.raw.CreationHeight }

// Value returns the box's nanoERG value.
func (p *PoolBox) Value() uint64 { return p.raw.Value }

// Tree returns the pool box's ErgoTree.
func (p *PoolBox) Tree() common.ErgoTree { return p.raw.ErgoTree }
