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

package actions

import (
	"bytes"

	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// VoteUpdatePoolParams holds the configuration needed to cast or
// update an operator's vote on a pending pool-contract change (spec.md
// §6 vote-update-pool, supplemented from original_source since the
// distilled spec only lists the CLI signature).
type VoteUpdatePoolParams struct {
	BallotTree     common.ErgoTree
	BallotTokenId  common.TokenId
	MinStorageRent uint64
	TxFeeNanoErg   uint64
}

// BuildVoteUpdatePool casts (or replaces) the operator's ballot vote
// for a proposed VotePayload. If the operator already has a ballot
// box, it is replaced in place; otherwise a fresh one is minted from a
// wallet-held ballot token.
func BuildVoteUpdatePool(
	ballotSrc sources.LocalBallotBoxSource,
	walletSrc wallet.Source,
	params VoteUpdatePoolParams,
	vote boxes.VotePayload,
	myPubKey []byte,
	height uint32,
) (*UnsignedTransaction, error) {
	existing, exists, err := ballotSrc.GetLocalBallotBox()
	if err != nil {
		return nil, err
	}

	out := boxes.BoxCandidate{
		ErgoTree: []byte(params.BallotTree),
		Tokens: []common.TokenAmount{
			{Id: params.BallotTokenId, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: myPubKey,
			boxes.R6: vote.Encode(),
		},
		CreationHeight: height,
	}

	var inputs []TxInput

	if exists {
		out.Value = existing.Raw().Value
		inputs = append(inputs, inputFor(existing.Raw().BoxId))
	} else {
		out.Value = params.MinStorageRent
		required := []common.TokenAmount{{Id: params.BallotTokenId, Amount: 1}}
		selected, err := walletSrc.SelectBoxes(params.MinStorageRent+params.TxFeeNanoErg, required)
		if err != nil {
			return nil, err
		}
		for _, b := range selected {
			inputs = append(inputs, inputFor(b.BoxId))
		}
	}

	if exists {
		feeBoxes, err := walletSrc.SelectBoxes(params.TxFeeNanoErg, nil)
		if err != nil {
			return nil, err
		}
		for _, b := range feeBoxes {
			inputs = append(inputs, inputFor(b.BoxId))
		}
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{out},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}

// PrepareUpdateParams holds the configuration prepare-update needs
// (spec.md §6): minting the singleton update box that a subsequent
// update-pool spends once quorum is reached.
type PrepareUpdateParams struct {
	UpdateTree     common.ErgoTree
	UpdateNftId    common.TokenId
	MinStorageRent uint64
	TxFeeNanoErg   uint64
}

// BuildPrepareUpdate mints the singleton update box from a wallet-held
// update NFT, starting a pool-update ceremony.
func BuildPrepareUpdate(
	walletSrc wallet.Source,
	params PrepareUpdateParams,
	height uint32,
) (*UnsignedTransaction, error) {
	required := []common.TokenAmount{{Id: params.UpdateNftId, Amount: 1}}
	selected, err := walletSrc.SelectBoxes(params.MinStorageRent+params.TxFeeNanoErg, required)
	if err != nil {
		return nil, err
	}

	out := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.UpdateTree),
		Tokens: []common.TokenAmount{
			{Id: params.UpdateNftId, Amount: 1},
		},
		CreationHeight: height,
	}

	inputs := make([]TxInput, 0, len(selected))
	for _, b := range selected {
		inputs = append(inputs, inputFor(b.BoxId))
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{out},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}

// UpdatePoolParams holds the configuration update-pool needs: the new
// pool contract tree being voted on and the new reward-token
// parameters the matching ballots must all agree on.
type UpdatePoolParams struct {
	NewPoolTree      common.ErgoTree
	NewPoolTreeHash  []byte
	NewRewardTokenId common.TokenId
	NewRewardAmount  uint64
	TxFeeNanoErg     uint64
}

// BuildUpdatePool executes a pending pool-contract update once enough
// ballots match the proposal given in params, the update box supplying
// the minimum-votes threshold (spec.md §6 update-pool): it replaces the pool box's ErgoTree and reward-token
// id, preserving the pool NFT, rate and epoch counter, and consumes
// the update box and every matching ballot. Ballot-token bookkeeping
// back to individual voters is left to wallet change, since the
// ballot/update contracts' exact token-return behavior wasn't part of
// the retrieved source for this ceremony.
func BuildUpdatePool(
	poolSrc sources.PoolBoxSource,
	updateSrc sources.UpdateBoxSource,
	ballotsSrc sources.BallotBoxesSource,
	walletSrc wallet.Source,
	params UpdatePoolParams,
	poolNftId common.TokenId,
	height uint32,
) (*UnsignedTransaction, error) {
	pool, err := poolSrc.GetPoolBox()
	if err != nil {
		return nil, err
	}
	update, exists, err := updateSrc.GetUpdateBox()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, oraclerr.New(oraclerr.BoxValidation, "update-pool: no update box in progress")
	}
	ballots, err := ballotsSrc.GetBallotBoxes()
	if err != nil {
		return nil, err
	}

	var matching []*boxes.BallotBox
	for _, b := range ballots {
		v := b.Vote()
		if bytes.Equal(v.NewPoolHash, params.NewPoolTreeHash) &&
			v.RewardTokenId.Equal(params.NewRewardTokenId) &&
			v.RewardAmount == params.NewRewardAmount {
			matching = append(matching, b)
		}
	}

	if len(matching) < update.MinVotes() {
		return nil, oraclerr.New(
			oraclerr.Consensus,
			"update-pool: insufficient matching ballot votes to authorize update",
		)
	}

	outPool := boxes.BoxCandidate{
		Value:    pool.Value(),
		ErgoTree: []byte(params.NewPoolTree),
		Tokens: []common.TokenAmount{
			{Id: poolNftId, Amount: 1},
			{Id: params.NewRewardTokenId, Amount: params.NewRewardAmount},
		},
		Registers: map[string][]byte{
			boxes.R4: boxes.PutInt64(pool.Rate()),
			boxes.R5: boxes.PutInt32(pool.EpochId()),
		},
		CreationHeight: height,
	}

	inputs := []TxInput{inputFor(pool.Raw().BoxId), inputFor(update.Raw().BoxId)}
	for _, b := range matching {
		inputs = append(inputs, inputFor(b.Raw().BoxId))
	}

	fee, err := walletSrc.SelectBoxes(params.TxFeeNanoErg, nil)
	if err != nil {
		return nil, err
	}
	for _, b := range fee {
		inputs = append(inputs, inputFor(b.BoxId))
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{outPool},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}
