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
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// ExtractRewardTokensParams holds the configuration extract-reward-
// tokens needs (spec.md §6): moving accumulated reward tokens off the
// operator's local datapoint box to a plain P2PK payout address,
// leaving exactly one reward token behind so the box can still
// republish.
type ExtractRewardTokensParams struct {
	PayoutTree     common.ErgoTree
	MinStorageRent uint64
	TxFeeNanoErg   uint64
}

// BuildExtractRewardTokens rebuilds the local datapoint box with
// exactly one reward token retained, sending every other accumulated
// reward token to a new plain payout box at PayoutTree.
func BuildExtractRewardTokens(
	localSrc sources.LocalDatapointBoxSource,
	walletSrc wallet.Source,
	params ExtractRewardTokensParams,
	rewardTokenId common.TokenId,
	height uint32,
) (*UnsignedTransaction, error) {
	local, exists, err := localSrc.GetLocalDatapointBox()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, oraclerr.New(oraclerr.BoxValidation, "extract-reward-tokens: no local datapoint box")
	}
	if !local.HasRewardToken() || local.RewardTokenAmount() <= 1 {
		return nil, oraclerr.New(
			oraclerr.BoxValidation,
			"extract-reward-tokens: local box has no surplus reward tokens to extract",
		)
	}

	surplus := local.RewardTokenAmount() - 1
	raw := local.Raw()

	outOracle := boxes.BoxCandidate{
		Value:    raw.Value,
		ErgoTree: []byte(local.Tree()),
		Tokens: []common.TokenAmount{
			{Id: raw.Tokens[0].Id, Amount: 1},
			{Id: rewardTokenId, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: local.PublicKey(),
			boxes.R5: boxes.PutInt32(local.EpochId()),
			boxes.R6: boxes.PutInt64(local.Rate()),
		},
		CreationHeight: height,
	}

	outPayout := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.PayoutTree),
		Tokens: []common.TokenAmount{
			{Id: rewardTokenId, Amount: surplus},
		},
		CreationHeight: height,
	}

	fee, err := walletSrc.SelectBoxes(params.MinStorageRent+params.TxFeeNanoErg, nil)
	if err != nil {
		return nil, err
	}

	inputs := []TxInput{inputFor(raw.BoxId)}
	for _, b := range fee {
		inputs = append(inputs, inputFor(b.BoxId))
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{outOracle, outPayout},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}

// PrintRewardTokens reports the operator's currently accumulated
// reward-token count, backing the read-only print-reward-tokens
// command (spec.md §6) -- no transaction is built.
func PrintRewardTokens(localSrc sources.LocalDatapointBoxSource) (uint64, bool, error) {
	local, exists, err := localSrc.GetLocalDatapointBox()
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, nil
	}
	return local.RewardTokenAmount(), true, nil
}
