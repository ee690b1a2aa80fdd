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
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// BootstrapParams holds the one-shot pool-creation configuration
// (spec.md §6 "bootstrap <yaml>"): every contract template and token
// id the pool, refresh, and operator's own first datapoint box need,
// plus the initial rate posted before any refresh has run.
type BootstrapParams struct {
	PoolTree    common.ErgoTree
	RefreshTree common.ErgoTree
	OracleTree  common.ErgoTree

	PoolNftId     common.TokenId
	RefreshNftId  common.TokenId
	OracleTokenId common.TokenId
	RewardTokenId common.TokenId

	InitialRewardTokenAmount uint64
	InitialRate              int64

	MinStorageRent uint64
	TxFeeNanoErg   uint64
	OperatorPubKey []byte
}

// BuildBootstrap mints the pool box, refresh box, and the operator's
// first oracle box in a single transaction from wallet-held NFTs and
// reward tokens, bringing a NeedsBootstrap pool to LiveEpoch (spec.md
// §4.3, §4.4 "NeedsBootstrap -> emit Bootstrap"). Not part of the
// driver's own tick loop -- this is the explicit one-shot CLI command
// spec.md §1 calls out as an external ceremony.
func BuildBootstrap(
	walletSrc wallet.Source,
	params BootstrapParams,
	height uint32,
) (*UnsignedTransaction, error) {
	required := []common.TokenAmount{
		{Id: params.PoolNftId, Amount: 1},
		{Id: params.RefreshNftId, Amount: 1},
		{Id: params.OracleTokenId, Amount: 1},
		{Id: params.RewardTokenId, Amount: params.InitialRewardTokenAmount + 1},
	}
	minNanoErg := 3*params.MinStorageRent + params.TxFeeNanoErg

	selected, err := walletSrc.SelectBoxes(minNanoErg, required)
	if err != nil {
		return nil, err
	}

	outPool := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.PoolTree),
		Tokens: []common.TokenAmount{
			{Id: params.PoolNftId, Amount: 1},
			{Id: params.RewardTokenId, Amount: params.InitialRewardTokenAmount},
		},
		Registers: map[string][]byte{
			boxes.R4: boxes.PutInt64(params.InitialRate),
			boxes.R5: boxes.PutInt32(1),
		},
		CreationHeight: height,
	}

	outRefresh := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.RefreshTree),
		Tokens: []common.TokenAmount{
			{Id: params.RefreshNftId, Amount: 1},
		},
		CreationHeight: height,
	}

	outOracle := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.OracleTree),
		Tokens: []common.TokenAmount{
			{Id: params.OracleTokenId, Amount: 1},
			{Id: params.RewardTokenId, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: params.OperatorPubKey,
			boxes.R5: boxes.PutInt32(1),
			boxes.R6: boxes.PutInt64(params.InitialRate),
		},
		CreationHeight: height,
	}

	inputs := make([]TxInput, 0, len(selected))
	for _, b := range selected {
		inputs = append(inputs, inputFor(b.BoxId))
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{outPool, outRefresh, outOracle},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}
