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

// TransferOracleTokenParams holds the configuration a transfer needs
// (spec.md §4.5.4): moving the oracle token (and exactly one reward
// token) to a new operator's P2PK address.
type TransferOracleTokenParams struct {
	DestinationTree common.ErgoTree
	TxFeeNanoErg    uint64
}

// BuildTransferOracleToken rebuilds the local datapoint box at a new
// operator's P2PK address, preserving its epoch counter and rate and
// carrying its reward token forward (spec.md §4.5.4). Requires the
// local box to carry exactly one reward token; 0 or 2+ both fail, since
// neither case leaves a well-defined single reward token to move.
func BuildTransferOracleToken(
	localSrc sources.LocalDatapointBoxSource,
	walletSrc wallet.Source,
	params TransferOracleTokenParams,
	oracleTokenId, rewardTokenId common.TokenId,
	height uint32,
) (*UnsignedTransaction, error) {
	local, exists, err := localSrc.GetLocalDatapointBox()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, oraclerr.New(oraclerr.BoxValidation, "transfer-oracle-token: no local datapoint box")
	}
	if local.RewardTokenAmount() != 1 {
		return nil, oraclerr.Wrap(
			oraclerr.BoxValidation,
			"transfer-oracle-token: local box must carry exactly one reward token",
			&oraclerr.IncorrectNumberOfRewardTokensError{Found: local.RewardTokenAmount()},
		)
	}

	out := boxes.BoxCandidate{
		Value:    local.Value(),
		ErgoTree: []byte(params.DestinationTree),
		Tokens: []common.TokenAmount{
			{Id: oracleTokenId, Amount: 1},
			{Id: rewardTokenId, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: local.PublicKey(),
			boxes.R5: boxes.PutInt32(local.EpochId()),
			boxes.R6: boxes.PutInt64(local.Rate()),
		},
		CreationHeight: height,
	}

	fee, err := walletSrc.SelectBoxes(params.TxFeeNanoErg, nil)
	if err != nil {
		return nil, err
	}

	inputs := []TxInput{inputFor(local.Raw().BoxId)}
	for _, b := range fee {
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
