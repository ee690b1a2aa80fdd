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
	"github.com/SethDusek/oracle-core/internal/feed"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// PublishFirstParams holds the parameters needed to post an operator's
// first datapoint (spec.md §4.5.1).
type PublishFirstParams struct {
	OracleTree     common.ErgoTree
	OracleTokenId  common.TokenId
	RewardTokenId  common.TokenId
	MinStorageRent uint64
	TxFeeNanoErg   uint64
	OperatorPubKey []byte
}

// BuildPublishFirst builds an operator's initial datapoint box (spec.md
// §4.5.1): precondition is the caller has already established no local
// datapoint box exists, which the driver loop checks by querying the
// local datapoint box source before calling this.
func BuildPublishFirst(
	feedSrc feed.Source,
	walletSrc wallet.Source,
	params PublishFirstParams,
	height uint32,
) (*UnsignedTransaction, error) {
	rate, err := feedSrc.GetDatapoint()
	if err != nil {
		return nil, err
	}

	required := []common.TokenAmount{
		{Id: params.OracleTokenId, Amount: 1},
		{Id: params.RewardTokenId, Amount: 1},
	}
	selected, err := walletSrc.SelectBoxes(params.MinStorageRent+params.TxFeeNanoErg, required)
	if err != nil {
		return nil, err
	}

	out := boxes.BoxCandidate{
		Value:    params.MinStorageRent,
		ErgoTree: []byte(params.OracleTree),
		Tokens: []common.TokenAmount{
			{Id: params.OracleTokenId, Amount: 1},
			{Id: params.RewardTokenId, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: params.OperatorPubKey,
			boxes.R5: boxes.PutInt32(1),
			boxes.R6: boxes.PutInt64(int64(rate)),
		},
		CreationHeight: height,
	}

	inputs := make([]TxInput, 0, len(selected))
	for i, b := range selected {
		in := inputFor(b.BoxId)
		if i == 0 {
			// Satisfies the oracle script's expectation that its own
			// spend is referenced at output index 0 (spec.md §4.5.1).
			in.ContextExtension = map[int]int32{0: 0}
		}
		inputs = append(inputs, in)
	}

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        []boxes.BoxCandidate{out},
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}
