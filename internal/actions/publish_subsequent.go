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
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// PublishSubsequentParams holds the configuration a publish-subsequent
// action needs (spec.md §4.5.2).
type PublishSubsequentParams struct {
	TxFeeNanoErg uint64
	PoolEpochId  int32
}

// BuildPublishSubsequent builds a replica of the operator's existing
// datapoint box with an updated epoch counter and rate (spec.md
// §4.5.2). The local box must already carry a reward token; an
// exhausted reward balance means the operator must re-acquire one via
// transfer-oracle-token before publishing again.
func BuildPublishSubsequent(
	localSrc sources.LocalDatapointBoxSource,
	feedSrc feed.Source,
	walletSrc wallet.Source,
	params PublishSubsequentParams,
	height uint32,
) (*UnsignedTransaction, error) {
	local, exists, err := localSrc.GetLocalDatapointBox()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, oraclerr.New(oraclerr.BoxValidation, "publish-subsequent: no local datapoint box")
	}
	if !local.HasRewardToken() || local.RewardTokenAmount() == 0 {
		return nil, oraclerr.Wrap(
			oraclerr.BoxValidation,
			"publish-subsequent: local box cannot be republished",
			&oraclerr.NoRewardTokenInOracleBoxError{},
		)
	}

	rate, err := feedSrc.GetDatapoint()
	if err != nil {
		return nil, err
	}

	raw := local.Raw()
	out := boxes.BoxCandidate{
		Value:    raw.Value,
		ErgoTree: []byte(local.Tree()),
		Tokens:   append([]common.TokenAmount(nil), raw.Tokens...),
		Registers: map[string][]byte{
			boxes.R4: local.PublicKey(),
			boxes.R5: boxes.PutInt32(params.PoolEpochId),
			boxes.R6: boxes.PutInt64(int64(rate)),
		},
		CreationHeight: height,
	}

	fee, err := walletSrc.SelectBoxes(params.TxFeeNanoErg, nil)
	if err != nil {
		return nil, err
	}

	inputs := []TxInput{
		{
			BoxId:            raw.BoxId,
			ContextExtension: map[int]int32{0: 0},
		},
	}
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
