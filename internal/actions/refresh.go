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
	"encoding/hex"
	"sort"

	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// RefreshParams holds the monetary-policy configuration the refresh
// algorithm needs: none of this is decided by the core itself (spec.md
// §1 Non-goals), it is read from configuration and passed in.
type RefreshParams struct {
	MaxDeviationPercent uint64
	MinDataPoints       int
	EpochLengthBlocks   uint32
	TxFeeNanoErg        uint64
	PoolNftId           common.TokenId
	RefreshNftId        common.TokenId
	OracleTokenId       common.TokenId
	RewardTokenId       common.TokenId
}

type ratedCandidate struct {
	box  *boxes.OracleBox
	rate int64
}

// BuildRefresh implements the refresh consensus algorithm (spec.md
// §4.5.3): deviation-trimmed outlier removal, a quorum gate, and
// checked reward-token accounting, and assembles the unsigned
// transaction with the context-extension conventions the refresh and
// oracle contracts require.
func BuildRefresh(
	poolSrc sources.PoolBoxSource,
	refreshSrc sources.RefreshBoxSource,
	datapointSrc sources.DatapointBoxesSource,
	walletSrc wallet.Source,
	params RefreshParams,
	height uint32,
	myPubKey []byte,
) (*UnsignedTransaction, error) {
	pool, err := poolSrc.GetPoolBox()
	if err != nil {
		return nil, err
	}
	refresh, err := refreshSrc.GetRefreshBox()
	if err != nil {
		return nil, err
	}
	all, err := datapointSrc.GetDatapointBoxes()
	if err != nil {
		return nil, err
	}

	var minStartHeight uint32
	if height > params.EpochLengthBlocks {
		minStartHeight = height - params.EpochLengthBlocks
	}

	candidates := make([]ratedCandidate, 0, len(all))
	for _, ob := range all {
		if ob.CreationHeight() > minStartHeight && ob.EpochId() == pool.EpochId() {
			candidates = append(candidates, ratedCandidate{box: ob, rate: ob.Rate()})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rate < candidates[j].rate
	})

	retained, err := trimDeviationOutliers(candidates, params.MaxDeviationPercent)
	if err != nil {
		return nil, err
	}

	if len(retained) < params.MinDataPoints {
		pubKeys := make([]string, len(retained))
		for i, c := range retained {
			pubKeys[i] = hex.EncodeToString(c.box.PublicKey())
		}
		return nil, oraclerr.Wrap(
			oraclerr.Consensus,
			"refresh: quorum not reached",
			&oraclerr.FailedToReachConsensusError{
				Expected:        params.MinDataPoints,
				Found:           len(retained),
				FoundPublicKeys: pubKeys,
			},
		)
	}

	count := uint64(len(retained))
	var sum int64
	for _, c := range retained {
		sum += c.rate
	}
	newRate := sum / int64(count)

	newPoolReward, err := checkedSub(pool.RewardTokenAmount(), 2*count)
	if err != nil {
		return nil, err
	}

	outPool := boxes.BoxCandidate{
		Value:    pool.Value(),
		ErgoTree: []byte(pool.Tree()),
		Tokens: []common.TokenAmount{
			{Id: params.PoolNftId, Amount: 1},
			{Id: params.RewardTokenId, Amount: newPoolReward},
		},
		Registers: map[string][]byte{
			boxes.R4: boxes.PutInt64(newRate),
			boxes.R5: boxes.PutInt32(pool.EpochId() + 1),
		},
		CreationHeight: height,
	}

	outRefresh := boxes.BoxCandidate{
		Value:    refresh.Value(),
		ErgoTree: []byte(refresh.Tree()),
		Tokens: []common.TokenAmount{
			{Id: params.RefreshNftId, Amount: 1},
		},
		CreationHeight: height,
	}

	myIndex := -1
	outOracles := make([]boxes.BoxCandidate, len(retained))
	for i, c := range retained {
		rewardAmount, err := checkedAdd(c.box.RewardTokenAmount(), 1)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(c.box.PublicKey(), myPubKey) {
			rewardAmount, err = checkedAdd(rewardAmount, 1+count)
			if err != nil {
				return nil, err
			}
			myIndex = i
		}
		outOracles[i] = boxes.BoxCandidate{
			Value:    c.box.Value(),
			ErgoTree: []byte(c.box.Tree()),
			Tokens: []common.TokenAmount{
				{Id: params.OracleTokenId, Amount: 1},
				{Id: params.RewardTokenId, Amount: rewardAmount},
			},
			Registers: map[string][]byte{
				boxes.R4: c.box.PublicKey(),
				boxes.R5: boxes.PutInt32(c.box.EpochId()),
				boxes.R6: boxes.PutInt64(c.box.Rate()),
			},
			CreationHeight: height,
		}
	}
	if myIndex == -1 {
		return nil, oraclerr.Wrap(
			oraclerr.Consensus,
			"refresh: operator's own datapoint was trimmed or absent",
			&oraclerr.MyOracleBoxNotFoundError{},
		)
	}

	fee, err := walletSrc.SelectBoxes(params.TxFeeNanoErg, nil)
	if err != nil {
		return nil, err
	}

	inputs := []TxInput{
		inputFor(pool.Raw().BoxId),
		{
			BoxId:            refresh.Raw().BoxId,
			ContextExtension: map[int]int32{0: int32(myIndex)},
		},
	}
	for i, c := range retained {
		inputs = append(inputs, TxInput{
			BoxId:            c.box.Raw().BoxId,
			ContextExtension: map[int]int32{0: int32(i + 2)},
		})
	}
	for _, b := range fee {
		inputs = append(inputs, inputFor(b.BoxId))
	}

	outputs := make([]boxes.BoxCandidate, 0, 2+len(outOracles))
	outputs = append(outputs, outPool, outRefresh)
	outputs = append(outputs, outOracles...)

	return &UnsignedTransaction{
		Inputs:         inputs,
		Outputs:        outputs,
		Fee:            params.TxFeeNanoErg,
		ChangeAddress:  walletSrc.ChangeAddress(),
		CreationHeight: height,
	}, nil
}

// FilterRatesByDeviation applies the deviation-trimming step in
// isolation from box construction, for exercising the invariants in
// spec.md §8 directly against plain rate lists.
func FilterRatesByDeviation(rates []int64, deviationPercent uint64) ([]int64, error) {
	candidates := make([]ratedCandidate, len(rates))
	for i, r := range rates {
		candidates[i] = ratedCandidate{rate: r}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rate < candidates[j].rate
	})
	retained, err := trimDeviationOutliers(candidates, deviationPercent)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(retained))
	for i, c := range retained {
		out[i] = c.rate
	}
	return out, nil
}

// trimDeviationOutliers implements spec.md §4.5.3 step 4: repeatedly
// drop the single max or min candidate until the retained set's spread
// is within deviation_percent of its max, or fail once only two
// candidates remain and the spread still doesn't fit.
func trimDeviationOutliers(
	candidates []ratedCandidate,
	deviationPercent uint64,
) ([]ratedCandidate, error) {
	retained := append([]ratedCandidate(nil), candidates...)

	for {
		if len(retained) == 0 {
			return retained, nil
		}
		minRate := retained[0].rate
		maxRate := retained[len(retained)-1].rate
		// retained stays sorted ascending throughout, so front/back are
		// always the current min/max.
		if maxRate < 0 {
			// Defensive: rates are domain-interpreted as non-negative;
			// a negative max makes the deviation-threshold multiply
			// meaningless as an unsigned percentage.
			return nil, oraclerr.New(oraclerr.Consensus, "refresh: negative rate encountered")
		}
		threshold := uint64(maxRate) * deviationPercent / 100
		if uint64(maxRate-minRate) <= threshold {
			return retained, nil
		}
		if len(retained) <= 2 {
			return nil, oraclerr.Wrap(
				oraclerr.Consensus,
				"refresh: could not converge within deviation range",
				&oraclerr.NotEnoughDatapointsError{Found: len(retained)},
			)
		}

		var sum int64
		for _, c := range retained {
			sum += c.rate
		}
		mean := float64(sum) / float64(len(retained))
		frontDeviation := float64(maxRate) - mean
		backDeviation := mean - float64(minRate)

		if frontDeviation >= backDeviation {
			retained = retained[:len(retained)-1]
		} else {
			retained = retained[1:]
		}
	}
}
