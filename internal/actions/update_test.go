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

package actions_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/actions"
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

func TestBuildVoteUpdatePoolMintsFreshBallot(t *testing.T) {
	f := newRefreshFixture(t)
	ballotToken, err := common.NewTokenId(hexRepeat(0x55, 32))
	if err != nil {
		t.Fatalf("NewTokenId: %v", err)
	}
	ballotTree := common.ErgoTree{0xc0}
	w := &wallet.InMemorySource{
		Boxes: []boxes.RawBox{
			{
				BoxId: "ballot-wallet-box",
				Value: 5_000_000,
				Tokens: []common.TokenAmount{
					{Id: ballotToken, Amount: 1},
				},
			},
		},
		Address: "9fChange",
	}
	vote := boxes.VotePayload{
		NewPoolHash:   make([]byte, 32),
		RewardTokenId: f.rewardToken,
		RewardAmount:  1000,
		UpdateHeight:  800,
	}
	params := actions.VoteUpdatePoolParams{
		BallotTree:     ballotTree,
		BallotTokenId:  ballotToken,
		MinStorageRent: 1_000_000,
		TxFeeNanoErg:   1_100_000,
	}

	tx, err := actions.BuildVoteUpdatePool(
		&sources.FakeLocalBallotBoxSource{Exists: false},
		w,
		params,
		vote,
		[]byte{0x07},
		700,
	)
	if err != nil {
		t.Fatalf("BuildVoteUpdatePool failed: %v", err)
	}
	if len(tx.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(tx.Outputs))
	}
	decoded, err := boxes.DecodeVotePayload(tx.Outputs[0].Registers[boxes.R6])
	if err != nil {
		t.Fatalf("DecodeVotePayload: %v", err)
	}
	if decoded.RewardAmount != 1000 || decoded.UpdateHeight != 800 {
		t.Errorf("expected encoded vote to round-trip, got %+v", decoded)
	}
}

func TestBuildPrepareUpdate(t *testing.T) {
	updateNft, err := common.NewTokenId(hexRepeat(0x66, 32))
	if err != nil {
		t.Fatalf("NewTokenId: %v", err)
	}
	updateTree := common.ErgoTree{0xd0}
	w := &wallet.InMemorySource{
		Boxes: []boxes.RawBox{
			{
				BoxId: "update-wallet-box",
				Value: 5_000_000,
				Tokens: []common.TokenAmount{
					{Id: updateNft, Amount: 1},
				},
			},
		},
		Address: "9fChange",
	}
	params := actions.PrepareUpdateParams{
		UpdateTree:     updateTree,
		UpdateNftId:    updateNft,
		MinStorageRent: 1_000_000,
		TxFeeNanoErg:   1_100_000,
	}

	tx, err := actions.BuildPrepareUpdate(w, params, 700)
	if err != nil {
		t.Fatalf("BuildPrepareUpdate failed: %v", err)
	}
	if tx.Outputs[0].Tokens[0].Amount != 1 {
		t.Errorf("expected update box to carry exactly one update NFT")
	}
}

func TestBuildUpdatePoolFailsBelowQuorum(t *testing.T) {
	f := newRefreshFixture(t)
	pool := f.pool(t, 7, 1000, 900)
	updateBox, err := boxes.NewUpdateBox(boxes.RawBox{
		ErgoTree:       common.ErgoTree{0xd0},
		Value:          1_000_000,
		Tokens:         []common.TokenAmount{{Id: mustTokenIdLocal(t, 0x77), Amount: 1}},
		CreationHeight: 900,
	}, boxes.UpdateBoxInputs{
		ExpectedTree: common.ErgoTree{0xd0},
		UpdateNftId:  mustTokenIdLocal(t, 0x77),
		MinVotes:     3,
	})
	if err != nil {
		t.Fatalf("NewUpdateBox: %v", err)
	}

	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	params := actions.UpdatePoolParams{
		NewPoolTree:      common.ErgoTree{0xe0},
		NewPoolTreeHash:  make([]byte, 32),
		NewRewardTokenId: f.rewardToken,
		NewRewardAmount:  2000,
		TxFeeNanoErg:     1_100_000,
	}

	_, err = actions.BuildUpdatePool(
		&sources.FakePoolBoxSource{Box: pool},
		&sources.FakeUpdateBoxSource{Box: updateBox, Exists: true},
		&sources.FakeBallotBoxesSource{Boxes: nil},
		w,
		params,
		f.poolNft,
		1000,
	)
	if err == nil {
		t.Fatalf("expected insufficient-votes error")
	}
}

func mustTokenIdLocal(t *testing.T, b byte) common.TokenId {
	t.Helper()
	id, err := common.NewTokenId(hexRepeat(b, 32))
	if err != nil {
		t.Fatalf("NewTokenId: %v", err)
	}
	return id
}
