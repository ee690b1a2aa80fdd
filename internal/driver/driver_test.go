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

package driver_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/actions"
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/driver"
	"github.com/SethDusek/oracle-core/internal/feed"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// fakeClient is a minimal nodeclient.Client double: driver.Tick only
// ever calls CurrentHeight and SubmitTransaction directly, every other
// method is reached through the sources/wallet fakes instead.
type fakeClient struct {
	height     uint32
	heightErr  error
	submitErr  error
	submitted  [][]byte
	submitTxId string
}

func (c *fakeClient) RegisterScan(string, nodeclient.ScanPredicate) (int, error) { return 0, nil }
func (c *fakeClient) UnregisterScan(int) error                                  { return nil }
func (c *fakeClient) ScanBoxes(int) ([]boxes.RawBox, error)                      { return nil, nil }
func (c *fakeClient) RequestRescan(uint64) error                                { return nil }
func (c *fakeClient) WalletBoxes() ([]boxes.RawBox, error)                      { return nil, nil }
func (c *fakeClient) CurrentHeight() (uint32, error)                            { return c.height, c.heightErr }
func (c *fakeClient) SubmitTransaction(txBytes []byte) (string, error) {
	if c.submitErr != nil {
		return "", c.submitErr
	}
	c.submitted = append(c.submitted, txBytes)
	return c.submitTxId, nil
}

func mk(t *testing.T, b byte) common.TokenId {
	t.Helper()
	const hexDigits = "0123456789abcdef"
	digit := hexDigits[b&0x0f]
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = digit
	}
	id, err := common.NewTokenId(string(buf))
	if err != nil {
		t.Fatalf("NewTokenId: %v", err)
	}
	return id
}

func newPoolBox(t *testing.T, tree common.ErgoTree, poolNft, rewardToken common.TokenId, epoch int32, rate int64, height uint32) *boxes.PoolBox {
	t.Helper()
	pb, err := boxes.NewPoolBox(boxes.RawBox{
		ErgoTree: tree,
		Value:    1_000_000,
		Tokens: []common.TokenAmount{
			{Id: poolNft, Amount: 1},
			{Id: rewardToken, Amount: 100},
		},
		Registers: map[string][]byte{
			boxes.R4: boxes.PutInt64(rate),
			boxes.R5: boxes.PutInt32(epoch),
		},
		CreationHeight: height,
	}, boxes.PoolBoxInputs{ExpectedTree: tree, PoolNftId: poolNft, RewardTokenId: rewardToken})
	if err != nil {
		t.Fatalf("building pool box: %v", err)
	}
	return pb
}

func TestTickDoesNothingWhenNoCommandDue(t *testing.T) {
	poolNft := mk(t, 0x11)
	rewardToken := mk(t, 0x44)
	oracleToken := mk(t, 0x33)
	poolTree := common.ErgoTree{0xa0}
	oracleTree := common.ErgoTree{0xa2}

	pool := newPoolBox(t, poolTree, poolNft, rewardToken, 7, 100, 500)

	localBox, err := boxes.NewOracleBox(boxes.RawBox{
		ErgoTree: oracleTree,
		Value:    1_000_000,
		Tokens: []common.TokenAmount{
			{Id: oracleToken, Amount: 1},
			{Id: rewardToken, Amount: 1},
		},
		Registers: map[string][]byte{
			boxes.R4: []byte{0x01},
			boxes.R5: boxes.PutInt32(7),
			boxes.R6: boxes.PutInt64(100),
		},
		CreationHeight: 500,
	}, boxes.OracleBoxInputs{ExpectedTree: oracleTree, OracleTokenId: oracleToken, RewardTokenId: rewardToken})
	if err != nil {
		t.Fatalf("building local oracle box: %v", err)
	}

	client := &fakeClient{height: 510}
	d := &driver.Driver{
		Client:            client,
		PoolSrc:           &sources.FakePoolBoxSource{Box: pool},
		LocalSrc:          &sources.FakeLocalDatapointBoxSource{Box: localBox, Exists: true},
		EpochLengthBlocks: 30,
	}

	if err := d.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.submitted) != 0 {
		t.Errorf("expected no transaction submitted, got %d", len(client.submitted))
	}
}

func TestTickBuildsPublishFirstWhenNoLocalBox(t *testing.T) {
	poolNft := mk(t, 0x11)
	rewardToken := mk(t, 0x44)
	oracleToken := mk(t, 0x33)
	poolTree := common.ErgoTree{0xa0}
	oracleTree := common.ErgoTree{0xa2}

	pool := newPoolBox(t, poolTree, poolNft, rewardToken, 7, 100, 500)

	client := &fakeClient{height: 510, submitTxId: "txid-1"}
	d := &driver.Driver{
		Client:            client,
		PoolSrc:           &sources.FakePoolBoxSource{Box: pool},
		LocalSrc:          &sources.FakeLocalDatapointBoxSource{Exists: false},
		WalletSrc: &wallet.InMemorySource{
			Boxes: []boxes.RawBox{{
				BoxId: "wallet-box",
				Value: 10_000_000,
				Tokens: []common.TokenAmount{
					{Id: oracleToken, Amount: 1},
					{Id: rewardToken, Amount: 1},
				},
			}},
			Address: "9fChange",
		},
		FeedSrc:           feed.FixedSource{Rate: 123},
		EpochLengthBlocks: 30,
		PublishFirstParams: actions.PublishFirstParams{
			OracleTree:     oracleTree,
			OracleTokenId:  oracleToken,
			RewardTokenId:  rewardToken,
			MinStorageRent: 1_000_000,
			TxFeeNanoErg:   1_000_000,
			OperatorPubKey: []byte{0x09},
		},
		Signer: fakeSigner{},
	}

	if err := d.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.submitted) != 1 {
		t.Fatalf("expected 1 transaction submitted, got %d", len(client.submitted))
	}
}

func TestTickReadOnlyBuildsButNeverSubmits(t *testing.T) {
	poolNft := mk(t, 0x11)
	rewardToken := mk(t, 0x44)
	oracleToken := mk(t, 0x33)
	poolTree := common.ErgoTree{0xa0}
	oracleTree := common.ErgoTree{0xa2}

	pool := newPoolBox(t, poolTree, poolNft, rewardToken, 7, 100, 500)

	client := &fakeClient{height: 510}
	d := &driver.Driver{
		Client:   client,
		PoolSrc:  &sources.FakePoolBoxSource{Box: pool},
		LocalSrc: &sources.FakeLocalDatapointBoxSource{Exists: false},
		WalletSrc: &wallet.InMemorySource{
			Boxes: []boxes.RawBox{{
				BoxId: "wallet-box",
				Value: 10_000_000,
				Tokens: []common.TokenAmount{
					{Id: oracleToken, Amount: 1},
					{Id: rewardToken, Amount: 1},
				},
			}},
			Address: "9fChange",
		},
		FeedSrc:           feed.FixedSource{Rate: 123},
		EpochLengthBlocks: 30,
		PublishFirstParams: actions.PublishFirstParams{
			OracleTree:     oracleTree,
			OracleTokenId:  oracleToken,
			RewardTokenId:  rewardToken,
			MinStorageRent: 1_000_000,
			TxFeeNanoErg:   1_000_000,
			OperatorPubKey: []byte{0x09},
		},
	}

	if !d.ReadOnly() {
		t.Fatalf("expected driver with nil Signer to be read-only")
	}
	if err := d.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.submitted) != 0 {
		t.Errorf("expected no transaction submitted in read-only mode, got %d", len(client.submitted))
	}
}

func TestTickSwallowsConsensusErrorFromRefresh(t *testing.T) {
	poolNft := mk(t, 0x11)
	refreshNft := mk(t, 0x22)
	rewardToken := mk(t, 0x44)
	poolTree := common.ErgoTree{0xa0}
	refreshTree := common.ErgoTree{0xa1}

	// A pool box already past its epoch boundary triggers
	// CommandRefresh; with zero datapoint boxes available the refresh
	// builder fails with a Consensus-kind FailedToReachConsensus error,
	// which the driver must downgrade to a logged, skipped tick.
	pool := newPoolBox(t, poolTree, poolNft, rewardToken, 7, 100, 400)
	refresh, err := boxes.NewRefreshBox(boxes.RawBox{
		ErgoTree:       refreshTree,
		Value:          1_000_000,
		Tokens:         []common.TokenAmount{{Id: refreshNft, Amount: 1}},
		CreationHeight: 400,
	}, boxes.RefreshBoxInputs{ExpectedTree: refreshTree, RefreshNftId: refreshNft})
	if err != nil {
		t.Fatalf("building refresh box: %v", err)
	}

	client := &fakeClient{height: 500}
	d := &driver.Driver{
		Client:            client,
		PoolSrc:           &sources.FakePoolBoxSource{Box: pool},
		RefreshSrc:        &sources.FakeRefreshBoxSource{Box: refresh},
		DatapointSrc:      &sources.FakeDatapointBoxesSource{Boxes: nil},
		LocalSrc:          &sources.FakeLocalDatapointBoxSource{Exists: false},
		WalletSrc:         &wallet.InMemorySource{Address: "9fChange"},
		EpochLengthBlocks: 30,
		RefreshParams: actions.RefreshParams{
			MaxDeviationPercent: 5,
			MinDataPoints:       2,
			EpochLengthBlocks:   30,
			TxFeeNanoErg:        1_000_000,
			PoolNftId:           poolNft,
			RefreshNftId:        refreshNft,
			RewardTokenId:       rewardToken,
		},
	}

	if err := d.Tick(); err != nil {
		t.Fatalf("expected Consensus error to be swallowed, got: %v", err)
	}
	if len(client.submitted) != 0 {
		t.Errorf("expected no transaction submitted, got %d", len(client.submitted))
	}
}

func TestTickPropagatesChainIOErrorFromCurrentHeight(t *testing.T) {
	client := &fakeClient{heightErr: oraclerr.New(oraclerr.ChainIO, "node unreachable")}
	d := &driver.Driver{Client: client}

	err := d.Tick()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !oraclerr.Is(err, oraclerr.ChainIO) {
		t.Errorf("expected a ChainIO-kind error, got %v", err)
	}
}

type fakeSigner struct{}

func (fakeSigner) Sign(tx *actions.UnsignedTransaction) ([]byte, error) {
	return []byte("signed"), nil
}
