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

// Package driver runs the single-threaded tick loop (spec.md §5):
// scan -> classify -> plan -> build -> sign -> submit, downgrading
// Consensus and Feed errors to a logged-and-skipped tick rather than
// propagating them.
package driver

import (
	"time"

	"github.com/SethDusek/oracle-core/internal/actions"
	"github.com/SethDusek/oracle-core/internal/feed"
	"github.com/SethDusek/oracle-core/internal/httpapi"
	"github.com/SethDusek/oracle-core/internal/logging"
	"github.com/SethDusek/oracle-core/internal/metrics"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/planner"
	"github.com/SethDusek/oracle-core/internal/poolstate"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

// Signer is the external signing collaborator (spec.md §1): it takes
// an unsigned transaction and returns signed, submittable wire bytes.
// Key custody and the signing algorithm itself are out of core scope.
type Signer interface {
	Sign(tx *actions.UnsignedTransaction) ([]byte, error)
}

// TickInterval is the polling period between driver-loop ticks
// (spec.md §5).
const TickInterval = 30 * time.Second

// Driver wires every state source, the command planner, and the
// action builders into one polling loop.
type Driver struct {
	Client nodeclient.Client
	Signer Signer

	PoolSrc      sources.PoolBoxSource
	RefreshSrc   sources.RefreshBoxSource
	DatapointSrc sources.DatapointBoxesSource
	LocalSrc     sources.LocalDatapointBoxSource
	WalletSrc    wallet.Source
	FeedSrc      feed.Source

	MyPubKey          []byte
	EpochLengthBlocks uint32

	RefreshParams           actions.RefreshParams
	PublishFirstParams      actions.PublishFirstParams
	PublishSubsequentParams actions.PublishSubsequentParams

	// Status, if non-nil, receives a published Snapshot at the end of
	// every tick (spec.md §6 "enable-rest-api") for internal/httpapi to
	// serve read-only.
	Status *httpapi.Store
}

// ReadOnly reports whether the driver was configured without a signer,
// in which case Tick builds and logs actions but never submits them
// (spec.md §6 "run --read-only").
func (d *Driver) ReadOnly() bool { return d.Signer == nil }

// Tick runs one iteration of the loop. Consensus and Feed errors are
// logged and swallowed per oraclerr.IsNonFatalInDriver; every other
// error is returned so the caller can decide whether to keep running.
func (d *Driver) Tick() (tickErr error) {
	metrics.TicksTotal.Inc()
	logger := logging.Component("driver")

	var state poolstate.State
	var cmd planner.Command
	if d.Status != nil {
		defer func() {
			d.publishSnapshot(state, cmd, tickErr)
		}()
	}

	height, err := d.Client.CurrentHeight()
	if err != nil {
		return oraclerr.Wrap(oraclerr.ChainIO, "fetching current height", err)
	}

	state, err = poolstate.Classify(d.PoolSrc, d.LocalSrc, d.EpochLengthBlocks)
	if err != nil {
		return err
	}
	metrics.LastEpochId.Set(float64(state.EpochId))

	cmd = planner.Plan(state, height)
	logger.Debug("planned command", "kind", cmd.Kind, "height", height)

	var tx *actions.UnsignedTransaction
	switch cmd.Kind {
	case planner.CommandNone:
		return nil
	case planner.CommandBootstrap:
		// Bootstrap is an explicit operator-driven CLI command (spec.md
		// §6 "bootstrap"), not something the tick loop performs on its
		// own initiative.
		logger.Info("pool needs bootstrap; run the bootstrap command")
		return nil
	case planner.CommandRefresh:
		tx, err = actions.BuildRefresh(
			d.PoolSrc, d.RefreshSrc, d.DatapointSrc, d.WalletSrc,
			d.RefreshParams, height, d.MyPubKey,
		)
	case planner.CommandPublishDataPoint:
		if state.Kind == poolstate.LiveEpoch && !state.LocalPublishedThisEpoch {
			if _, exists, lerr := d.LocalSrc.GetLocalDatapointBox(); lerr == nil && exists {
				subsequentParams := d.PublishSubsequentParams
				subsequentParams.PoolEpochId = state.EpochId
				tx, err = actions.BuildPublishSubsequent(
					d.LocalSrc, d.FeedSrc, d.WalletSrc, subsequentParams, height,
				)
			} else {
				tx, err = actions.BuildPublishFirst(
					d.FeedSrc, d.WalletSrc, d.PublishFirstParams, height,
				)
			}
		}
	}

	if err != nil {
		if oraclerr.IsNonFatalInDriver(err) {
			if oraclerr.Is(err, oraclerr.Consensus) {
				metrics.ConsensusFailuresTotal.Inc()
			}
			logger.Warn("tick skipped on non-fatal error", "error", err)
			return nil
		}
		return err
	}
	if tx == nil {
		return nil
	}

	metrics.ActionsBuiltTotal.WithLabelValues(cmd.Kind.String()).Inc()

	if d.ReadOnly() {
		logger.Info("read-only mode: built transaction but not submitting",
			"inputs", len(tx.Inputs), "outputs", len(tx.Outputs))
		return nil
	}

	signed, err := d.Signer.Sign(tx)
	if err != nil {
		return oraclerr.Wrap(oraclerr.ChainIO, "signing transaction", err)
	}
	txId, err := d.Client.SubmitTransaction(signed)
	if err != nil {
		return oraclerr.Wrap(oraclerr.ChainIO, "submitting transaction", err)
	}
	logger.Info("submitted transaction", "txId", txId, "command", cmd.Kind)
	return nil
}

// publishSnapshot reports the tick's observed state to the status
// store so internal/httpapi can serve it read-only. tickErr may be
// nil even for a swallowed non-fatal error, since Tick itself returns
// nil in that case; LastTickErr is left blank in that case too since a
// "non-fatal error" is already distinct from operational failure in
// the logs.
func (d *Driver) publishSnapshot(state poolstate.State, cmd planner.Command, tickErr error) {
	snap := httpapi.Snapshot{
		LastTickAt:              time.Now(),
		LastCommand:             cmd.Kind.String(),
		EpochId:                 state.EpochId,
		EpochEndsHeight:         state.EpochEndsHeight,
		LatestRate:              state.LatestRate,
		LocalPublishedThisEpoch: state.LocalPublishedThisEpoch,
	}
	if state.Kind == poolstate.NeedsBootstrap {
		snap.PoolStateKind = "needs_bootstrap"
	} else {
		snap.PoolStateKind = "live_epoch"
	}
	if tickErr != nil {
		snap.LastTickErr = tickErr.Error()
	}
	if d.LocalSrc != nil {
		if local, exists, err := d.LocalSrc.GetLocalDatapointBox(); err == nil && exists {
			snap.LocalDatapointExists = true
			snap.LocalDatapointRate = local.Rate()
			snap.LocalDatapointEpoch = local.EpochId()
		}
	}
	d.Status.Update(snap)
}

// Run blocks, ticking every TickInterval until stop is closed. Errors
// from Tick are logged; the loop keeps running across ticks so a
// single bad tick doesn't take the process down (spec.md §5, §7
// "driver loop... keeps running").
func Run(d *Driver, stop <-chan struct{}) {
	logger := logging.Component("driver")
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := d.Tick(); err != nil {
				logger.Error("tick failed", "error", err)
			}
		}
	}
}
