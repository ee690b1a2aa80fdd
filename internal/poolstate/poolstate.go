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

// Package poolstate classifies current on-chain state into one of a
// small enumeration of protocol states (spec.md §4.3).
package poolstate

import (
	"github.com/SethDusek/oracle-core/internal/sources"
)

// Kind enumerates the pool-state classifier's output cases.
type Kind int

const (
	// NeedsBootstrap means the pool-box source returned not-found or
	// any error.
	NeedsBootstrap Kind = iota
	// LiveEpoch means the pool is live and mid-epoch (or past its
	// epoch boundary, for the planner to decide what to do about it).
	LiveEpoch
)

// State is the pool-state classifier's result.
type State struct {
	Kind Kind

	// The following fields are only meaningful when Kind == LiveEpoch.
	EpochId               int32
	EpochEndsHeight       uint32
	LatestRate            int64
	LocalPublishedThisEpoch bool
}

// Classify implements spec.md §4.3: NeedsBootstrap if the pool-box
// source fails, else LiveEpoch with epoch_ends_height = pool box
// creation height + epoch length, and
// local_published_this_epoch = local datapoint exists AND its epoch
// counter equals the pool's.
func Classify(
	poolSource sources.PoolBoxSource,
	localSource sources.LocalDatapointBoxSource,
	epochLengthBlocks uint32,
) (State, error) {
	pool, err := poolSource.GetPoolBox()
	if err != nil {
		return State{Kind: NeedsBootstrap}, nil
	}

	localPublished := false
	if localSource != nil {
		local, exists, err := localSource.GetLocalDatapointBox()
		if err != nil {
			return State{}, err
		}
		if exists && local.EpochId() == pool.EpochId() {
			localPublished = true
		}
	}

	return State{
		Kind:                    LiveEpoch,
		EpochId:                 pool.EpochId(),
		EpochEndsHeight:         pool.CreationHeight() + epochLengthBlocks,
		LatestRate:              pool.Rate(),
		LocalPublishedThisEpoch: localPublished,
	}, nil
}
