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

// Package sources composes the scan registry into typed state sources
// (spec.md §2 "State Sources"): pool-box, refresh-box, datapoint-boxes
// and local-datapoint-box. Each is a small interface so the pool-state
// classifier, planner and action builders can be exercised against
// in-memory fakes without a live chain node.
package sources

import (
	"github.com/SethDusek/oracle-core/internal/boxes"
)

// PoolBoxSource yields the current singleton pool box.
type PoolBoxSource interface {
	GetPoolBox() (*boxes.PoolBox, error)
}

// RefreshBoxSource yields the current singleton refresh box.
type RefreshBoxSource interface {
	GetRefreshBox() (*boxes.RefreshBox, error)
}

// DatapointBoxesSource yields every currently-live oracle datapoint
// box, across all operators.
type DatapointBoxesSource interface {
	GetDatapointBoxes() ([]*boxes.OracleBox, error)
}

// LocalDatapointBoxSource yields this operator's own datapoint box, if
// one currently exists.
type LocalDatapointBoxSource interface {
	// GetLocalDatapointBox returns (box, true, nil) if this operator has
	// a live datapoint box, (nil, false, nil) if not, or a non-nil error
	// on any other failure.
	GetLocalDatapointBox() (*boxes.OracleBox, bool, error)
}

// BallotBoxesSource yields every currently-live ballot box.
type BallotBoxesSource interface {
	GetBallotBoxes() ([]*boxes.BallotBox, error)
}

// LocalBallotBoxSource yields this operator's own ballot box, if one
// currently exists.
type LocalBallotBoxSource interface {
	GetLocalBallotBox() (*boxes.BallotBox, bool, error)
}

// UpdateBoxSource yields the current singleton update box, if a
// pool-update ceremony is in progress.
type UpdateBoxSource interface {
	GetUpdateBox() (*boxes.UpdateBox, bool, error)
}
