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

package sources

import (
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
)

// FakePoolBoxSource is an in-memory PoolBoxSource test double.
type FakePoolBoxSource struct {
	Box *boxes.PoolBox
	Err error
}

func (f *FakePoolBoxSource) GetPoolBox() (*boxes.PoolBox, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Box == nil {
		return nil, oraclerr.New(oraclerr.BoxValidation, "no pool box")
	}
	return f.Box, nil
}

// FakeRefreshBoxSource is an in-memory RefreshBoxSource test double.
type FakeRefreshBoxSource struct {
	Box *boxes.RefreshBox
	Err error
}

func (f *FakeRefreshBoxSource) GetRefreshBox() (*boxes.RefreshBox, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Box == nil {
		return nil, oraclerr.New(oraclerr.BoxValidation, "no refresh box")
	}
	return f.Box, nil
}

// FakeDatapointBoxesSource is an in-memory DatapointBoxesSource test
// double.
type FakeDatapointBoxesSource struct {
	Boxes []*boxes.OracleBox
	Err   error
}

func (f *FakeDatapointBoxesSource) GetDatapointBoxes() ([]*boxes.OracleBox, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Boxes, nil
}

// FakeLocalDatapointBoxSource is an in-memory LocalDatapointBoxSource
// test double.
type FakeLocalDatapointBoxSource struct {
	Box    *boxes.OracleBox
	Exists bool
	Err    error
}

func (f *FakeLocalDatapointBoxSource) GetLocalDatapointBox() (*boxes.OracleBox, bool, error) {
	if f.Err != nil {
		return nil, false, f.Err
	}
	return f.Box, f.Exists, nil
}

// FakeBallotBoxesSource is an in-memory BallotBoxesSource test double.
type FakeBallotBoxesSource struct {
	Boxes []*boxes.BallotBox
	Err   error
}

func (f *FakeBallotBoxesSource) GetBallotBoxes() ([]*boxes.BallotBox, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Boxes, nil
}

// FakeLocalBallotBoxSource is an in-memory LocalBallotBoxSource test
// double.
type FakeLocalBallotBoxSource struct {
	Box    *boxes.BallotBox
	Exists bool
	Err    error
}

func (f *FakeLocalBallotBoxSource) GetLocalBallotBox() (*boxes.BallotBox, bool, error) {
	if f.Err != nil {
		return nil, false, f.Err
	}
	return f.Box, f.Exists, nil
}

// FakeUpdateBoxSource is an in-memory UpdateBoxSource test double.
type FakeUpdateBoxSource struct {
	Box    *boxes.UpdateBox
	Exists bool
	Err    error
}

func (f *FakeUpdateBoxSource) GetUpdateBox() (*boxes.UpdateBox, bool, error) {
	if f.Err != nil {
		return nil, false, f.Err
	}
	return f.Box, f.Exists, nil
}
