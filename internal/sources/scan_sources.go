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
	"github.com/SethDusek/oracle-core/internal/scan"
)

// ScanPoolBoxSource resolves the pool box through a registered scan.
type ScanPoolBoxSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.PoolBoxInputs
}

func (s *ScanPoolBoxSource) GetPoolBox() (*boxes.PoolBox, error) {
	raw, err := s.Registry.GetBox(s.ScanId)
	if err != nil {
		return nil, err
	}
	return boxes.NewPoolBox(raw, s.Inputs)
}

// ScanRefreshBoxSource resolves the refresh box through a registered
// scan.
type ScanRefreshBoxSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.RefreshBoxInputs
}

func (s *ScanRefreshBoxSource) GetRefreshBox() (*boxes.RefreshBox, error) {
	raw, err := s.Registry.GetBox(s.ScanId)
	if err != nil {
		return nil, err
	}
	return boxes.NewRefreshBox(raw, s.Inputs)
}

// ScanDatapointBoxesSource resolves every live oracle datapoint box
// through a registered scan.
type ScanDatapointBoxesSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.OracleBoxInputs
}

func (s *ScanDatapointBoxesSource) GetDatapointBoxes() ([]*boxes.OracleBox, error) {
	raws, err := s.Registry.GetBoxes(s.ScanId)
	if err != nil {
		return nil, err
	}
	out := make([]*boxes.OracleBox, 0, len(raws))
	for _, raw := range raws {
		ob, err := boxes.NewOracleBox(raw, s.Inputs)
		if err != nil {
			// A malformed datapoint box is skipped, not fatal: spec.md
			// §4.5.3 step 2 only considers boxes matching the epoch
			// predicate, and a box this scan surfaced that fails
			// wrapper validation cannot be a candidate either way.
			continue
		}
		out = append(out, ob)
	}
	return out, nil
}

// ScanLocalDatapointBoxSource resolves this operator's own datapoint
// box by filtering the datapoint scan's results down to boxes whose R4
// matches the configured operator public key.
type ScanLocalDatapointBoxSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.OracleBoxInputs
	PubKey   []byte
}

func (s *ScanLocalDatapointBoxSource) GetLocalDatapointBox() (*boxes.OracleBox, bool, error) {
	raws, err := s.Registry.GetBoxes(s.ScanId)
	if err != nil {
		if oraclerr.Is(err, oraclerr.BoxValidation) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, raw := range raws {
		ob, err := boxes.NewOracleBox(raw, s.Inputs)
		if err != nil {
			continue
		}
		if bytesEqual(ob.PublicKey(), s.PubKey) {
			return ob, true, nil
		}
	}
	return nil, false, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ScanBallotBoxesSource resolves every live ballot box through a
// registered scan.
type ScanBallotBoxesSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.BallotBoxInputs
}

func (s *ScanBallotBoxesSource) GetBallotBoxes() ([]*boxes.BallotBox, error) {
	raws, err := s.Registry.GetBoxes(s.ScanId)
	if err != nil {
		return nil, err
	}
	out := make([]*boxes.BallotBox, 0, len(raws))
	for _, raw := range raws {
		bb, err := boxes.NewBallotBox(raw, s.Inputs)
		if err != nil {
			continue
		}
		out = append(out, bb)
	}
	return out, nil
}

// ScanLocalBallotBoxSource resolves this operator's own ballot box.
type ScanLocalBallotBoxSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.BallotBoxInputs
	PubKey   []byte
}

func (s *ScanLocalBallotBoxSource) GetLocalBallotBox() (*boxes.BallotBox, bool, error) {
	raws, err := s.Registry.GetBoxes(s.ScanId)
	if err != nil {
		if oraclerr.Is(err, oraclerr.BoxValidation) {
			return nil, false, nil
		}
		return nil, false, err
	}
	for _, raw := range raws {
		bb, err := boxes.NewBallotBox(raw, s.Inputs)
		if err != nil {
			continue
		}
		if bb.OwnerMatches(s.PubKey) {
			return bb, true, nil
		}
	}
	return nil, false, nil
}

// ScanUpdateBoxSource resolves the update box, if present, through a
// registered scan.
type ScanUpdateBoxSource struct {
	Registry *scan.Registry
	ScanId   int
	Inputs   boxes.UpdateBoxInputs
}

func (s *ScanUpdateBoxSource) GetUpdateBox() (*boxes.UpdateBox, bool, error) {
	raw, err := s.Registry.GetBox(s.ScanId)
	if err != nil {
		if oraclerr.Is(err, oraclerr.BoxValidation) {
			return nil, false, nil
		}
		return nil, false, err
	}
	ub, err := boxes.NewUpdateBox(raw, s.Inputs)
	if err != nil {
		return nil, false, err
	}
	return ub, true, nil
}
