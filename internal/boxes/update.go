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

package boxes

import (
	"github.com/SethDusek/oracle-core/internal/common"
)

// UpdateBoxInputs is the wrapper-inputs bundle for UpdateBox.
type UpdateBoxInputs struct {
	ExpectedTree common.ErgoTree
	UpdateNftId  common.TokenId
	MinVotes     int
}

// UpdateBox is the validated singleton update box created by
// prepare-update: it carries the update NFT, and the wrapper holds the
// minimum-votes threshold (UpdateBoxInputs.MinVotes) the update-pool
// command checks (spec.md §3, §6 prepare-update/update-pool).
type UpdateBox struct {
	raw      RawBox
	minVotes int
}

// NewUpdateBox validates a raw box against UpdateBoxInputs.
func NewUpdateBox(box RawBox, in UpdateBoxInputs) (*UpdateBox, error) {
	if err := requireErgoTree(box, in.ExpectedTree, "update"); err != nil {
		return nil, err
	}
	if err := requireSingletonToken(box, in.UpdateNftId, "update-NFT", "update"); err != nil {
		return nil, err
	}
	return &UpdateBox{raw: box, minVotes: in.MinVotes}, nil
}

// Raw returns the underlying validated box.
func (u *UpdateBox) Raw() RawBox { return u.raw }

// MinVotes returns the minimum number of matching ballots required to
// authorize the update this box governs.
func (u *UpdateBox) MinVotes() int { return u.minVotes }

// Tree returns the update box's ErgoTree.
func (u *UpdateBox) Tree() common.ErgoTree { return u.raw.ErgoTree }
