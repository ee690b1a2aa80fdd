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

// RefreshBoxInputs is the wrapper-inputs bundle for RefreshBox.
type RefreshBoxInputs struct {
	ExpectedTree common.ErgoTree
	RefreshNftId common.TokenId
}

// RefreshBox is the validated singleton refresh box; its presence and
// spend gates a refresh action (spec.md §3, §4.1).
type RefreshBox struct {
	raw RawBox
}

// NewRefreshBox validates a raw box against RefreshBoxInputs.
func NewRefreshBox(box RawBox, in RefreshBoxInputs) (*RefreshBox, error) {
	if err := requireErgoTree(box, in.ExpectedTree, "refresh"); err != nil {
		return nil, err
	}
	if err := requireSingletonToken(box, in.RefreshNftId, "refresh-NFT", "refresh"); err != nil {
		return nil, err
	}
	return &RefreshBox{raw: box}, nil
}

// Raw returns the underlying validated box.
func (r *RefreshBox) Raw() RawBox { return r.raw }

// Value returns the box's nanoERG value.
func (r *RefreshBox) Value() uint64 { return r.raw.Value }

// Tree returns the refresh box's ErgoTree.
func (r *RefreshBox) Tree() common.ErgoTree { return r.raw.ErgoTree }

// CreationHeight returns the height at which this refresh box was
// created.
func (r *RefreshBox) CreationHeight() uint32 { return r.raw.CreationHeight }
