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
	"github.com/SethDusek/oracle-core/internal/oraclerr"

	"github.com/holiman/uint256"
)

// checkedSub subtracts b from a, failing with a BoxValidation error on
// underflow rather than silently wrapping -- reward-token amounts are
// fungible on-chain tokens and an underflowing decrement would build a
// transaction the network would reject anyway (spec.md §3 "the
// reward-token reserve ... decreases each refresh").
func checkedSub(a, b uint64) (uint64, error) {
	x, y := uint256.NewInt(a), uint256.NewInt(b)
	var z uint256.Int
	if z.SubOverflow(x, y) {
		return 0, oraclerr.New(oraclerr.BoxValidation, "reward-token reserve underflow")
	}
	return z.Uint64(), nil
}

// checkedAdd adds a and b, failing with a BoxValidation error on
// overflow.
func checkedAdd(a, b uint64) (uint64, error) {
	x, y := uint256.NewInt(a), uint256.NewInt(b)
	var z uint256.Int
	if z.AddOverflow(x, y) || !z.IsUint64() {
		return 0, oraclerr.New(oraclerr.BoxValidation, "reward-token amount overflow")
	}
	return z.Uint64(), nil
}
