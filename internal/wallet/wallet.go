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

// Package wallet is the box-selection collaborator: given a value and
// a set of tokens a transaction needs covered, it selects a set of
// spendable wallet boxes. Signing and key custody are out of core
// scope (spec.md §1) and are not modeled here at all -- only the
// selection surface the action builders call.
package wallet

import (
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
)

// Source selects a set of wallet-owned boxes whose combined nanoERG
// value is at least minNanoErg and which together carry at least the
// requested token quantities.
type Source interface {
	SelectBoxes(minNanoErg uint64, requireTokens []common.TokenAmount) ([]boxes.RawBox, error)
	ChangeAddress() string
}

// NodeWalletSource is a Source backed by the node client's wallet
// endpoints, selecting boxes with simple greedy accumulation.
type NodeWalletSource struct {
	client  nodeclient.Client
	address string
}

// New constructs a NodeWalletSource for the given node client and
// configured change address.
func New(client nodeclient.Client, changeAddress string) *NodeWalletSource {
	return &NodeWalletSource{client: client, address: changeAddress}
}

func (w *NodeWalletSource) ChangeAddress() string { return w.address }

// SelectBoxes greedily accumulates wallet boxes until minNanoErg and
// every requested token quantity is covered, failing with a
// WalletSelection error otherwise (spec.md §7 "WalletSelection errors
// are fatal for CLI commands, non-fatal for the driver loop").
func (w *NodeWalletSource) SelectBoxes(
	minNanoErg uint64,
	requireTokens []common.TokenAmount,
) ([]boxes.RawBox, error) {
	candidates, err := w.client.WalletBoxes()
	if err != nil {
		return nil, oraclerr.Wrap(oraclerr.ChainIO, "listing wallet boxes", err)
	}

	need := make(map[string]uint64, len(requireTokens))
	for _, t := range requireTokens {
		need[t.Id.String()] += t.Amount
	}

	var selected []boxes.RawBox
	var gathered uint64
	gotTokens := make(map[string]uint64)

	for _, box := range candidates {
		if gathered >= minNanoErg && tokensSatisfied(need, gotTokens) {
			break
		}
		selected = append(selected, box)
		gathered += box.Value
		for _, t := range box.Tokens {
			gotTokens[t.Id.String()] += t.Amount
		}
	}

	if gathered < minNanoErg || !tokensSatisfied(need, gotTokens) {
		return nil, oraclerr.New(
			oraclerr.WalletSelection,
			"insufficient wallet boxes to cover required value and tokens",
		)
	}
	return selected, nil
}

func tokensSatisfied(need, got map[string]uint64) bool {
	for id, amt := range need {
		if got[id] < amt {
			return false
		}
	}
	return true
}

// InMemorySource is a fixed-box test double used by action-builder
// tests.
type InMemorySource struct {
	Boxes   []boxes.RawBox
	Address string
}

func (w *InMemorySource) ChangeAddress() string { return w.Address }

func (w *InMemorySource) SelectBoxes(
	minNanoErg uint64,
	requireTokens []common.TokenAmount,
) ([]boxes.RawBox, error) {
	need := make(map[string]uint64, len(requireTokens))
	for _, t := range requireTokens {
		need[t.Id.String()] += t.Amount
	}
	var selected []boxes.RawBox
	var gathered uint64
	gotTokens := make(map[string]uint64)
	for _, box := range w.Boxes {
		if gathered >= minNanoErg && tokensSatisfied(need, gotTokens) {
			break
		}
		selected = append(selected, box)
		gathered += box.Value
		for _, t := range box.Tokens {
			gotTokens[t.Id.String()] += t.Amount
		}
	}
	if gathered < minNanoErg || !tokensSatisfied(need, gotTokens) {
		return nil, oraclerr.New(
			oraclerr.WalletSelection,
			"insufficient wallet boxes to cover required value and tokens",
		)
	}
	return selected, nil
}
