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

// Package actions builds unsigned transactions for each protocol
// action (spec.md §4.5): publish-first, publish-subsequent, refresh,
// transfer-oracle-token, plus the supplemented update-ceremony and
// reward-extraction commands. None of these sign or submit -- signing
// and submission are external collaborators (spec.md §1).
package actions

import (
	"github.com/SethDusek/oracle-core/internal/boxes"
)

// TxInput is one spent box plus the context-extension values its
// spending script requires (spec.md §4.5.3 step 11).
type TxInput struct {
	BoxId            string
	ContextExtension map[int]int32
}

// UnsignedTransaction is the action builders' common output: a set of
// inputs (with any required context extensions), a set of output
// candidates, and the fee/change parameters the external signer needs.
type UnsignedTransaction struct {
	Inputs        []TxInput
	DataInputs    []string
	Outputs       []boxes.BoxCandidate
	Fee           uint64
	ChangeAddress string
	CreationHeight uint32
}

func inputFor(boxId string) TxInput {
	return TxInput{BoxId: boxId}
}
