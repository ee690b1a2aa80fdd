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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContractHashes is the print-contract-hashes CLI command's payload: a
// Blake2b256 hash of each configured contract's ErgoTree bytes, used by
// operators to confirm their local configuration matches the
// on-chain-deployed scripts (spec.md §6 print-contract-hashes,
// supplemented from the original implementation's equivalent command).
type ContractHashes struct {
	Pool    string
	Refresh string
	Oracle  string
	Ballot  string
	Update  string
}

// hashTree returns the hex-encoded Blake2b256 digest of tree's bytes,
// or "" if tree is empty (contract not configured).
func hashTree(tree []byte) string {
	if len(tree) == 0 {
		return ""
	}
	sum := blake2b.Sum256(tree)
	return hex.EncodeToString(sum[:])
}

// ComputeContractHashes hashes each of the given raw ErgoTree byte
// strings.
func ComputeContractHashes(pool, refresh, oracle, ballot, update []byte) ContractHashes {
	return ContractHashes{
		Pool:    hashTree(pool),
		Refresh: hashTree(refresh),
		Oracle:  hashTree(oracle),
		Ballot:  hashTree(ballot),
		Update:  hashTree(update),
	}
}
