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

package config

// Network identifies an Ergo network and the address-type prefix byte
// used when deriving P2PK/P2S addresses for that network.
type Network struct {
	Name   string
	Prefix byte
}

// NetworkInvalid is the zero value returned by NetworkByName when the
// name does not match a known network.
var NetworkInvalid = Network{}

// networks mirrors the teacher's ouroboros.NetworkByName lookup table,
// generalized from Cardano network magic numbers to Ergo address
// prefixes (mainnet = 0x00, testnet = 0x10).
var networks = map[string]Network{
	"mainnet": {Name: "mainnet", Prefix: 0x00},
	"testnet": {Name: "testnet", Prefix: 0x10},
}

// NetworkByName looks up a named network, returning NetworkInvalid if
// the name is not recognized.
func NetworkByName(name string) Network {
	if n, ok := networks[name]; ok {
		return n
	}
	return NetworkInvalid
}
