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

// mk-script-address derives the Base58 P2S address for an ErgoTree
// script, a small bootstrap/ceremony helper for operators to confirm a
// compiled contract's on-chain address before wiring it into
// oracle_config.yaml's *.contractBytesHex fields.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/config"
)

var cmdlineFlags struct {
	network    string
	scriptData string
	scriptPath string
}

func main() {
	flag.StringVar(&cmdlineFlags.scriptData, "script-data", "", "hex-encoded ErgoTree bytes")
	flag.StringVar(&cmdlineFlags.scriptPath, "script-path", "", "path to a file holding hex-encoded ErgoTree bytes")
	flag.StringVar(&cmdlineFlags.network, "network", "mainnet", "named network to generate the script address for")
	flag.Parse()

	if (cmdlineFlags.scriptPath == "" && cmdlineFlags.scriptData == "") || cmdlineFlags.network == "" {
		fmt.Println("ERROR: you must specify the network and script")
		os.Exit(1)
	}

	network := config.NetworkByName(cmdlineFlags.network)
	if network == config.NetworkInvalid {
		fmt.Printf("ERROR: unknown named network: %s\n", cmdlineFlags.network)
		os.Exit(1)
	}

	var scriptHex string
	if cmdlineFlags.scriptData != "" {
		scriptHex = cmdlineFlags.scriptData
	} else {
		raw, err := os.ReadFile(cmdlineFlags.scriptPath)
		if err != nil {
			fmt.Printf("ERROR: failed to read script file: %s\n", err)
			os.Exit(1)
		}
		scriptHex = string(raw)
	}

	treeBytes, err := hex.DecodeString(scriptHex)
	if err != nil {
		fmt.Printf("ERROR: script data is not valid hex: %s\n", err)
		os.Exit(1)
	}

	tree := common.ErgoTree(treeBytes)
	address := common.EncodeP2SAddress(tree, network.Prefix)

	fmt.Printf("ErgoTree bytes: %s\n", tree.Hex())
	fmt.Printf("Script address: %s\n", address)
}
