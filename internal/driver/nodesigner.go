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

package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SethDusek/oracle-core/internal/actions"
)

// NodeWalletSigner is one concrete Signer: it delegates signing to the
// chain node's own unlocked wallet (the same way the original
// implementation calls wallet.sign_transaction with a node-held key),
// rather than holding any key material itself. Key custody stays with
// the node; this type only shapes the request/response around
// internal/nodeclient's REST conventions.
type NodeWalletSigner struct {
	baseUrl string
	apiKey  string
	http    *http.Client
}

// NewNodeWalletSigner constructs a NodeWalletSigner against the given
// node URL and API key.
func NewNodeWalletSigner(baseUrl, apiKey string) *NodeWalletSigner {
	return &NodeWalletSigner{
		baseUrl: baseUrl,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type signRequest struct {
	Inputs        []actions.TxInput   `json:"inputs"`
	DataInputs    []string            `json:"dataInputs"`
	Outputs       []signRequestOutput `json:"outputs"`
	Fee           uint64              `json:"fee"`
	ChangeAddress string              `json:"changeAddress"`
}

type signRequestOutput struct {
	Value          uint64            `json:"value"`
	ErgoTreeHex    string            `json:"ergoTreeHex"`
	Tokens         []signRequestToken `json:"tokens,omitempty"`
	Registers      map[string]string `json:"registers,omitempty"`
	CreationHeight uint32            `json:"creationHeight"`
}

type signRequestToken struct {
	TokenId string `json:"tokenId"`
	Amount  uint64 `json:"amount"`
}

// Sign POSTs tx to the node's wallet-transaction-sign endpoint and
// returns the signed transaction's wire bytes, ready for
// nodeclient.Client.SubmitTransaction.
func (s *NodeWalletSigner) Sign(tx *actions.UnsignedTransaction) ([]byte, error) {
	outputs := make([]signRequestOutput, len(tx.Outputs))
	for i, o := range tx.Outputs {
		tokens := make([]signRequestToken, len(o.Tokens))
		for j, t := range o.Tokens {
			tokens[j] = signRequestToken{TokenId: t.Id.String(), Amount: t.Amount}
		}
		regs := make(map[string]string, len(o.Registers))
		for k, v := range o.Registers {
			regs[k] = fmt.Sprintf("%x", v)
		}
		outputs[i] = signRequestOutput{
			Value:          o.Value,
			ErgoTreeHex:    fmt.Sprintf("%x", o.ErgoTree),
			Tokens:         tokens,
			Registers:      regs,
			CreationHeight: o.CreationHeight,
		}
	}

	req := signRequest{
		Inputs:        tx.Inputs,
		DataInputs:    tx.DataInputs,
		Outputs:       outputs,
		Fee:           tx.Fee,
		ChangeAddress: tx.ChangeAddress,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding sign request: %w", err)
	}

	httpReq, err := http.NewRequest(
		http.MethodPost,
		s.baseUrl+"/wallet/transaction/sign",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("building sign request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("api_key", s.apiKey)
	}

	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sign request failed: %w", err)
	}
	defer resp.Body.Close()
	signed, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading sign response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("node returned status %d signing transaction: %s", resp.StatusCode, string(signed))
	}
	return signed, nil
}
