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

// Package nodeclient is the chain-node RPC collaborator: unspent-box
// queries, scan (un)registration, and transaction submission. This is
// explicitly out of core scope (spec.md §1) -- it is modeled here only
// at the interface the core depends on, with a thin REST implementation
// against an Ergo-node-shaped API so the rest of the module has
// something concrete to run against.
package nodeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SethDusek/oracle-core/internal/boxes"
)

// ScanPredicate is a structured UTXO filter installed on the node: any
// non-empty field must match for a box to be returned by the scan
// (spec.md §4.2).
type ScanPredicate struct {
	ErgoTree        []byte
	ContainsTokenId string
	RegisterEquals  map[string][]byte
}

// Client is the node RPC surface the scan registry and wallet source
// depend on.
type Client interface {
	RegisterScan(name string, predicate ScanPredicate) (int, error)
	UnregisterScan(scanId int) error
	ScanBoxes(scanId int) ([]boxes.RawBox, error)
	RequestRescan(fromHeight uint64) error
	CurrentHeight() (uint32, error)
	WalletBoxes() ([]boxes.RawBox, error)
	SubmitTransaction(txBytes []byte) (string, error)
}

// RestClient is a Client backed by an Ergo-node-shaped HTTP/JSON API.
type RestClient struct {
	baseUrl string
	apiKey  string
	http    *http.Client
}

// New constructs a RestClient against the given node URL and API key.
func New(baseUrl, apiKey string) *RestClient {
	return &RestClient{
		baseUrl: baseUrl,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *RestClient) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseUrl+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api_key", c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("node request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("node returned status %d: %s", resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding node response: %w", err)
	}
	return nil
}

func (c *RestClient) RegisterScan(name string, predicate ScanPredicate) (int, error) {
	var resp struct {
		ScanId int `json:"scanId"`
	}
	req := struct {
		ScanName        string            `json:"scanName"`
		TrackingRule    ScanPredicate     `json:"trackingRule"`
	}{ScanName: name, TrackingRule: predicate}
	if err := c.do(http.MethodPost, "/scan/register", req, &resp); err != nil {
		return 0, err
	}
	return resp.ScanId, nil
}

func (c *RestClient) UnregisterScan(scanId int) error {
	req := struct {
		ScanId int `json:"scanId"`
	}{ScanId: scanId}
	return c.do(http.MethodPost, "/scan/deregister", req, nil)
}

func (c *RestClient) ScanBoxes(scanId int) ([]boxes.RawBox, error) {
	var resp []boxes.RawBox
	path := fmt.Sprintf("/scan/unspentBoxes/%d", scanId)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *RestClient) RequestRescan(fromHeight uint64) error {
	req := struct {
		Height uint64 `json:"height"`
	}{Height: fromHeight}
	return c.do(http.MethodPost, "/wallet/rescan", req, nil)
}

func (c *RestClient) CurrentHeight() (uint32, error) {
	var resp struct {
		FullHeight uint32 `json:"fullHeight"`
	}
	if err := c.do(http.MethodGet, "/info", nil, &resp); err != nil {
		return 0, err
	}
	return resp.FullHeight, nil
}

func (c *RestClient) WalletBoxes() ([]boxes.RawBox, error) {
	var resp []boxes.RawBox
	if err := c.do(http.MethodGet, "/wallet/boxes/unspent", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *RestClient) SubmitTransaction(txBytes []byte) (string, error) {
	var resp string
	if err := c.do(http.MethodPost, "/transactions", json.RawMessage(txBytes), &resp); err != nil {
		return "", err
	}
	return resp, nil
}
