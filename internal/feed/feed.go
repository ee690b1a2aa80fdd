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

// Package feed supplies the current datapoint rate an operator will
// publish or refresh with. Price acquisition is an external collaborator
// (spec.md §1 Non-goals); this package only defines the composite/
// fallback shape and the nanoERG conversion arithmetic, grounded on
// original_source/connectors/erg-usd-connector and
// original_source/core/src/datapoint_source/erg_btc.rs.
package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SethDusek/oracle-core/internal/oraclerr"
)

// Source returns the current datapoint value to post on-chain, already
// denominated the way the pool contract expects (e.g. nanoERG per USD).
type Source interface {
	GetDatapoint() (uint64, error)
}

// NanoErgPerUnit converts a price quoted as units-of-fiat-per-ERG into
// the nanoERG-per-unit rate the oracle pool posts on-chain, matching
// the erg-usd-connector's `(1.0 / price) * 1_000_000_000` computation.
// price must be positive; the result truncates toward zero exactly as
// the Rust connector's `as u64` cast does.
func NanoErgPerUnit(price float64) (uint64, error) {
	if price <= 0 {
		return 0, oraclerr.New(oraclerr.Feed, "feed: non-positive price quote")
	}
	return uint64((1.0 / price) * 1_000_000_000.0), nil
}

// CompositeSource queries Primary first and falls back to Secondary if
// Primary fails, mirroring nanoerg_btc_sources' use of independent
// upstream quote providers (coingecko, coincap) for the same rate.
type CompositeSource struct {
	Primary   Source
	Secondary Source
}

func (c *CompositeSource) GetDatapoint() (uint64, error) {
	if v, err := c.Primary.GetDatapoint(); err == nil {
		return v, nil
	}
	if c.Secondary == nil {
		return 0, oraclerr.New(oraclerr.Feed, "feed: primary source failed and no secondary configured")
	}
	v, err := c.Secondary.GetDatapoint()
	if err != nil {
		return 0, oraclerr.Wrap(oraclerr.Feed, "feed: both primary and secondary sources failed", err)
	}
	return v, nil
}

// HTTPJSONSource polls a JSON HTTP endpoint for a price quote and
// converts it to nanoERG-per-unit, the one concrete Source this
// package ships: a minimal rendering of the erg-usd-connector's
// CoinGecko GET + "ergo"."usd" field extraction
// (original_source/connectors/erg-usd-connector/src/main.rs), in
// general terms so any single-field JSON price API can be configured
// by URL and field path rather than hardcoding CoinGecko.
type HTTPJSONSource struct {
	URL        string
	FieldPath  []string
	HTTPClient *http.Client
}

func (h *HTTPJSONSource) GetDatapoint() (uint64, error) {
	client := h.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Get(h.URL)
	if err != nil {
		return 0, oraclerr.Wrap(oraclerr.Feed, "feed: price request failed", err)
	}
	defer resp.Body.Close()

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return 0, oraclerr.Wrap(oraclerr.Feed, "feed: decoding price response", err)
	}

	var cur any = doc
	for _, key := range h.FieldPath {
		obj, ok := cur.(map[string]any)
		if !ok {
			return 0, oraclerr.New(oraclerr.Feed, fmt.Sprintf("feed: missing field %q in price response", key))
		}
		cur, ok = obj[key]
		if !ok {
			return 0, oraclerr.New(oraclerr.Feed, fmt.Sprintf("feed: missing field %q in price response", key))
		}
	}
	price, ok := cur.(float64)
	if !ok {
		return 0, oraclerr.New(oraclerr.Feed, "feed: price field is not a number")
	}
	return NanoErgPerUnit(price)
}

// FixedSource is a constant-rate test double.
type FixedSource struct {
	Rate uint64
	Err  error
}

func (f FixedSource) GetDatapoint() (uint64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Rate, nil
}
