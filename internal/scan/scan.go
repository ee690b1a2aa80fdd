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

// Package scan is the named persistent UTXO filter registry (spec.md
// §4.2): it installs tracking predicates on the chain node, persists
// the name→scanId assignment to a sidecar, and resolves scans back to
// boxes on every tick.
package scan

import (
	"fmt"

	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/logging"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/storage"
)

// Registry holds the set of named scans installed for this run.
type Registry struct {
	client nodeclient.Client
	store  *storage.Storage
}

// New constructs a Registry over the given node client and sidecar
// store.
func New(client nodeclient.Client, store *storage.Storage) *Registry {
	return &Registry{client: client, store: store}
}

// Register installs (or reuses, if previously persisted) a named scan
// for predicate, returning its scan id. Idempotent by name: on
// restart, a previously persisted scan id is reused without contacting
// the node again.
func (r *Registry) Register(name string, predicate nodeclient.ScanPredicate) (int, error) {
	if id, ok, err := r.store.LoadScanId(name); err != nil {
		return 0, oraclerr.Wrap(oraclerr.ChainIO, "loading persisted scan id", err)
	} else if ok {
		return id, nil
	}

	id, err := r.client.RegisterScan(name, predicate)
	if err != nil {
		return 0, oraclerr.Wrap(oraclerr.ChainIO, fmt.Sprintf("registering scan %q", name), err)
	}
	if err := r.store.SaveScanId(name, id); err != nil {
		return 0, oraclerr.Wrap(oraclerr.ChainIO, "persisting scan id", err)
	}
	logging.GetLogger().Info("registered scan", "name", name, "scanId", id)
	return id, nil
}

// Reregister forces re-registration of a scan regardless of any
// persisted id, used during restart reconciliation when the tracked
// predicate has changed (spec.md §4.2 "Policy on restart").
func (r *Registry) Reregister(name string, predicate nodeclient.ScanPredicate) (int, error) {
	if oldId, ok, err := r.store.LoadScanId(name); err == nil && ok {
		_ = r.client.UnregisterScan(oldId)
		_ = r.store.DeleteScanId(name)
	}
	id, err := r.client.RegisterScan(name, predicate)
	if err != nil {
		return 0, oraclerr.Wrap(oraclerr.ChainIO, fmt.Sprintf("re-registering scan %q", name), err)
	}
	if err := r.store.SaveScanId(name, id); err != nil {
		return 0, oraclerr.Wrap(oraclerr.ChainIO, "persisting scan id", err)
	}
	logging.GetLogger().Info("re-registered scan", "name", name, "scanId", id)
	return id, nil
}

// GetBoxes returns every box currently matching the given scan id.
func (r *Registry) GetBoxes(scanId int) ([]boxes.RawBox, error) {
	bs, err := r.client.ScanBoxes(scanId)
	if err != nil {
		return nil, oraclerr.Wrap(oraclerr.ChainIO, "fetching scan boxes", err)
	}
	return bs, nil
}

// GetBox returns the first box matching the given scan id, or a
// BoxValidation error if none match -- the caller (a State Source)
// interprets this as "not found" for the pool-state classifier.
func (r *Registry) GetBox(scanId int) (boxes.RawBox, error) {
	bs, err := r.GetBoxes(scanId)
	if err != nil {
		return boxes.RawBox{}, err
	}
	if len(bs) == 0 {
		return boxes.RawBox{}, oraclerr.New(oraclerr.BoxValidation, "no box currently matches scan")
	}
	return bs[0], nil
}

// RescanFrom requests the node re-index the UTXO set from fromHeight,
// used when scans are first installed or pool parameters change.
func (r *Registry) RescanFrom(fromHeight uint64) error {
	if err := r.client.RequestRescan(fromHeight); err != nil {
		return oraclerr.Wrap(oraclerr.ChainIO, "requesting rescan", err)
	}
	logging.GetLogger().Info("requested rescan", "fromHeight", fromHeight)
	return nil
}

// Reconcile compares the observed pool-box ergo-tree hash and
// reward-token id against the local configuration's last-known values;
// if either has changed, every given scan is re-registered and a
// rescan is requested from fromHeight (spec.md §4.2 restart policy,
// the pool-update ceremony reconciliation path).
func (r *Registry) Reconcile(
	observedPoolTreeHash, configuredPoolTreeHash string,
	observedRewardTokenId, configuredRewardTokenId string,
	scans map[string]nodeclient.ScanPredicate,
	rescanFromHeight uint64,
) error {
	if observedPoolTreeHash == configuredPoolTreeHash &&
		observedRewardTokenId == configuredRewardTokenId {
		return nil
	}
	logging.GetLogger().Warn(
		"pool parameters changed since last run, re-registering scans",
		"observedPoolTreeHash", observedPoolTreeHash,
		"observedRewardTokenId", observedRewardTokenId,
	)
	for name, predicate := range scans {
		if _, err := r.Reregister(name, predicate); err != nil {
			return err
		}
	}
	return r.RescanFrom(rescanFromHeight)
}
