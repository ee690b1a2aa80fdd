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

package scan_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/config"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/scan"
	"github.com/SethDusek/oracle-core/internal/storage"
)

type fakeClient struct {
	nextScanId     int
	registered     map[string]nodeclient.ScanPredicate
	unregistered   []int
	boxesByScanId  map[int][]boxes.RawBox
	rescanRequests []uint64
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		registered:    make(map[string]nodeclient.ScanPredicate),
		boxesByScanId: make(map[int][]boxes.RawBox),
	}
}

func (f *fakeClient) RegisterScan(name string, predicate nodeclient.ScanPredicate) (int, error) {
	f.nextScanId++
	f.registered[name] = predicate
	return f.nextScanId, nil
}

func (f *fakeClient) UnregisterScan(scanId int) error {
	f.unregistered = append(f.unregistered, scanId)
	return nil
}

func (f *fakeClient) ScanBoxes(scanId int) ([]boxes.RawBox, error) {
	return f.boxesByScanId[scanId], nil
}

func (f *fakeClient) RequestRescan(fromHeight uint64) error {
	f.rescanRequests = append(f.rescanRequests, fromHeight)
	return nil
}

func (f *fakeClient) CurrentHeight() (uint32, error)              { return 0, nil }
func (f *fakeClient) WalletBoxes() ([]boxes.RawBox, error)        { return nil, nil }
func (f *fakeClient) SubmitTransaction(_ []byte) (string, error) { return "", nil }

func newTestRegistry(t *testing.T) (*scan.Registry, *fakeClient) {
	t.Helper()
	config.Reset()
	cfg := config.GetConfig()
	cfg.Storage.Directory = t.TempDir()
	store := &storage.Storage{}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	client := newFakeClient()
	return scan.New(client, store), client
}

func TestRegisterIsIdempotentByName(t *testing.T) {
	r, client := newTestRegistry(t)

	id1, err := r.Register("pool", nodeclient.ScanPredicate{ContainsTokenId: "abc"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	id2, err := r.Register("pool", nodeclient.ScanPredicate{ContainsTokenId: "abc"})
	if err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected idempotent scan id, got %d and %d", id1, id2)
	}
	if client.nextScanId != 1 {
		t.Fatalf("expected node RegisterScan to be called exactly once, called %d times", client.nextScanId)
	}
}

func TestGetBoxReturnsNotFoundWhenEmpty(t *testing.T) {
	r, _ := newTestRegistry(t)
	id, err := r.Register("pool", nodeclient.ScanPredicate{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := r.GetBox(id); err == nil {
		t.Fatalf("expected not-found error for empty scan")
	}
}

func TestReregisterUnregistersPriorScan(t *testing.T) {
	r, client := newTestRegistry(t)
	id1, err := r.Register("pool", nodeclient.ScanPredicate{})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	id2, err := r.Reregister("pool", nodeclient.ScanPredicate{})
	if err != nil {
		t.Fatalf("Reregister failed: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected a fresh scan id after Reregister")
	}
	if len(client.unregistered) != 1 || client.unregistered[0] != id1 {
		t.Fatalf("expected old scan id %d to be unregistered, got %v", id1, client.unregistered)
	}
}

func TestReconcileNoopWhenUnchanged(t *testing.T) {
	r, client := newTestRegistry(t)
	if _, err := r.Register("pool", nodeclient.ScanPredicate{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Reconcile("hash1", "hash1", "tok1", "tok1", nil, 0); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(client.rescanRequests) != 0 {
		t.Fatalf("expected no rescan when nothing changed")
	}
}

func TestReconcileRescansOnChange(t *testing.T) {
	r, client := newTestRegistry(t)
	if _, err := r.Register("pool", nodeclient.ScanPredicate{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	scans := map[string]nodeclient.ScanPredicate{"pool": {}}
	if err := r.Reconcile("hash1", "hash2", "tok1", "tok1", scans, 500); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(client.rescanRequests) != 1 || client.rescanRequests[0] != 500 {
		t.Fatalf("expected a rescan from height 500, got %v", client.rescanRequests)
	}
}
