// Copyright 2023 Blink Labs Software
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

package storage_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/config"
	"github.com/SethDusek/oracle-core/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	config.Reset()
	cfg := config.GetConfig()
	cfg.Storage.Directory = t.TempDir()

	s := &storage.Storage{}
	if err := s.Load(); err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestScanIdRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	if _, ok, err := s.LoadScanId("pool"); err != nil || ok {
		t.Fatalf("expected no scan id registered yet, got ok=%v err=%v", ok, err)
	}

	if err := s.SaveScanId("pool", 42); err != nil {
		t.Fatalf("SaveScanId failed: %v", err)
	}

	id, ok, err := s.LoadScanId("pool")
	if err != nil {
		t.Fatalf("LoadScanId failed: %v", err)
	}
	if !ok || id != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", id, ok)
	}
}

func TestAllScanIds(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveScanId("pool", 1); err != nil {
		t.Fatalf("SaveScanId failed: %v", err)
	}
	if err := s.SaveScanId("refresh", 2); err != nil {
		t.Fatalf("SaveScanId failed: %v", err)
	}

	all, err := s.AllScanIds()
	if err != nil {
		t.Fatalf("AllScanIds failed: %v", err)
	}
	if all["pool"] != 1 || all["refresh"] != 2 {
		t.Fatalf("unexpected scan id map: %+v", all)
	}
}

func TestDeleteScanId(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveScanId("pool", 7); err != nil {
		t.Fatalf("SaveScanId failed: %v", err)
	}
	if err := s.DeleteScanId("pool"); err != nil {
		t.Fatalf("DeleteScanId failed: %v", err)
	}
	if _, ok, err := s.LoadScanId("pool"); err != nil || ok {
		t.Fatalf("expected scan id to be gone, got ok=%v err=%v", ok, err)
	}
}
