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

// Package storage is the embedded key-value store backing the scan-id
// sidecar (spec.md §4.2, §6). Only scan ids are stored; the operator's
// local datapoint box is not persisted here. It generalizes the teacher's badger-backed Storage (chainsync
// cursor persistence) and OracleStorage/LendingStorage (JSON-marshalled
// per-key state) into a single keyed JSON store.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/SethDusek/oracle-core/internal/config"
	"github.com/SethDusek/oracle-core/internal/logging"

	"github.com/dgraph-io/badger/v4"
)

const (
	scanIdKeyPrefix = "scan_id_"
)

// Storage wraps a badger database used for all process-local
// persistence. Per spec.md §5, this is the only shared mutable
// resource the driver touches directly; the chain node is the other.
type Storage struct {
	db *badger.DB
}

var globalStorage = &Storage{}

// Load opens the badger database at the configured storage directory.
func (s *Storage) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveJSON marshals v to JSON and stores it under key. Used for the
// scan-id sidecar.
func (s *Storage) SaveJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %q: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// LoadJSON loads the JSON value stored under key into v. Returns
// ErrKeyNotFound (badger.ErrKeyNotFound) if the key has never been set.
func (s *Storage) LoadJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

// IsNotFound reports whether err indicates the key was never set.
func IsNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}

// SaveScanId persists the chain-node scan id assigned to a named scan.
func (s *Storage) SaveScanId(name string, id int) error {
	return s.SaveJSON(scanIdKeyPrefix+name, id)
}

// LoadScanId loads the chain-node scan id assigned to a named scan.
// The bool return is false if the scan has never been registered.
func (s *Storage) LoadScanId(name string) (int, bool, error) {
	var id int
	err := s.LoadJSON(scanIdKeyPrefix+name, &id)
	if IsNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// AllScanIds returns every persisted name -> scan id mapping, matching
// the "scanIDs.json-shaped" sidecar described in spec.md §6.
func (s *Storage) AllScanIds() (map[string]int, error) {
	ret := make(map[string]int)
	prefix := []byte(scanIdKeyPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			name := key[len(scanIdKeyPrefix):]
			var id int
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &id)
			}); err != nil {
				return err
			}
			ret[name] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// DeleteScanId removes a persisted scan id, used when scans are
// re-registered after a pool-parameter change (spec.md §4.2).
func (s *Storage) DeleteScanId(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(scanIdKeyPrefix + name))
	})
}

// GetStorage returns the global storage instance.
func GetStorage() *Storage {
	return globalStorage
}

// BadgerLogger adapts the process logger to badger's Logger interface.
type BadgerLogger struct{}

func NewBadgerLogger() *BadgerLogger {
	return &BadgerLogger{}
}

func (b *BadgerLogger) Errorf(msg string, args ...any) {
	logging.GetLogger().Error(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Warningf(msg string, args ...any) {
	logging.GetLogger().Warn(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Infof(msg string, args ...any) {
	logging.GetLogger().Info(fmt.Sprintf(msg, args...))
}

func (b *BadgerLogger) Debugf(msg string, args ...any) {
	logging.GetLogger().Debug(fmt.Sprintf(msg, args...))
}
