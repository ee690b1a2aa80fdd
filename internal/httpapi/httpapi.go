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

// Package httpapi is the optional read-only debug listener (spec.md
// §6 "enable-rest-api"), generalized from the teacher's
// cfg.Debug.ListenPort + http.ListenAndServe background goroutine
// (blinklabs-io-shai/cmd/shai/main.go). It exposes the driver loop's
// last-observed state for operators and monitoring, never accepts a
// request that mutates anything.
package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SethDusek/oracle-core/internal/logging"
)

// Snapshot is the most recent tick's observable state, published by
// the driver loop and read by the HTTP handlers. The zero value
// (before the first tick completes) makes /health report "not ready".
type Snapshot struct {
	LastTickAt   time.Time `json:"lastTickAt"`
	LastTickErr  string    `json:"lastTickError,omitempty"`
	LastCommand  string    `json:"lastCommand"`

	PoolStateKind           string `json:"poolStateKind"`
	EpochId                 int32  `json:"epochId"`
	EpochEndsHeight         uint32 `json:"epochEndsHeight"`
	LatestRate              int64  `json:"latestRate"`
	LocalPublishedThisEpoch bool   `json:"localPublishedThisEpoch"`

	LocalDatapointExists bool   `json:"localDatapointExists"`
	LocalDatapointRate   int64  `json:"localDatapointRate,omitempty"`
	LocalDatapointEpoch  int32  `json:"localDatapointEpoch,omitempty"`
}

// Store holds the latest Snapshot behind an atomic pointer so the
// driver loop's single writer goroutine and the HTTP server's request
// goroutines never share a lock.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

// NewStore returns a Store reporting the zero Snapshot until the first
// Update.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(&Snapshot{})
	return s
}

// Update replaces the published snapshot. Safe to call from the
// driver's tick goroutine while handlers read concurrently.
func (s *Store) Update(snap Snapshot) {
	s.snap.Store(&snap)
}

// Current returns the most recently published snapshot.
func (s *Store) Current() Snapshot {
	return *s.snap.Load()
}

// Server is the read-only debug HTTP listener.
type Server struct {
	store *Store
	http  *http.Server
}

// NewServer builds a Server listening on addr, serving /health,
// /poolState, /localDatapoint, and /metrics from store.
func NewServer(addr string, store *Store) *Server {
	mux := http.NewServeMux()
	s := &Server{store: store}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/poolState", s.handlePoolState)
	mux.HandleFunc("/localDatapoint", s.handleLocalDatapoint)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's mux, letting tests exercise the routes
// through httptest.NewServer without binding Server's own listener.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving HTTP until the listener errors or is
// shut down; http.ErrServerClosed is swallowed since it is the normal
// Shutdown outcome.
func (s *Server) ListenAndServe() error {
	logger := logging.Component("httpapi")
	logger.Info("starting debug listener", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes the listener and any open connections immediately.
func (s *Server) Shutdown() error {
	return s.http.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	status := http.StatusOK
	if snap.LastTickAt.IsZero() {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ready":      !snap.LastTickAt.IsZero(),
		"lastTickAt": snap.LastTickAt,
	})
}

func (s *Server) handlePoolState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Current())
}

func (s *Server) handleLocalDatapoint(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	writeJSON(w, map[string]any{
		"exists": snap.LocalDatapointExists,
		"rate":   snap.LocalDatapointRate,
		"epoch":  snap.LocalDatapointEpoch,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
