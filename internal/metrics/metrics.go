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

// Package metrics exposes Prometheus counters and gauges for the
// driver loop (spec.md §6 read-only status surface).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts every driver-loop tick, regardless of outcome.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oracle_core",
		Name:      "ticks_total",
		Help:      "Total number of driver loop ticks.",
	})

	// ActionsBuiltTotal counts unsigned transactions built, labeled by
	// command kind (bootstrap/refresh/publish).
	ActionsBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "oracle_core",
		Name:      "actions_built_total",
		Help:      "Total number of unsigned transactions built, by command kind.",
	}, []string{"command"})

	// ConsensusFailuresTotal counts refresh attempts that failed to
	// reach quorum or converge within the deviation range.
	ConsensusFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "oracle_core",
		Name:      "consensus_failures_total",
		Help:      "Total number of refresh attempts that failed consensus.",
	})

	// LastEpochId reports the most recently observed pool epoch
	// counter.
	LastEpochId = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "oracle_core",
		Name:      "last_epoch_id",
		Help:      "Most recently observed pool epoch counter.",
	})
)
