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

// Package planner chooses at most one protocol action per tick (spec.md
// §4.4). It is a pure function: no I/O, no side effects, easy to
// exhaustively table-test.
package planner

import (
	"github.com/SethDusek/oracle-core/internal/poolstate"
)

// CommandKind enumerates the commands the planner can emit.
type CommandKind int

const (
	// CommandNone means no action is due this tick.
	CommandNone CommandKind = iota
	CommandBootstrap
	CommandRefresh
	CommandPublishDataPoint
)

func (k CommandKind) String() string {
	switch k {
	case CommandBootstrap:
		return "bootstrap"
	case CommandRefresh:
		return "refresh"
	case CommandPublishDataPoint:
		return "publish_datapoint"
	default:
		return "none"
	}
}

// Command is an Option<Command> in spec.md §4.4's terms: a zero-value
// Command{Kind: CommandNone} represents the "no command" case.
type Command struct {
	Kind CommandKind
	// Rate is only meaningful when Kind == CommandPublishDataPoint; the
	// planner does not call the feed itself (that belongs to the
	// publish action builder), so Rate is populated by the driver right
	// before building a PublishDataPoint command.
	Rate int64
}

// Plan implements spec.md §4.4's rules, including the
// refresh-wins-over-publish tie-break.
func Plan(state poolstate.State, currentHeight uint32) Command {
	if state.Kind == poolstate.NeedsBootstrap {
		return Command{Kind: CommandBootstrap}
	}

	if currentHeight >= state.EpochEndsHeight {
		return Command{Kind: CommandRefresh}
	}

	if !state.LocalPublishedThisEpoch {
		return Command{Kind: CommandPublishDataPoint}
	}

	return Command{Kind: CommandNone}
}
