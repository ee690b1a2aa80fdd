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

// Package oraclerr is the structured error taxonomy described in
// spec.md §7: every error the core raises is tagged with a Kind so the
// driver loop and CLI commands can apply the right propagation policy
// (fatal, logged-and-skipped, or surfaced to the operator) without
// string-matching error messages.
package oraclerr

import (
	"errors"
	"fmt"
)

// Kind tags an error with its propagation policy, per spec.md §7.
type Kind int

const (
	// Configuration errors are fatal at startup.
	Configuration Kind = iota
	// ChainIO errors are transient; the tick is skipped.
	ChainIO
	// ScanConsistency errors trigger re-registration and a rescan.
	ScanConsistency
	// BoxValidation errors propagate up as "pool not live", which
	// drives the classifier to NeedsBootstrap.
	BoxValidation
	// Consensus errors (quorum or deviation not reached) are
	// non-fatal; logged with quorum details, tick skipped.
	Consensus
	// Feed errors are non-fatal; the tick is skipped.
	Feed
	// WalletSelection errors are fatal for CLI commands, non-fatal for
	// the driver loop.
	WalletSelection
	// AddressType errors (non-P2PK where required) are surfaced to
	// the CLI user.
	AddressType
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case ChainIO:
		return "chain_io"
	case ScanConsistency:
		return "scan_consistency"
	case BoxValidation:
		return "box_validation"
	case Consensus:
		return "consensus"
	case Feed:
		return "feed"
	case WalletSelection:
		return "wallet_selection"
	case AddressType:
		return "address_type"
	default:
		return "unknown"
	}
}

// Error is a taxonomy-tagged error. It wraps an underlying cause with
// %w semantics so errors.Is/As continue to work against the cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a Kind-tagged error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates a Kind-tagged error wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// IsNonFatalInDriver reports whether the driver loop should downgrade
// this error to a log line and continue to the next tick, rather than
// propagate it further (spec.md §7 propagation policy: Consensus and
// Feed errors are the two non-fatal kinds the driver downgrades).
func IsNonFatalInDriver(err error) bool {
	return Is(err, Consensus) || Is(err, Feed)
}

// NotEnoughDatapointsError reports that deviation trimming could not
// converge without dropping below two retained candidates (spec.md
// §4.5.3 step 4).
type NotEnoughDatapointsError struct {
	Found int
}

func (e *NotEnoughDatapointsError) Error() string {
	return fmt.Sprintf(
		"not enough datapoints to satisfy deviation range: found %d",
		e.Found,
	)
}

// FailedToReachConsensusError reports that filtering converged but the
// retained quorum is below the configured minimum (spec.md §4.5.3
// step 5).
type FailedToReachConsensusError struct {
	Expected        int
	Found           int
	FoundPublicKeys []string
}

func (e *FailedToReachConsensusError) Error() string {
	return fmt.Sprintf(
		"failed to reach consensus: expected at least %d datapoints, found %d (public keys: %v)",
		e.Expected,
		e.Found,
		e.FoundPublicKeys,
	)
}

// MyOracleBoxNotFoundError reports that the operator's own datapoint
// box was not among the retained candidates during a refresh (spec.md
// §4.5.3 step 9).
type MyOracleBoxNotFoundError struct{}

func (e *MyOracleBoxNotFoundError) Error() string {
	return "operator's oracle box was not found among the retained datapoint candidates"
}

// NoRewardTokenInOracleBoxError reports that the operator's local
// datapoint box has no reward token left to carry forward (spec.md
// §4.5.2).
type NoRewardTokenInOracleBoxError struct{}

func (e *NoRewardTokenInOracleBoxError) Error() string {
	return "local oracle box has no reward token"
}

// IncorrectNumberOfRewardTokensError reports that the operator's local
// datapoint box does not carry exactly one reward token, the precise
// count a transfer-oracle-token ceremony requires (spec.md §4.5.4).
type IncorrectNumberOfRewardTokensError struct {
	Found uint64
}

func (e *IncorrectNumberOfRewardTokensError) Error() string {
	return fmt.Sprintf("local oracle box must carry exactly one reward token, found %d", e.Found)
}
