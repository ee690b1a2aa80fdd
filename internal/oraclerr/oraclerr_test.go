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

package oraclerr_test

import (
	"errors"
	"testing"

	"github.com/SethDusek/oracle-core/internal/oraclerr"
)

func TestIsMatchesKind(t *testing.T) {
	err := oraclerr.Wrap(oraclerr.Feed, "feed unreachable", errors.New("timeout"))

	if !oraclerr.Is(err, oraclerr.Feed) {
		t.Errorf("expected Is(err, Feed) to be true")
	}
	if oraclerr.Is(err, oraclerr.ChainIO) {
		t.Errorf("expected Is(err, ChainIO) to be false")
	}
}

func TestIsNonFatalInDriver(t *testing.T) {
	cases := []struct {
		kind      oraclerr.Kind
		wantNonFatal bool
	}{
		{oraclerr.Consensus, true},
		{oraclerr.Feed, true},
		{oraclerr.ChainIO, false},
		{oraclerr.Configuration, false},
		{oraclerr.BoxValidation, false},
		{oraclerr.WalletSelection, false},
		{oraclerr.AddressType, false},
	}
	for _, c := range cases {
		err := oraclerr.New(c.kind, "boom")
		if got := oraclerr.IsNonFatalInDriver(err); got != c.wantNonFatal {
			t.Errorf("IsNonFatalInDriver(%s) = %v, want %v", c.kind, got, c.wantNonFatal)
		}
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := oraclerr.Wrap(oraclerr.ChainIO, "node unreachable", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the wrapped cause")
	}
}

func TestFailedToReachConsensusMessage(t *testing.T) {
	err := &oraclerr.FailedToReachConsensusError{
		Expected:        8,
		Found:           6,
		FoundPublicKeys: []string{"a", "b"},
	}
	msg := err.Error()
	if msg == "" {
		t.Errorf("expected non-empty error message")
	}
}
