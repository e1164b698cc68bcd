// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package engineerrors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := Wrap(AssetInsufficientBalance, "TestOp", "release failed", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if wrapped.Kind != AssetInsufficientBalance {
		t.Errorf("Kind = %s", wrapped.Kind)
	}
}

func TestIsComparesKind(t *testing.T) {
	a := New(HeaderHeightGap, "Op", "msg")
	b := New(HeaderHeightGap, "OtherOp", "other msg")
	c := New(HeaderBrokenChain, "Op", "msg")

	if !a.Is(b) {
		t.Error("errors with the same Kind should match Is")
	}
	if a.Is(c) {
		t.Error("errors with different Kind should not match Is")
	}
}

func TestErrorMessageIncludesOpAndMsg(t *testing.T) {
	e := New(MerkleRootMismatch, "VerifyCommitment", "recomputed root does not match")
	msg := e.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if !strings.Contains(msg, "VerifyCommitment") {
		t.Errorf("expected message to include Op, got %q", msg)
	}
	if !strings.Contains(msg, "recomputed root does not match") {
		t.Errorf("expected message to include Msg, got %q", msg)
	}
}
