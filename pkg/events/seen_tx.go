// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package events

import (
	"sync"

	"github.com/certen/bft-lightclient/pkg/codec"
)

// SeenTxTracker is an optional host-side helper for the replay-protection
// concern spec.md §9 explicitly leaves to the host: the dispatcher itself
// is dedup-free and never consults this type. A host MAY check
// SeenTxTracker.Seen before calling withdrawal.Execute, and record the hash
// with Mark after a successful call, keyed by
// keccak256(executionPayloadBytes) as the spec's Open Question suggests.
// Modeled on the corpus's own idempotency bookkeeping
// (pkg/ledger.LedgerStore's sequence-number tracking), stripped down to the
// one operation this engine's contract actually calls for.
type SeenTxTracker struct {
	mu   sync.Mutex
	seen map[codec.Hash]struct{}
}

// NewSeenTxTracker returns an empty tracker.
func NewSeenTxTracker() *SeenTxTracker {
	return &SeenTxTracker{seen: make(map[codec.Hash]struct{})}
}

// Seen reports whether executionHash has been marked before.
func (t *SeenTxTracker) Seen(executionHash codec.Hash) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[executionHash]
	return ok
}

// Mark records executionHash as having been executed.
func (t *SeenTxTracker) Mark(executionHash codec.Hash) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[executionHash] = struct{}{}
}
