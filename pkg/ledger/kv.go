// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package ledger defines the KV storage seam shared by anything that
// persists state to a byte-oriented key-value store -- originally the
// corpus's own LedgerStore (system/anchor ledger bookkeeping), now
// pkg/assetledger's custody balances. The interface is kept standalone so
// any backing store, including kvdb.KVAdapter over a cometbft-db handle,
// satisfies it without depending on what's built on top of it.
package ledger

// KV defines the key-value store interface.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}
