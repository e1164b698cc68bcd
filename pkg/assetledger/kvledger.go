// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package assetledger is a KV-backed withdrawal.AssetLedger: native, fungible,
// and non-fungible custody state, one key per balance/owner. Grounded on the
// corpus's own LedgerStore (pkg/ledger/store.go), which applies the same
// single-writer, binary-key-prefixed KV layout to its system/anchor ledger
// records; this package reuses ledger.KV as the storage seam so any KV
// implementation already wired to that interface -- including
// kvdb.KVAdapter over a cometbft-db handle -- backs this ledger unchanged.
package assetledger

import (
	"fmt"
	"math/big"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/ledger"
)

// KVLedger implements withdrawal.AssetLedger over a ledger.KV handle.
//
// CONCURRENCY: like LedgerStore, KVLedger assumes single-writer access. The
// withdrawal package never serializes calls to AssetLedger itself (spec.md
// §5) -- the host must serialize calls to Execute against one KVLedger, the
// same discipline LedgerStore documents for the consensus commit thread.
type KVLedger struct {
	kv ledger.KV
}

// New constructs a KVLedger over kv. Balances default to zero and owners
// default to "no such token" until explicitly credited with Credit/SetOwner.
func New(kv ledger.KV) *KVLedger {
	return &KVLedger{kv: kv}
}

var (
	keyNativeBalance  = []byte("assetledger:native")
	keyFungiblePrefix = []byte("assetledger:fungible:")
	keyOwnerPrefix    = []byte("assetledger:owner:")
)

func fungibleKey(token codec.Address) []byte {
	return append(append([]byte(nil), keyFungiblePrefix...), token[:]...)
}

func ownerKey(collection codec.Address, tokenID *big.Int) []byte {
	key := append(append([]byte(nil), keyOwnerPrefix...), collection[:]...)
	return append(key, []byte(tokenID.String())...)
}

func getBigInt(kv ledger.KV, key []byte) (*big.Int, error) {
	raw, err := kv.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(raw), nil
}

func setBigInt(kv ledger.KV, key []byte, v *big.Int) error {
	return kv.Set(key, v.Bytes())
}

// NativeBalance returns the ledger's held native-asset balance.
func (l *KVLedger) NativeBalance() (*big.Int, error) {
	return getBigInt(l.kv, keyNativeBalance)
}

// ReleaseNative debits amount from the native balance; to is not recorded,
// since this ledger does only the bookkeeping debit and the actual
// transfer mechanics (native asset movement to an address) belong to the
// host chain, not this KV.
func (l *KVLedger) ReleaseNative(to codec.Address, amount *big.Int) error {
	bal, err := l.NativeBalance()
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("assetledger: insufficient native balance: have %s, need %s", bal, amount)
	}
	return setBigInt(l.kv, keyNativeBalance, new(big.Int).Sub(bal, amount))
}

// CreditNative increases the native balance this ledger can release; a host
// calls this when custody actually receives the asset, outside this
// engine's scope.
func (l *KVLedger) CreditNative(amount *big.Int) error {
	bal, err := l.NativeBalance()
	if err != nil {
		return err
	}
	return setBigInt(l.kv, keyNativeBalance, new(big.Int).Add(bal, amount))
}

// FungibleBalance returns the held balance of token.
func (l *KVLedger) FungibleBalance(token codec.Address) (*big.Int, error) {
	return getBigInt(l.kv, fungibleKey(token))
}

// ReleaseFungible debits amount of token from the ledger's held balance.
func (l *KVLedger) ReleaseFungible(token, to codec.Address, amount *big.Int) error {
	bal, err := l.FungibleBalance(token)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("assetledger: insufficient fungible balance for token %x: have %s, need %s", token, bal, amount)
	}
	return setBigInt(l.kv, fungibleKey(token), new(big.Int).Sub(bal, amount))
}

// CreditFungible increases token's held balance.
func (l *KVLedger) CreditFungible(token codec.Address, amount *big.Int) error {
	bal, err := l.FungibleBalance(token)
	if err != nil {
		return err
	}
	return setBigInt(l.kv, fungibleKey(token), new(big.Int).Add(bal, amount))
}

// OwnerOf returns the current custodied owner of collection/tokenID.
func (l *KVLedger) OwnerOf(collection codec.Address, tokenID *big.Int) (codec.Address, error) {
	raw, err := l.kv.Get(ownerKey(collection, tokenID))
	if err != nil {
		return codec.Address{}, err
	}
	if raw == nil {
		return codec.Address{}, fmt.Errorf("assetledger: no custodied token %s in collection %x", tokenID, collection)
	}
	var owner codec.Address
	copy(owner[:], raw)
	return owner, nil
}

// ReleaseNonFungible reassigns custodied ownership of collection/tokenID to
// to, failing if the ledger does not currently custody that token.
func (l *KVLedger) ReleaseNonFungible(collection, to codec.Address, tokenID *big.Int) error {
	if _, err := l.OwnerOf(collection, tokenID); err != nil {
		return err
	}
	return l.kv.Set(ownerKey(collection, tokenID), to[:])
}

// SetOwner registers collection/tokenID as custodied on behalf of owner,
// for a host to call when custody actually receives the token.
func (l *KVLedger) SetOwner(collection codec.Address, tokenID *big.Int, owner codec.Address) error {
	return l.kv.Set(ownerKey(collection, tokenID), owner[:])
}
