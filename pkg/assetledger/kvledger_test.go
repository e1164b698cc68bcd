// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package assetledger

import (
	"math/big"
	"testing"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/kvdb"
)

func newTestLedger(t *testing.T) *KVLedger {
	t.Helper()
	adapter := kvdb.NewKVAdapter(dbm.NewMemDB())
	return New(adapter)
}

func TestNativeCreditAndRelease(t *testing.T) {
	l := newTestLedger(t)
	if err := l.CreditNative(big.NewInt(1000)); err != nil {
		t.Fatalf("CreditNative: %v", err)
	}
	if err := l.ReleaseNative(codec.Address{1}, big.NewInt(400)); err != nil {
		t.Fatalf("ReleaseNative: %v", err)
	}
	bal, err := l.NativeBalance()
	if err != nil {
		t.Fatalf("NativeBalance: %v", err)
	}
	if bal.Cmp(big.NewInt(600)) != 0 {
		t.Errorf("expected balance 600, got %s", bal)
	}
}

func TestReleaseNativeInsufficientBalance(t *testing.T) {
	l := newTestLedger(t)
	if err := l.ReleaseNative(codec.Address{1}, big.NewInt(1)); err == nil {
		t.Fatal("expected insufficient-balance error")
	}
}

func TestFungibleCreditAndRelease(t *testing.T) {
	l := newTestLedger(t)
	token := codec.Address{9, 9}
	if err := l.CreditFungible(token, big.NewInt(500)); err != nil {
		t.Fatalf("CreditFungible: %v", err)
	}
	if err := l.ReleaseFungible(token, codec.Address{1}, big.NewInt(200)); err != nil {
		t.Fatalf("ReleaseFungible: %v", err)
	}
	bal, err := l.FungibleBalance(token)
	if err != nil {
		t.Fatalf("FungibleBalance: %v", err)
	}
	if bal.Cmp(big.NewInt(300)) != 0 {
		t.Errorf("expected balance 300, got %s", bal)
	}
}

func TestNonFungibleSetOwnerAndRelease(t *testing.T) {
	l := newTestLedger(t)
	collection := codec.Address{7}
	tokenID := big.NewInt(42)
	original := codec.Address{1}
	if err := l.SetOwner(collection, tokenID, original); err != nil {
		t.Fatalf("SetOwner: %v", err)
	}

	owner, err := l.OwnerOf(collection, tokenID)
	if err != nil {
		t.Fatalf("OwnerOf: %v", err)
	}
	if owner != original {
		t.Errorf("expected owner %x, got %x", original, owner)
	}

	newOwner := codec.Address{2}
	if err := l.ReleaseNonFungible(collection, newOwner, tokenID); err != nil {
		t.Fatalf("ReleaseNonFungible: %v", err)
	}
	owner, err = l.OwnerOf(collection, tokenID)
	if err != nil {
		t.Fatalf("OwnerOf after release: %v", err)
	}
	if owner != newOwner {
		t.Errorf("expected owner %x, got %x", newOwner, owner)
	}
}

func TestOwnerOfUnknownTokenFails(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.OwnerOf(codec.Address{1}, big.NewInt(1)); err == nil {
		t.Fatal("expected error for unknown token")
	}
}
