// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package withdrawal gates release of custodied assets on proof
// verification: it decodes a verified execution payload's intent and
// invokes exactly one AssetLedger effect. The host's token-custody
// primitives and reentrancy/event-transport plumbing are out of this
// engine's scope (spec.md §1) -- they are modeled here as the two
// capability interfaces below, passed in by the host rather than inherited
// from a base contract (spec.md §9 "No inheritance").
package withdrawal

import (
	"math/big"

	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/certen/bft-lightclient/pkg/codec"
)

// AssetLedger is the host's token-custody capability. Each release must
// either succeed or fail atomically; a failing release aborts Execute.
type AssetLedger interface {
	NativeBalance() (*big.Int, error)
	ReleaseNative(to codec.Address, amount *big.Int) error

	FungibleBalance(token codec.Address) (*big.Int, error)
	ReleaseFungible(token, to codec.Address, amount *big.Int) error

	OwnerOf(collection codec.Address, tokenID *big.Int) (codec.Address, error)
	ReleaseNonFungible(collection, to codec.Address, tokenID *big.Int) error
}

// HostHooks is the host's event-emission capability. The engine never
// calls a mutex or reentrancy guard itself -- Execute is a single
// synchronous call, and serializing/guarding concurrent invocations against
// one State is the host's responsibility around that call (spec.md §5),
// not something the engine reaches back out for.
type HostHooks interface {
	EmitEvent(evt Event)
}

// Event is the payload HostHooks.EmitEvent receives; see pkg/events for
// the concrete builders (TransferFungibleToken, TransferNonFungibleToken,
// UpdateLightClient).
type Event = abcitypes.Event
