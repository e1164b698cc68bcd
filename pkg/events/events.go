// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package events shapes the three business events the engine emits
// (spec.md §6) as CometBFT ABCI events -- Type plus an ordered list of
// key/value attributes -- the same shape the corpus's own ABCI application
// emits (pkg/consensus/abci_validator.go), without running a consensus
// engine. A host's HostHooks.EmitEvent implementation decides where these
// actually go (log line, chain event log, message bus); this package only
// builds the payload.
package events

import (
	"encoding/hex"
	"math/big"
	"strconv"

	abcitypes "github.com/cometbft/cometbft/abci/types"

	"github.com/certen/bft-lightclient/pkg/codec"
)

const (
	KindTransferFungibleToken    = "TransferFungibleToken"
	KindTransferNonFungibleToken = "TransferNonFungibleToken"
	KindUpdateLightClient        = "UpdateLightClient"
)

func attr(key, value string) abcitypes.EventAttribute {
	return abcitypes.EventAttribute{Key: key, Value: value, Index: true}
}

// TransferFungibleToken builds the event emitted when a fungible release is
// dispatched to the AssetLedger.
func TransferFungibleToken(tokenAddress, receiver codec.Address, amount *big.Int, contractSequence *big.Int) abcitypes.Event {
	return abcitypes.Event{
		Type: KindTransferFungibleToken,
		Attributes: []abcitypes.EventAttribute{
			attr("tokenAddress", hex.EncodeToString(tokenAddress[:])),
			attr("amount", amount.String()),
			attr("receiver", hex.EncodeToString(receiver[:])),
			attr("contractSequence", contractSequence.String()),
		},
	}
}

// TransferNonFungibleToken builds the event emitted when a non-fungible
// release is dispatched to the AssetLedger.
func TransferNonFungibleToken(collectionAddress, receiver codec.Address, tokenID *big.Int, contractSequence *big.Int) abcitypes.Event {
	return abcitypes.Event{
		Type: KindTransferNonFungibleToken,
		Attributes: []abcitypes.EventAttribute{
			attr("collectionAddress", hex.EncodeToString(collectionAddress[:])),
			attr("tokenId", tokenID.String()),
			attr("receiver", hex.EncodeToString(receiver[:])),
			attr("contractSequence", contractSequence.String()),
		},
	}
}

// UpdateLightClient builds the event emitted after a header transition is
// accepted.
func UpdateLightClient(blockHeight uint64, lastHeader []byte) abcitypes.Event {
	return abcitypes.Event{
		Type: KindUpdateLightClient,
		Attributes: []abcitypes.EventAttribute{
			attr("blockHeight", strconv.FormatUint(blockHeight, 10)),
			attr("lastHeader", hex.EncodeToString(lastHeader)),
		},
	}
}
