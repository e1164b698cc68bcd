// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package withdrawal

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/engineerrors"
	"github.com/certen/bft-lightclient/pkg/events"
	"github.com/certen/bft-lightclient/pkg/lightclient"
	"github.com/certen/bft-lightclient/pkg/merkleproof"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

const (
	// payloadKindTagOffset is where the enclosing transaction carries the
	// 8-byte little-endian length tag this dispatcher uses as the payload
	// discriminator (spec.md §4.1).
	payloadKindTagOffset = 73
	payloadKindTagSize   = 8

	// executionHashEnvelopeSize is the size of the tail envelope carrying
	// the payload's keccak256 as hex ASCII plus framing (spec.md §4.1).
	executionHashEnvelopeSize = 68
	executionHashHexSize      = 64
)

// Execute is the light client's second entry point (spec.md §4.6): given a
// verified execution payload's carrier transaction and its Merkle proof, it
// decodes intent and emits exactly one AssetLedger release.
func Execute(
	state *lightclient.State,
	transactionBytes []byte,
	executionPayloadBytes []byte,
	blockHeight uint64,
	merkleProofBytes []byte,
	chainName []byte,
	ledger AssetLedger,
	hooks HostHooks,
) *engineerrors.Error {
	const op = "WithdrawalDispatcher.Execute"

	if err := checkExecutionHashEnvelope(op, transactionBytes, executionPayloadBytes); err != nil {
		return err
	}

	kind, err := payloadKindAt(op, transactionBytes)
	if err != nil {
		return err
	}

	switch kind {
	case codec.PayloadKindFungible:
		payload, err := codec.DecodeFungibleTransfer(executionPayloadBytes)
		if err != nil {
			return err
		}
		if err := checkSequenceAndChain(op, payload.ContractSequence, payload.Chain, chainName); err != nil {
			return err
		}
		if err := merkleproof.VerifyCommitment(transactionBytes, state.CommitRoots(), merkleProofBytes, blockHeight, state.HeightOffset()); err != nil {
			return err
		}
		return dispatchFungible(op, payload, ledger, hooks)

	case codec.PayloadKindNonFungible:
		payload, err := codec.DecodeNonFungibleTransfer(executionPayloadBytes)
		if err != nil {
			return err
		}
		if err := checkSequenceAndChain(op, payload.ContractSequence, payload.Chain, chainName); err != nil {
			return err
		}
		if err := merkleproof.VerifyCommitment(transactionBytes, state.CommitRoots(), merkleProofBytes, blockHeight, state.HeightOffset()); err != nil {
			return err
		}
		return dispatchNonFungible(op, payload, ledger, hooks)

	default:
		return engineerrors.New(engineerrors.ExecUnknownPayloadKind, op, "payload-kind tag is neither 25 nor 26")
	}
}

// checkExecutionHashEnvelope parses the hex-ASCII keccak256 carried in the
// transaction's last 68 bytes (64 hex chars plus framing) and requires it
// match keccak256(executionPayloadBytes).
func checkExecutionHashEnvelope(op string, transactionBytes, executionPayloadBytes []byte) *engineerrors.Error {
	if len(transactionBytes) < executionHashEnvelopeSize {
		return engineerrors.New(engineerrors.CodecTruncated, op, "transaction shorter than the execution-hash envelope")
	}
	tail := transactionBytes[len(transactionBytes)-executionHashEnvelopeSize:]
	hexPart := tail[len(tail)-executionHashHexSize:]

	var claimed codec.Hash
	n, decErr := hex.Decode(claimed[:], hexPart)
	if decErr != nil || n != len(claimed) {
		return engineerrors.New(engineerrors.ExecExecutionHashMismatch, op, "tail is not valid hex-encoded keccak256")
	}

	actual := xcrypto.Keccak256(executionPayloadBytes)
	if !bytes.Equal(claimed[:], actual[:]) {
		return engineerrors.New(engineerrors.ExecExecutionHashMismatch, op, "tail hash does not match keccak256(executionPayload)")
	}
	return nil
}

func payloadKindAt(op string, transactionBytes []byte) (codec.PayloadKind, *engineerrors.Error) {
	if len(transactionBytes) < payloadKindTagOffset+payloadKindTagSize {
		return 0, engineerrors.New(engineerrors.CodecTruncated, op, "transaction shorter than the payload-kind tag offset")
	}
	tag := binary.LittleEndian.Uint64(transactionBytes[payloadKindTagOffset : payloadKindTagOffset+payloadKindTagSize])
	return codec.PayloadKind(tag), nil
}

func checkSequenceAndChain(op string, contractSequence codec.U128, chain, configuredChainName []byte) *engineerrors.Error {
	if !contractSequence.IsZero() {
		return engineerrors.New(engineerrors.ExecWrongSequence, op, "contractSequence is not zero")
	}
	if !bytes.Equal(chain, configuredChainName) {
		return engineerrors.New(engineerrors.ExecWrongChain, op, "payload chain does not match the configured chain name")
	}
	return nil
}

func dispatchFungible(op string, payload *codec.FungibleTransfer, ledger AssetLedger, hooks HostHooks) *engineerrors.Error {
	var releaseErr error
	if payload.TokenAddress == (codec.Address{}) {
		releaseErr = ledger.ReleaseNative(payload.ReceiverAddress, payload.Amount.Big())
	} else {
		releaseErr = ledger.ReleaseFungible(payload.TokenAddress, payload.ReceiverAddress, payload.Amount.Big())
	}
	if releaseErr != nil {
		return engineerrors.Wrap(engineerrors.AssetInsufficientBalance, op, "AssetLedger release failed", releaseErr)
	}
	if hooks != nil {
		hooks.EmitEvent(events.TransferFungibleToken(payload.TokenAddress, payload.ReceiverAddress, payload.Amount.Big(), payload.ContractSequence.Big()))
	}
	return nil
}

func dispatchNonFungible(op string, payload *codec.NonFungibleTransfer, ledger AssetLedger, hooks HostHooks) *engineerrors.Error {
	if err := ledger.ReleaseNonFungible(payload.CollectionAddress, payload.ReceiverAddress, payload.TokenID.Big()); err != nil {
		return engineerrors.Wrap(engineerrors.AssetInsufficientBalance, op, "AssetLedger release failed", err)
	}
	if hooks != nil {
		hooks.EmitEvent(events.TransferNonFungibleToken(payload.CollectionAddress, payload.ReceiverAddress, payload.TokenID.Big(), payload.ContractSequence.Big()))
	}
	return nil
}
