// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package engineerrors defines the fixed error taxonomy the light-client
// engine returns. Every exported engine operation (codec, lightclient,
// merkleproof, withdrawal) fails with a *Error carrying one of the Kind
// constants below; none are recovered internally and a failure never leaves
// state partially mutated. Host-side helpers (config, assetledger,
// fixtures) return plain errors.
package engineerrors

import "fmt"

// Kind identifies one of the error conditions named in the engine's
// specification. Callers should switch on Kind (or use errors.Is with an
// *Error of the same Kind, see Error.Is), not on the formatted message.
type Kind string

const (
	// Codec
	CodecTruncated      Kind = "codec.truncated"
	CodecLengthMismatch Kind = "codec.length_mismatch"

	// HeaderValidator
	HeaderHeightGap          Kind = "header.height_gap"
	HeaderBrokenChain        Kind = "header.broken_chain"
	HeaderNonMonotoneTime    Kind = "header.non_monotone_time"
	HeaderUnknownAuthor      Kind = "header.unknown_author"
	HeaderInsufficientQuorum Kind = "header.insufficient_quorum"

	// MerkleVerifier
	MerkleHeightOutOfRange Kind = "merkle.height_out_of_range"
	MerkleBadDirection     Kind = "merkle.bad_direction"
	MerkleRootMismatch     Kind = "merkle.root_mismatch"

	// WithdrawalDispatcher
	ExecExecutionHashMismatch Kind = "exec.execution_hash_mismatch"
	ExecUnknownPayloadKind    Kind = "exec.unknown_payload_kind"
	ExecWrongChain            Kind = "exec.wrong_chain"
	ExecWrongSequence         Kind = "exec.wrong_sequence"

	// AssetLedger (surfaced verbatim from the host capability)
	AssetInsufficientBalance Kind = "asset.insufficient_balance"
)

// Error is the concrete error type every exported operation returns.
type Error struct {
	Kind Kind   // one of the constants above
	Op   string // operation that failed, e.g. "HeaderValidator.Advance"
	Msg  string // human-readable detail
	Err  error  // wrapped cause, if any (e.g. a host AssetLedger error)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, engineerrors.New(engineerrors.MerkleRootMismatch, "", "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error for the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs an *Error that wraps a cause, used when a host capability
// (AssetLedger, HostHooks) surfaces its own failure through the engine.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: cause}
}
