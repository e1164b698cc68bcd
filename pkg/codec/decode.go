// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package codec

import (
	"encoding/binary"

	"github.com/certen/bft-lightclient/pkg/engineerrors"
)

// cursor is a small bounds-checked reader over a byte slice, in the spirit
// of the length/offset bookkeeping the corpus hand-rolls for its own wire
// formats (e.g. ledger.LedgerStore's binary.BigEndian key encoding).
type cursor struct {
	buf []byte
	pos int
	op  string
}

func newCursor(op string, buf []byte) *cursor {
	return &cursor{buf: buf, op: op}
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) take(n int) ([]byte, *engineerrors.Error) {
	if n < 0 || c.remaining() < n {
		return nil, engineerrors.New(engineerrors.CodecTruncated, c.op, "ran past end of input")
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) takeFixed(dst []byte) *engineerrors.Error {
	b, err := c.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (c *cursor) uint64() (uint64, *engineerrors.Error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) int64() (int64, *engineerrors.Error) {
	u, err := c.uint64()
	if err != nil {
		return 0, err
	}
	return int64(u), nil
}

func (c *cursor) uint32() (uint32, *engineerrors.Error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// decodeTypedSignature reads one (signature:65, signer prefix tag:1
// discarded, signer:64) group.
func decodeTypedSignature(c *cursor) (TypedSignature, *engineerrors.Error) {
	var sig TypedSignature
	if err := c.takeFixed(sig.Signature[:]); err != nil {
		return sig, err
	}
	if _, err := c.take(1); err != nil { // signer prefix tag, discarded
		return sig, err
	}
	if err := c.takeFixed(sig.Signer[:]); err != nil {
		return sig, err
	}
	return sig, nil
}

// DecodeHeader decodes a BlockHeader per spec.md §4.1. The returned
// header's Raw field is set to the exact input slice that was consumed.
func DecodeHeader(raw []byte) (*BlockHeader, *engineerrors.Error) {
	const op = "codec.DecodeHeader"
	c := newCursor(op, raw)

	h := &BlockHeader{}

	if _, err := c.take(1); err != nil { // author prefix tag, discarded
		return nil, err
	}
	if err := c.takeFixed(h.Author[:]); err != nil {
		return nil, err
	}

	l1, err := c.uint64()
	if err != nil {
		return nil, err
	}
	if l1 > uint64(c.remaining())/(65+1+64) {
		return nil, engineerrors.New(engineerrors.CodecTruncated, op, "finalization-proof length exceeds remaining input")
	}
	h.PrevBlockFinalizationProof = make([]TypedSignature, l1)
	for i := uint64(0); i < l1; i++ {
		sig, err := decodeTypedSignature(c)
		if err != nil {
			return nil, err
		}
		h.PrevBlockFinalizationProof[i] = sig
	}

	if err := c.takeFixed(h.PreviousHash[:]); err != nil {
		return nil, err
	}
	if h.BlockHeight, err = c.uint64(); err != nil {
		return nil, err
	}
	if h.Timestamp, err = c.int64(); err != nil {
		return nil, err
	}
	if err := c.takeFixed(h.CommitMerkleRoot[:]); err != nil {
		return nil, err
	}
	if _, err := c.take(32); err != nil { // repositoryMerkleRoot, skipped
		return nil, err
	}

	l2, err := c.uint64()
	if err != nil {
		return nil, err
	}
	if l2 > uint64(c.remaining())/(1+64+8) {
		return nil, engineerrors.New(engineerrors.CodecTruncated, op, "validators length exceeds remaining input")
	}
	h.Validators = make([]Validator, l2)
	for i := uint64(0); i < l2; i++ {
		if _, err := c.take(1); err != nil { // validator prefix tag, discarded
			return nil, err
		}
		var v Validator
		if err := c.takeFixed(v.PublicKey[:]); err != nil {
			return nil, err
		}
		if v.VotingPower, err = c.uint64(); err != nil {
			return nil, err
		}
		h.Validators[i] = v
	}

	if _, err := c.uint64(); err != nil { // version length, ignored (always 5)
		return nil, err
	}
	if err := c.takeFixed(h.Version[:]); err != nil {
		return nil, err
	}

	h.Raw = append([]byte(nil), raw[:c.pos]...)
	return h, nil
}

// DecodeFinalizationProof decodes count:8 ∥ (signature:65 ∥ prefix:1 ∥
// signer:64)*. Unlike DecodeHeader, this is exact: any input whose
// remaining bytes are not precisely count*130 is CodecLengthMismatch.
func DecodeFinalizationProof(raw []byte) (*FinalizationProof, *engineerrors.Error) {
	const op = "codec.DecodeFinalizationProof"
	c := newCursor(op, raw)

	count, err := c.uint64()
	if err != nil {
		return nil, err
	}
	const groupSize = 65 + 1 + 64
	if count > uint64(c.remaining())/groupSize || uint64(c.remaining()) != count*groupSize {
		return nil, engineerrors.New(engineerrors.CodecLengthMismatch, op,
			"remaining bytes do not match count*130")
	}

	proof := &FinalizationProof{Signatures: make([]TypedSignature, count)}
	for i := uint64(0); i < count; i++ {
		sig, err := decodeTypedSignature(c)
		if err != nil {
			return nil, err
		}
		proof.Signatures[i] = sig
	}
	return proof, nil
}

// decodeExecutionPayloadBody reads the common execution-payload wire shape:
// chainLen:8 ∥ chain:var ∥ contractSequence:16 ∥ enumTag:4 (discarded) ∥
// address:20 ∥ amountOrTokenId:16 ∥ address:20. The two ExecutionPayload
// variants share this exact layout and differ only in how the caller labels
// the two addresses and the middle 128-bit value.
func decodeExecutionPayloadBody(op string, raw []byte) (chain []byte, seq U128, addr1 Address, mid U128, addr2 Address, err *engineerrors.Error) {
	c := newCursor(op, raw)

	chainLen, err := c.uint64()
	if err != nil {
		return
	}
	chainBytes, err := c.take(int(chainLen))
	if err != nil {
		return
	}
	chain = append([]byte(nil), chainBytes...)

	if err = c.takeFixed(seq[:]); err != nil {
		return
	}
	if _, err = c.take(4); err != nil { // enumTag, discarded
		return
	}
	if err = c.takeFixed(addr1[:]); err != nil {
		return
	}
	if err = c.takeFixed(mid[:]); err != nil {
		return
	}
	if err = c.takeFixed(addr2[:]); err != nil {
		return
	}
	return
}

// DecodeFungibleTransfer decodes an ExecutionPayload known (via the
// transaction's header-length tag) to be a fungible transfer.
func DecodeFungibleTransfer(raw []byte) (*FungibleTransfer, *engineerrors.Error) {
	chain, seq, token, amount, receiver, err := decodeExecutionPayloadBody("codec.DecodeFungibleTransfer", raw)
	if err != nil {
		return nil, err
	}
	return &FungibleTransfer{
		ContractSequence: seq,
		Amount:           amount,
		Chain:            chain,
		TokenAddress:     token,
		ReceiverAddress:  receiver,
	}, nil
}

// DecodeNonFungibleTransfer decodes an ExecutionPayload known to be a
// non-fungible transfer.
func DecodeNonFungibleTransfer(raw []byte) (*NonFungibleTransfer, *engineerrors.Error) {
	chain, seq, collection, tokenID, receiver, err := decodeExecutionPayloadBody("codec.DecodeNonFungibleTransfer", raw)
	if err != nil {
		return nil, err
	}
	return &NonFungibleTransfer{
		ContractSequence:  seq,
		TokenID:           tokenID,
		Chain:             chain,
		CollectionAddress: collection,
		ReceiverAddress:   receiver,
	}, nil
}
