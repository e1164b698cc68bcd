// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package codec

import "encoding/binary"

// builder is the write-side counterpart to cursor: an append-only byte
// buffer matching the little-endian, length-prefixed layout cursor reads.
type builder struct {
	buf []byte
}

func (b *builder) putUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *builder) putInt64(v int64) { b.putUint64(uint64(v)) }

func (b *builder) putUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *builder) putFixed(v []byte) { b.buf = append(b.buf, v...) }

func (b *builder) putByte(v byte) { b.buf = append(b.buf, v) }

func putTypedSignature(b *builder, sig TypedSignature) {
	b.putFixed(sig.Signature[:])
	b.putByte(0) // signer prefix tag
	b.putFixed(sig.Signer[:])
}

// EncodeHeader serializes a BlockHeader to the wire layout DecodeHeader
// consumes. It exists for constructing test fixtures and is never called by
// the verification path itself, which hashes the stored raw header bytes
// instead of re-encoding (see BlockHeader's doc comment).
func EncodeHeader(h *BlockHeader) []byte {
	b := &builder{}
	b.putByte(0) // author prefix tag
	b.putFixed(h.Author[:])

	b.putUint64(uint64(len(h.PrevBlockFinalizationProof)))
	for _, sig := range h.PrevBlockFinalizationProof {
		putTypedSignature(b, sig)
	}

	b.putFixed(h.PreviousHash[:])
	b.putUint64(h.BlockHeight)
	b.putInt64(h.Timestamp)
	b.putFixed(h.CommitMerkleRoot[:])
	b.putFixed(make([]byte, 32)) // repositoryMerkleRoot, unused by this engine

	b.putUint64(uint64(len(h.Validators)))
	for _, v := range h.Validators {
		b.putByte(0) // validator prefix tag
		b.putFixed(v.PublicKey[:])
		b.putUint64(v.VotingPower)
	}

	version := h.Version
	b.putUint64(uint64(len(version)))
	b.putFixed(version[:])

	return b.buf
}

// EncodeFinalizationProof serializes a FinalizationProof to the wire layout
// DecodeFinalizationProof consumes.
func EncodeFinalizationProof(p *FinalizationProof) []byte {
	b := &builder{}
	b.putUint64(uint64(len(p.Signatures)))
	for _, sig := range p.Signatures {
		putTypedSignature(b, sig)
	}
	return b.buf
}

func encodeExecutionPayloadBody(chain []byte, seq U128, addr1 Address, mid U128, addr2 Address) []byte {
	b := &builder{}
	b.putUint64(uint64(len(chain)))
	b.putFixed(chain)
	b.putFixed(seq[:])
	b.putUint32(0) // enumTag, unused by this engine
	b.putFixed(addr1[:])
	b.putFixed(mid[:])
	b.putFixed(addr2[:])
	return b.buf
}

// EncodeFungibleTransfer serializes a FungibleTransfer to the wire layout
// DecodeFungibleTransfer consumes.
func EncodeFungibleTransfer(t *FungibleTransfer) []byte {
	return encodeExecutionPayloadBody(t.Chain, t.ContractSequence, t.TokenAddress, t.Amount, t.ReceiverAddress)
}

// EncodeNonFungibleTransfer serializes a NonFungibleTransfer to the wire
// layout DecodeNonFungibleTransfer consumes.
func EncodeNonFungibleTransfer(t *NonFungibleTransfer) []byte {
	return encodeExecutionPayloadBody(t.Chain, t.ContractSequence, t.CollectionAddress, t.TokenID, t.ReceiverAddress)
}

// U128FromUint64 builds a little-endian U128 from a uint64 magnitude, for
// constructing test fixtures without routing through big.Int.
func U128FromUint64(v uint64) U128 {
	var u U128
	binary.LittleEndian.PutUint64(u[:8], v)
	return u
}
