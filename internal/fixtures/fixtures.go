// Copyright 2025 Certen Protocol
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package fixtures

import (
	"encoding/binary"
	"fmt"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/certen/bft-lightclient/pkg/codec"
	"github.com/certen/bft-lightclient/pkg/xcrypto"
)

// Store persists a header chain keyed by height in a cometbft-db memdb,
// giving integration tests a network-free stand-in for whatever the host
// actually uses to archive headers it has accepted.
type Store struct {
	db dbm.DB
}

// NewStore returns a Store backed by a fresh in-memory database.
func NewStore() *Store {
	return &Store{db: dbm.NewMemDB()}
}

func heightKey(height uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], height)
	return key[:]
}

// Put records the raw encoded header at height.
func (s *Store) Put(height uint64, headerBytes []byte) error {
	return s.db.SetSync(heightKey(height), headerBytes)
}

// Get returns the raw encoded header stored at height, or nil if absent.
func (s *Store) Get(height uint64) ([]byte, error) {
	return s.db.Get(heightKey(height))
}

// Chain is a sequence of headers built by Builder, each signed by enough of
// the previous header's validator set to clear a 2/3 quorum.
type Chain struct {
	Signers []*Signer
	Headers [][]byte // encoded, in ascending height order; Headers[0] is genesis
}

// BuildUnanimousChain constructs a genesis header with validatorCount equal
// voting-power validators, followed by numAdvances headers each finalized
// by every validator's signature over the prior header's digest -- the
// simplest fixture shape for exercising the happy path end to end.
func BuildUnanimousChain(validatorCount int, numAdvances int) (*Chain, error) {
	signers := make([]*Signer, validatorCount)
	src := deterministicRand()
	validators := make([]codec.Validator, validatorCount)
	for i := range signers {
		signer, err := NewSigner(src)
		if err != nil {
			return nil, fmt.Errorf("fixtures: generate validator %d: %w", i, err)
		}
		signers[i] = signer
		validators[i] = codec.Validator{PublicKey: signer.Public, VotingPower: 1}
	}

	genesis := &codec.BlockHeader{
		Author:           signers[0].Public,
		PreviousHash:     codec.Hash{},
		BlockHeight:      0,
		Timestamp:        1700000000,
		CommitMerkleRoot: codec.Hash{},
		Validators:       validators,
		Version:          [5]byte{1, 0, 0, 0, 0},
	}
	genesisBytes := codec.EncodeHeader(genesis)

	chain := &Chain{Signers: signers, Headers: [][]byte{genesisBytes}}

	prevBytes := genesisBytes
	prevHeader := genesis
	for i := 0; i < numAdvances; i++ {
		prevDigest := xcrypto.Keccak256(prevBytes)

		sigs := make([]codec.TypedSignature, len(signers))
		for j, signer := range signers {
			sig, err := signer.Sign(prevDigest)
			if err != nil {
				return nil, fmt.Errorf("fixtures: sign advance %d: %w", i, err)
			}
			sigs[j] = sig
		}

		next := &codec.BlockHeader{
			Author:                     signers[i%len(signers)].Public,
			PrevBlockFinalizationProof: sigs,
			PreviousHash:               prevDigest,
			BlockHeight:                prevHeader.BlockHeight + 1,
			Timestamp:                  prevHeader.Timestamp + 5,
			CommitMerkleRoot:           xcrypto.Keccak256([]byte(fmt.Sprintf("commit-root-%d", i+1))),
			Validators:                 validators,
			Version:                    [5]byte{1, 0, 0, 0, 0},
		}
		nextBytes := codec.EncodeHeader(next)

		chain.Headers = append(chain.Headers, nextBytes)
		prevBytes = nextBytes
		prevHeader = next
	}

	return chain, nil
}

// FinalizationProofFor re-derives the encoded FinalizationProof that
// finalizes the header at headers[height-1], signed by every signer --
// the proof Advance(headers[height]) expects as its proofBytes argument.
func FinalizationProofFor(chain *Chain, height int) ([]byte, error) {
	if height < 1 || height >= len(chain.Headers) {
		return nil, fmt.Errorf("fixtures: height %d out of range for chain of length %d", height, len(chain.Headers))
	}
	prevDigest := xcrypto.Keccak256(chain.Headers[height-1])

	sigs := make([]codec.TypedSignature, len(chain.Signers))
	for j, signer := range chain.Signers {
		sig, err := signer.Sign(prevDigest)
		if err != nil {
			return nil, err
		}
		sigs[j] = sig
	}
	return codec.EncodeFinalizationProof(&codec.FinalizationProof{Signatures: sigs}), nil
}
