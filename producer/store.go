// Package producer defines the store contract the external block producer
// consumes: verification inputs for candidate transactions, commitment inputs
// for building a block, and the single entry point for committing one.
package producer

import (
	"context"

	"github.com/velachain/vela-node/core"
)

// TxInputs is everything the producer needs from the store to verify one
// candidate transaction before including it in a block.
type TxInputs struct {
	// AccountHash is the current hash of the transaction's target account,
	// nil when the account is unknown to the store.
	AccountHash *core.Digest
	// Nullifiers maps each nullifier the transaction would produce to whether
	// it is already consumed, enabling double-spend rejection up front.
	Nullifiers map[core.Nullifier]bool
}

// AccountWitness is the store's current commitment to a single account.
type AccountWitness struct {
	AccountID uint64
	Hash      core.Digest
}

// BlockInputs carries the commitments a producer needs to assemble the next
// block header.
type BlockInputs struct {
	// Header is the current chain tip header the new block must extend.
	Header core.BlockHeader
	// Accounts are the current witnesses of the accounts the block updates; a
	// zero hash marks an account the store has not seen yet.
	Accounts []AccountWitness
	// Nullifiers maps each nullifier the block would produce to the block that
	// already consumed it, zero if it is still unconsumed.
	Nullifiers map[core.Nullifier]uint64
}

// ApplyBlock commits a fully assembled block.
type ApplyBlock interface {
	ApplyBlock(ctx context.Context, block *core.Block) error
}

// Store is the complete boundary between the block producer and the state
// store. Production and test implementations are interchangeable behind it.
type Store interface {
	ApplyBlock

	GetTransactionInputs(ctx context.Context, tx *core.ProvenTransaction) (*TxInputs, error)
	GetBlockInputs(ctx context.Context, accountIDs []uint64, nullifiers []core.Nullifier) (*BlockInputs, error)
}
