package store

import (
	"errors"
	"fmt"

	"github.com/velachain/vela-node/core"
)

// ErrEmptyBlockHeaders is returned by SyncState when the header table is empty.
// A sync request against an uninitialised chain is an invalid precondition:
// genesis must exist before any client can catch up.
var ErrEmptyBlockHeaders = errors.New("no block headers in the store")

// AccountNotFoundError is returned when an account delta references an account
// id the store has never seen.
type AccountNotFoundError struct {
	AccountID uint64
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %d not found in the store", e.AccountID)
}

// AccountNotOnChainError is returned when a delta arrives for an account that
// is tracked by hash only, so there is no full snapshot to apply the delta to.
type AccountNotOnChainError struct {
	AccountID uint64
}

func (e *AccountNotOnChainError) Error() string {
	return fmt.Sprintf("account %d has no on-chain state to apply a delta to", e.AccountID)
}

// HashMismatchError is returned when the hash of a reconstructed account state
// does not equal the final state hash the block declared. It aborts the whole
// block application.
type HashMismatchError struct {
	AccountID  uint64
	Calculated core.Digest
	Expected   core.Digest
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("account %d state hash mismatch: calculated %v, block declared %v",
		e.AccountID, &e.Calculated, &e.Expected)
}

// NullifierExistsError is returned when a block tries to consume a nullifier
// that is already recorded as consumed. Spending is final.
type NullifierExistsError struct {
	Nullifier core.Nullifier
	BlockNum  uint64
}

func (e *NullifierExistsError) Error() string {
	return fmt.Sprintf("nullifier %v was already consumed at block %d", &e.Nullifier, e.BlockNum)
}

// IncompatibleHeaderError is returned when a header does not extend the current
// chain tip.
type IncompatibleHeaderError struct {
	reason string
}

func (e *IncompatibleHeaderError) Error() string {
	return fmt.Sprintf("incompatible block header: %v", e.reason)
}
