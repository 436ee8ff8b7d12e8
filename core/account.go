package core

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// AccountLen is the length of the canonical account encoding in bytes.
const AccountLen = 8 + 3*DigestLen + 8

var ErrNonceNotMonotonic = errors.New("account delta nonce must be greater than the current nonce")

// Account is a full account state snapshot. Its hash is what block headers commit
// to via the account tree.
type Account struct {
	ID          uint64
	VaultRoot   Digest
	StorageRoot Digest
	CodeRoot    Digest
	Nonce       uint64
}

// Hash returns the digest committing to the full account state.
func (a *Account) Hash() Digest {
	return HashBytes(a.Marshal())
}

// Marshal returns the canonical byte encoding of the account:
// id ‖ vault root ‖ storage root ‖ code root ‖ nonce, integers big-endian.
func (a *Account) Marshal() []byte {
	out := make([]byte, 0, AccountLen)
	out = binary.BigEndian.AppendUint64(out, a.ID)
	out = append(out, a.VaultRoot[:]...)
	out = append(out, a.StorageRoot[:]...)
	out = append(out, a.CodeRoot[:]...)
	out = binary.BigEndian.AppendUint64(out, a.Nonce)
	return out
}

// Unmarshal sets the account from its canonical byte encoding.
func (a *Account) Unmarshal(data []byte) error {
	if len(data) != AccountLen {
		return fmt.Errorf("account must be %d bytes long, got %d", AccountLen, len(data))
	}
	a.ID = binary.BigEndian.Uint64(data[:8])
	copy(a.VaultRoot[:], data[8:40])
	copy(a.StorageRoot[:], data[40:72])
	copy(a.CodeRoot[:], data[72:104])
	a.Nonce = binary.BigEndian.Uint64(data[104:112])
	return nil
}

// AccountDelta is an incremental change to an account state. Fields left nil are
// carried over from the previous snapshot unchanged.
type AccountDelta struct {
	Nonce       uint64
	VaultRoot   *Digest
	StorageRoot *Digest
}

// ApplyDelta mutates the account in place. The delta's nonce must strictly
// increase the account's nonce.
func (a *Account) ApplyDelta(delta *AccountDelta) error {
	if delta.Nonce <= a.Nonce {
		return ErrNonceNotMonotonic
	}
	a.Nonce = delta.Nonce
	if delta.VaultRoot != nil {
		a.VaultRoot = *delta.VaultRoot
	}
	if delta.StorageRoot != nil {
		a.StorageRoot = *delta.StorageRoot
	}
	return nil
}

// AccountUpdate describes the state transition of a single account within a block.
// At most one of FullState and Delta is set; when both are nil only the hash is
// tracked (the account remains private).
type AccountUpdate struct {
	AccountID      uint64
	FinalStateHash Digest
	FullState      *Account
	Delta          *AccountDelta
}

// AccountSummary is the hash-level view of an account at a given height.
type AccountSummary struct {
	AccountID uint64
	Hash      Digest
	BlockNum  uint64
}

// AccountInfo is an account summary together with the full state snapshot, when
// the account is public.
type AccountInfo struct {
	Summary AccountSummary
	State   *Account
}
