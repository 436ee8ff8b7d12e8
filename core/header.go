package core

import (
	"encoding/binary"
	"fmt"
)

// Tree depths fixed by the protocol.
const (
	// AccountTreeDepth is the depth of the sparse Merkle tree mapping account id
	// to account hash.
	AccountTreeDepth = 64
	// NullifierTreeDepth is the depth of the nullifier commitment tree.
	NullifierTreeDepth = 64
	// NoteTreeDepth is the leaf depth of the per-block created-notes tree.
	NoteTreeDepth = 20
)

// BlockHeaderLen is the length of the canonical header encoding in bytes.
const BlockHeaderLen = 7*DigestLen + 3*8

// BlockHeader commits to the entire chain state as of its block: the previous
// header, the account, nullifier and note trees, and the MMR over all prior
// headers (ChainRoot).
type BlockHeader struct {
	PrevHash      Digest
	BlockNum      uint64
	ChainRoot     Digest
	AccountRoot   Digest
	NullifierRoot Digest
	NoteRoot      Digest
	BatchRoot     Digest
	ProofHash     Digest
	Version       uint64
	Timestamp     uint64
}

// Hash returns the digest of the canonical header encoding.
func (h *BlockHeader) Hash() Digest {
	return HashBytes(h.Marshal())
}

// Marshal returns the canonical byte encoding of the header. Integers are
// big-endian; field order is fixed.
func (h *BlockHeader) Marshal() []byte {
	out := make([]byte, 0, BlockHeaderLen)
	out = append(out, h.PrevHash[:]...)
	out = binary.BigEndian.AppendUint64(out, h.BlockNum)
	out = append(out, h.ChainRoot[:]...)
	out = append(out, h.AccountRoot[:]...)
	out = append(out, h.NullifierRoot[:]...)
	out = append(out, h.NoteRoot[:]...)
	out = append(out, h.BatchRoot[:]...)
	out = append(out, h.ProofHash[:]...)
	out = binary.BigEndian.AppendUint64(out, h.Version)
	out = binary.BigEndian.AppendUint64(out, h.Timestamp)
	return out
}

// Unmarshal sets the header from its canonical byte encoding.
func (h *BlockHeader) Unmarshal(data []byte) error {
	if len(data) != BlockHeaderLen {
		return fmt.Errorf("block header must be %d bytes long, got %d", BlockHeaderLen, len(data))
	}
	copy(h.PrevHash[:], data[:32])
	h.BlockNum = binary.BigEndian.Uint64(data[32:40])
	copy(h.ChainRoot[:], data[40:72])
	copy(h.AccountRoot[:], data[72:104])
	copy(h.NullifierRoot[:], data[104:136])
	copy(h.NoteRoot[:], data[136:168])
	copy(h.BatchRoot[:], data[168:200])
	copy(h.ProofHash[:], data[200:232])
	h.Version = binary.BigEndian.Uint64(data[232:240])
	h.Timestamp = binary.BigEndian.Uint64(data[240:248])
	return nil
}
