package core

import "fmt"

// NoteType distinguishes how much of a note is published on chain.
type NoteType uint8

const (
	// NotePublic notes carry their full payload in the Details field.
	NotePublic NoteType = 1
	// NotePrivate notes publish only the note id; the payload travels off chain.
	NotePrivate NoteType = 2
)

// NoteTypeFromByte validates a raw note type read back from storage or received
// over the wire.
func NoteTypeFromByte(b uint8) (NoteType, error) {
	switch t := NoteType(b); t {
	case NotePublic, NotePrivate:
		return t, nil
	default:
		return 0, fmt.Errorf("unknown note type: %d", b)
	}
}

// Note is a note created by a block. BlockNum, BatchIndex and NoteIndex give the
// note's global ordering; MerklePath proves inclusion of NoteID in the block's
// note tree. Details is nil for private notes.
type Note struct {
	BlockNum   uint64
	BatchIndex uint32
	NoteIndex  uint32
	NoteID     Digest
	NoteType   NoteType
	Sender     uint64
	Tag        uint32
	MerklePath MerklePath
	Details    []byte
}

// TreeIndex returns the note's leaf index in the block's note tree.
func (n *Note) TreeIndex() uint64 {
	return uint64(n.BatchIndex)<<uint64(NoteTreeDepth/2) | uint64(n.NoteIndex)
}
