package core

// Nullifier is a one-time digest marking a note as consumed. Once it appears in
// the nullifier ledger, the note it belongs to can never be consumed again.
type Nullifier Digest

// Prefix returns the 16 most significant bits of the nullifier. Clients query by
// prefix so the operator never learns which exact nullifier they poll for.
func (n *Nullifier) Prefix() uint32 {
	return uint32((*Digest)(n).MostSignificantLimb() >> 48)
}

// Marshal returns the canonical byte encoding of the nullifier.
func (n *Nullifier) Marshal() []byte {
	return (*Digest)(n).Marshal()
}

// Unmarshal sets the nullifier from its canonical byte encoding.
func (n *Nullifier) Unmarshal(data []byte) error {
	return (*Digest)(n).Unmarshal(data)
}

func (n *Nullifier) String() string {
	return (*Digest)(n).String()
}

// NullifierInfo pairs a consumed nullifier with the block that consumed it.
type NullifierInfo struct {
	Nullifier Nullifier
	BlockNum  uint64
}
