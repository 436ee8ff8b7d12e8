package core

// MerklePath is the list of sibling digests needed to recompute a Merkle root
// from a leaf, ordered leaf-to-root.
type MerklePath []Digest

// ComputeRoot folds the path over the leaf at the given index and returns the
// resulting root.
func (p MerklePath) ComputeRoot(index uint64, leaf Digest) Digest {
	node := leaf
	for _, sibling := range p {
		if index&1 == 1 {
			node = HashDigests(sibling, node)
		} else {
			node = HashDigests(node, sibling)
		}
		index >>= 1
	}
	return node
}

// Verify reports whether the path proves inclusion of leaf at index under root.
func (p MerklePath) Verify(index uint64, leaf, root Digest) bool {
	computed := p.ComputeRoot(index, leaf)
	return computed.Equal(&root)
}

// Marshal returns the canonical byte encoding of the path: the sibling digests
// concatenated leaf-to-root.
func (p MerklePath) Marshal() []byte {
	out := make([]byte, 0, len(p)*DigestLen)
	for i := range p {
		out = append(out, p[i][:]...)
	}
	return out
}
