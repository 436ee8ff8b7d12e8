package smt

import "github.com/velachain/vela-node/core"

// PeaksHash flattens the peaks of a Merkle Mountain Range into the single
// digest block headers commit to as ChainRoot. An empty MMR (the genesis case)
// hashes the empty input.
func PeaksHash(peaks []core.Digest) core.Digest {
	return core.HashDigests(peaks...)
}
