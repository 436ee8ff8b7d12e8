package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/velachain/vela-node/core"
)

func TestNullifierPrefix(t *testing.T) {
	nullifier := core.Nullifier{0xAB, 0xCD, 0xEF, 0x01}
	assert.Equal(t, uint32(0xABCD), nullifier.Prefix())

	var zero core.Nullifier
	assert.Equal(t, uint32(0), zero.Prefix())
}

func TestNullifierPrefixMatchesLimb(t *testing.T) {
	// The prefix is exactly the top 16 bits of the most significant limb.
	nullifier := core.Nullifier(core.HashBytes([]byte("note")))
	limb := (*core.Digest)(&nullifier).MostSignificantLimb()
	assert.Equal(t, uint32(limb>>48), nullifier.Prefix())
}
