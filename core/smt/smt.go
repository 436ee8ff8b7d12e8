// Package smt implements the fixed-depth sparse Merkle tree used to commit to
// the account ledger, along with the canonical empty-subtree roots shared by
// the note and nullifier trees.
package smt

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/velachain/vela-node/core"
)

// MaxDepth is the deepest supported tree; a depth-64 tree is keyed by the full
// uint64 key space, which is how the account tree maps account id to hash.
const MaxDepth = 64

var ErrKeyOutOfRange = errors.New("key does not fit in the tree's key space")

var (
	emptyRootsOnce sync.Once
	emptyRoots     [MaxDepth + 1]core.Digest
)

// EmptyRoot returns the root of an empty subtree of the given height. The empty
// leaf is the zero digest; every level above hashes two copies of the level below.
func EmptyRoot(height uint8) core.Digest {
	emptyRootsOnce.Do(func() {
		for h := 1; h <= MaxDepth; h++ {
			emptyRoots[h] = core.HashDigests(emptyRoots[h-1], emptyRoots[h-1])
		}
	})
	return emptyRoots[height]
}

// SimpleSmt is a sparse Merkle tree of fixed depth with uint64 keys. Only
// non-empty leaves are stored; absent subtrees hash to their canonical empty
// root.
type SimpleSmt struct {
	depth  uint8
	leaves map[uint64]core.Digest
}

func NewSimpleSmt(depth uint8) (*SimpleSmt, error) {
	if depth == 0 || depth > MaxDepth {
		return nil, fmt.Errorf("smt depth must be in [1, %d], got %d", MaxDepth, depth)
	}
	return &SimpleSmt{
		depth:  depth,
		leaves: make(map[uint64]core.Digest),
	}, nil
}

// WithLeaves builds a tree of the given depth from the given key-to-digest
// mapping.
func WithLeaves(depth uint8, leaves map[uint64]core.Digest) (*SimpleSmt, error) {
	tree, err := NewSimpleSmt(depth)
	if err != nil {
		return nil, err
	}
	for key, value := range leaves {
		if err := tree.Put(key, value); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (s *SimpleSmt) Depth() uint8 {
	return s.depth
}

// Put sets the leaf at the given key. Setting the zero digest clears the leaf.
func (s *SimpleSmt) Put(key uint64, value core.Digest) error {
	if s.depth < MaxDepth && key >= uint64(1)<<s.depth {
		return ErrKeyOutOfRange
	}
	if value.IsZero() {
		delete(s.leaves, key)
		return nil
	}
	s.leaves[key] = value
	return nil
}

// Get returns the leaf at the given key, the zero digest if it is empty.
func (s *SimpleSmt) Get(key uint64) core.Digest {
	return s.leaves[key]
}

// Root returns the tree's current root.
func (s *SimpleSmt) Root() core.Digest {
	return s.merge(s.sortedKeys(), s.depth)
}

// Path returns the Merkle path proving the leaf at the given key, ordered
// leaf-to-root. The path verifies against Root() with core.MerklePath.Verify.
func (s *SimpleSmt) Path(key uint64) (core.MerklePath, error) {
	if s.depth < MaxDepth && key >= uint64(1)<<s.depth {
		return nil, ErrKeyOutOfRange
	}

	path := make(core.MerklePath, 0, s.depth)
	keys := s.sortedKeys()
	// Walk down from the root recording the sibling at every level, then flip
	// to the leaf-to-root order Verify expects.
	for height := s.depth; height > 0; height-- {
		left, right := splitByBit(keys, height)
		if key&(uint64(1)<<(height-1)) == 0 {
			path = append(path, s.merge(right, height-1))
			keys = left
		} else {
			path = append(path, s.merge(left, height-1))
			keys = right
		}
	}
	slices.Reverse(path)
	return path, nil
}

func (s *SimpleSmt) sortedKeys() []uint64 {
	return slices.Sorted(maps.Keys(s.leaves))
}

// merge computes the root of the subtree of the given height containing the
// given sorted keys. The keys share all bits above the height by construction.
func (s *SimpleSmt) merge(keys []uint64, height uint8) core.Digest {
	if len(keys) == 0 {
		return EmptyRoot(height)
	}
	if height == 0 {
		return s.leaves[keys[0]]
	}
	left, right := splitByBit(keys, height)
	return core.HashDigests(s.merge(left, height-1), s.merge(right, height-1))
}

func splitByBit(keys []uint64, height uint8) (left, right []uint64) {
	bit := uint64(1) << (height - 1)
	split := sort.Search(len(keys), func(i int) bool { return keys[i]&bit != 0 })
	return keys[:split], keys[split:]
}
