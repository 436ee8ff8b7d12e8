// Package genesis derives the chain's first block from a flat account list and
// defines the canonical on-disk encoding of that list.
package genesis

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/core/smt"
	"github.com/velachain/vela-node/db"
	"github.com/velachain/vela-node/store"
	"github.com/velachain/vela-node/utils"
)

// GenesisState is the complete input to the genesis block: every account the
// chain starts with, plus the protocol version and timestamp the first header
// commits to.
type GenesisState struct {
	Accounts  []core.Account
	Version   uint64
	Timestamp uint64
}

// BlockParts builds the depth-64 sparse Merkle tree over the genesis accounts
// (account id -> account hash) and the first block header committing to it.
// The header carries a zero previous hash, block number 1, the empty-MMR peaks
// hash and the canonical empty roots for the nullifier and note trees.
func (g *GenesisState) BlockParts() (*core.BlockHeader, *smt.SimpleSmt, error) {
	hashes := iter.Map(g.Accounts, func(account *core.Account) core.Digest {
		return account.Hash()
	})

	leaves := make(map[uint64]core.Digest, len(g.Accounts))
	for i := range g.Accounts {
		if _, ok := leaves[g.Accounts[i].ID]; ok {
			return nil, nil, fmt.Errorf("duplicate genesis account id %d", g.Accounts[i].ID)
		}
		leaves[g.Accounts[i].ID] = hashes[i]
	}

	accountTree, err := smt.WithLeaves(core.AccountTreeDepth, leaves)
	if err != nil {
		return nil, nil, err
	}

	header := &core.BlockHeader{
		BlockNum:      1,
		ChainRoot:     smt.PeaksHash(nil),
		AccountRoot:   accountTree.Root(),
		NullifierRoot: smt.EmptyRoot(core.NullifierTreeDepth),
		NoteRoot:      smt.EmptyRoot(core.NoteTreeDepth),
		Version:       g.Version,
		Timestamp:     g.Timestamp,
	}
	return header, accountTree, nil
}

// Initialize applies the genesis block to an empty store. Calling it again
// with the same state is a no-op; calling it against a store initialised from
// a different genesis state fails.
func Initialize(s *store.Store, state *GenesisState, log utils.SimpleLogger) error {
	header, _, err := state.BlockParts()
	if err != nil {
		return err
	}

	stored, err := s.BlockHeaderByNumber(header.BlockNum)
	if err == nil {
		storedHash, headerHash := stored.Hash(), header.Hash()
		if !storedHash.Equal(&headerHash) {
			return errors.New("store was initialised from a different genesis state")
		}
		log.Debugw("Genesis block already applied", "hash", &headerHash)
		return nil
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return err
	}

	updates := make([]core.AccountUpdate, len(state.Accounts))
	for i := range state.Accounts {
		account := state.Accounts[i]
		updates[i] = core.AccountUpdate{
			AccountID:      account.ID,
			FinalStateHash: account.Hash(),
			FullState:      &account,
		}
	}

	if _, err := s.ApplyBlock(header, nil, nil, updates); err != nil {
		return err
	}
	log.Infow("Applied genesis block", "accounts", len(updates), "version", state.Version)
	return nil
}
