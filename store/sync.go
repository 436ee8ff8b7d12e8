package store

import (
	"errors"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
)

// StateSyncUpdate carries everything a syncing client needs to advance from its
// last known block to the target block.
type StateSyncUpdate struct {
	// Notes created in the target block that match the client's filters.
	Notes []core.Note
	// BlockHeader of the target block.
	BlockHeader core.BlockHeader
	// ChainTip is the current latest block number, which may be ahead of the
	// target block.
	ChainTip uint64
	// AccountUpdates for the client's accounts in (afterBlock, target].
	AccountUpdates []core.AccountSummary
	// Nullifiers consumed in (afterBlock, target] matching the client's prefixes.
	Nullifiers []core.NullifierInfo
}

// SyncState answers one incremental state-sync step. The target block is the
// first block after afterBlock containing a note matching the tag or account
// filters; with no such block the target degenerates to the chain tip. Account
// and nullifier deltas cover (afterBlock, target]. Responses are bounded to a
// single block of new notes, so a client loops the call advancing afterBlock
// to the returned header's number until target equals ChainTip.
func (s *Store) SyncState(
	afterBlock uint64,
	accountIDs []uint64,
	noteTags []uint32,
	nullifierPrefixes []uint32,
) (update *StateSyncUpdate, err error) {
	err = s.database.View(func(txn db.Transaction) error {
		update, err = syncState(txn, afterBlock, accountIDs, noteTags, nullifierPrefixes)
		return err
	})
	if err == nil {
		s.metrics.recordSync()
	}
	return update, err
}

func syncState(
	txn db.Transaction,
	afterBlock uint64,
	accountIDs []uint64,
	noteTags []uint32,
	nullifierPrefixes []uint32,
) (*StateSyncUpdate, error) {
	notes, err := notesSinceBlock(txn, noteTags, accountIDs, afterBlock)
	if err != nil {
		return nil, err
	}

	var header *core.BlockHeader
	var chainTip uint64
	if len(notes) > 0 {
		header, err = blockHeaderByNumber(txn, notes[0].BlockNum)
		if err != nil {
			return nil, emptyHeadersOr(err)
		}
		tip, err := latestBlockHeader(txn)
		if err != nil {
			return nil, emptyHeadersOr(err)
		}
		chainTip = tip.BlockNum
	} else {
		header, err = latestBlockHeader(txn)
		if err != nil {
			return nil, emptyHeadersOr(err)
		}
		chainTip = header.BlockNum
	}

	accountUpdates, err := accountSummariesInRange(txn, afterBlock, header.BlockNum, accountIDs)
	if err != nil {
		return nil, err
	}
	nullifiers, err := nullifiersInRange(txn, afterBlock, header.BlockNum, nullifierPrefixes)
	if err != nil {
		return nil, err
	}

	return &StateSyncUpdate{
		Notes:          notes,
		BlockHeader:    *header,
		ChainTip:       chainTip,
		AccountUpdates: accountUpdates,
		Nullifiers:     nullifiers,
	}, nil
}

func emptyHeadersOr(err error) error {
	if errors.Is(err, db.ErrKeyNotFound) {
		return ErrEmptyBlockHeaders
	}
	return err
}
