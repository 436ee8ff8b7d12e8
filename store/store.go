// Package store is the durable state machine of the node: it persists accounts,
// consumed nullifiers, created notes and block headers, and serves the
// verification and state-sync queries built on top of them.
//
// The only mutation path is ApplyBlock (plus the one-time genesis bootstrap,
// which goes through ApplyBlock as well); everything else reads a consistent
// snapshot of the database.
package store

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
	"github.com/velachain/vela-node/utils"
)

const uint64KeyLen = 8

// Store keeps all chain state in a transactional key-value database. It holds
// no mutable in-memory state: every answer is re-derived from the database.
type Store struct {
	database db.DB
	log      utils.SimpleLogger
	metrics  metrics
}

func New(database db.DB, log utils.SimpleLogger) *Store {
	return &Store{
		database: database,
		log:      log,
	}
}

// ChainHeight returns the latest block number. Returns db.ErrKeyNotFound if no
// block was applied yet.
func (s *Store) ChainHeight() (height uint64, err error) {
	return height, s.database.View(func(txn db.Transaction) error {
		height, err = chainHeight(txn)
		return err
	})
}

func chainHeight(txn db.Transaction) (height uint64, err error) {
	err = txn.Get(db.ChainHeight.Key(), func(val []byte) error {
		height = binary.BigEndian.Uint64(val)
		return nil
	})
	return
}

// ApplyBlock writes a new block's header, notes, account updates and
// nullifiers in a single atomic transaction, in that order. If any step fails
// the whole transaction rolls back and no partial block becomes visible.
// Returns the number of affected rows.
func (s *Store) ApplyBlock(
	header *core.BlockHeader,
	notes []core.Note,
	nullifiers []core.Nullifier,
	accounts []core.AccountUpdate,
) (int, error) {
	start := time.Now()

	var count int
	err := s.database.Update(func(txn db.Transaction) error {
		if err := verifyHeader(txn, header); err != nil {
			return err
		}
		if err := insertBlockHeader(txn, header); err != nil {
			return err
		}
		count++

		inserted, err := insertNotes(txn, notes)
		if err != nil {
			return err
		}
		count += inserted

		upserted, err := upsertAccounts(txn, accounts, header.BlockNum)
		if err != nil {
			return err
		}
		count += upserted

		inserted, err = insertNullifiers(txn, nullifiers, header.BlockNum)
		if err != nil {
			return err
		}
		count += inserted

		heightBin := make([]byte, uint64KeyLen)
		binary.BigEndian.PutUint64(heightBin, header.BlockNum)
		return txn.Set(db.ChainHeight.Key(), heightBin)
	})
	if err != nil {
		s.metrics.recordApplyFailure()
		return 0, err
	}

	s.metrics.recordApply(count, time.Since(start))
	s.log.Infow("Applied block",
		"number", header.BlockNum,
		"notes", len(notes),
		"nullifiers", len(nullifiers),
		"accounts", len(accounts),
		"rows", count,
	)
	return count, nil
}

// verifyHeader checks the incoming header extends the current tip: the first
// block has number 1 and a zero previous hash, every later block has the next
// number and commits to the previous header's hash.
func verifyHeader(txn db.Transaction, header *core.BlockHeader) error {
	height, err := chainHeight(txn)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			return err
		}
		if header.BlockNum != 1 {
			return &IncompatibleHeaderError{"first block of an empty chain must have number 1"}
		}
		if !header.PrevHash.IsZero() {
			return &IncompatibleHeaderError{"first block of an empty chain must have a zero previous hash"}
		}
		return nil
	}

	if header.BlockNum != height+1 {
		return &IncompatibleHeaderError{"block number does not increase the chain height by 1"}
	}
	latest, err := blockHeaderByNumber(txn, height)
	if err != nil {
		return err
	}
	if latestHash := latest.Hash(); !header.PrevHash.Equal(&latestHash) {
		return &IncompatibleHeaderError{"previous hash does not match the chain tip header"}
	}
	return nil
}

func uint64Key(v uint64) []byte {
	key := make([]byte, uint64KeyLen)
	binary.BigEndian.PutUint64(key, v)
	return key
}

func binaryUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
