package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
	"github.com/velachain/vela-node/encoder"
)

// accountRecord is the persisted row for one account. Details holds the
// canonical encoding of the full account state; it is nil for accounts tracked
// by hash only.
type accountRecord struct {
	Hash     core.Digest
	BlockNum uint64
	Details  []byte
}

func (r *accountRecord) info(accountID uint64) (*core.AccountInfo, error) {
	info := &core.AccountInfo{
		Summary: core.AccountSummary{
			AccountID: accountID,
			Hash:      r.Hash,
			BlockNum:  r.BlockNum,
		},
	}
	if r.Details != nil {
		account := new(core.Account)
		if err := account.Unmarshal(r.Details); err != nil {
			return nil, fmt.Errorf("decode account %d details: %w", accountID, err)
		}
		info.State = account
	}
	return info, nil
}

// Account returns the latest state of the account with the given id. Returns
// AccountNotFoundError for unknown ids.
func (s *Store) Account(accountID uint64) (info *core.AccountInfo, err error) {
	return info, s.database.View(func(txn db.Transaction) error {
		info, err = account(txn, accountID)
		return err
	})
}

// Accounts returns all accounts ordered by the block of their last update.
func (s *Store) Accounts() (accounts []*core.AccountInfo, err error) {
	return accounts, s.database.View(func(txn db.Transaction) error {
		accounts, err = allAccounts(txn)
		return err
	})
}

// AccountHashes returns the (id, hash, block) summary of every account, ordered
// by the block of the last update.
func (s *Store) AccountHashes() (hashes []core.AccountSummary, err error) {
	return hashes, s.database.View(func(txn db.Transaction) error {
		hashes, err = accountHashes(txn)
		return err
	})
}

// AccountSummariesInRange returns summaries for the given account ids whose
// last update happened in the half-open block range (blockStart, blockEnd].
func (s *Store) AccountSummariesInRange(
	blockStart, blockEnd uint64,
	accountIDs []uint64,
) (summaries []core.AccountSummary, err error) {
	return summaries, s.database.View(func(txn db.Transaction) error {
		summaries, err = accountSummariesInRange(txn, blockStart, blockEnd, accountIDs)
		return err
	})
}

func account(txn db.Transaction, accountID uint64) (*core.AccountInfo, error) {
	record, err := accountRecordByID(txn, accountID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, &AccountNotFoundError{AccountID: accountID}
		}
		return nil, err
	}
	return record.info(accountID)
}

func accountRecordByID(txn db.Transaction, accountID uint64) (*accountRecord, error) {
	record := new(accountRecord)
	err := txn.Get(db.Accounts.Key(uint64Key(accountID)), func(val []byte) error {
		return encoder.Unmarshal(val, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func allAccounts(txn db.Transaction) (accounts []*core.AccountInfo, err error) {
	err = forEachAccount(txn, func(accountID uint64, record *accountRecord) error {
		info, infoErr := record.info(accountID)
		if infoErr != nil {
			return infoErr
		}
		accounts = append(accounts, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Summary.BlockNum < accounts[j].Summary.BlockNum
	})
	return accounts, nil
}

func accountHashes(txn db.Transaction) (hashes []core.AccountSummary, err error) {
	err = forEachAccount(txn, func(accountID uint64, record *accountRecord) error {
		hashes = append(hashes, core.AccountSummary{
			AccountID: accountID,
			Hash:      record.Hash,
			BlockNum:  record.BlockNum,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(hashes, func(i, j int) bool { return hashes[i].BlockNum < hashes[j].BlockNum })
	return hashes, nil
}

// accountSummariesInRange answers the set-membership filter with one point
// lookup per id inside a single snapshot; the substrate has no array binding.
func accountSummariesInRange(
	txn db.Transaction,
	blockStart, blockEnd uint64,
	accountIDs []uint64,
) ([]core.AccountSummary, error) {
	var summaries []core.AccountSummary
	for _, accountID := range accountIDs {
		record, err := accountRecordByID(txn, accountID)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		if record.BlockNum > blockStart && record.BlockNum <= blockEnd {
			summaries = append(summaries, core.AccountSummary{
				AccountID: accountID,
				Hash:      record.Hash,
				BlockNum:  record.BlockNum,
			})
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].BlockNum < summaries[j].BlockNum })
	return summaries, nil
}

func forEachAccount(txn db.Transaction, fn func(accountID uint64, record *accountRecord) error) (err error) {
	iterator, err := txn.NewIterator()
	if err != nil {
		return err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	prefix := db.Accounts.Key()
	for iterator.Seek(prefix); iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) != 1+uint64KeyLen || key[0] != prefix[0] {
			break
		}
		accountID := binaryUint64(key[1:])

		val, valErr := iterator.Value()
		if valErr != nil {
			return valErr
		}
		record := new(accountRecord)
		if err := encoder.Unmarshal(val, record); err != nil {
			return fmt.Errorf("decode account %d: %w", accountID, err)
		}
		if err := fn(accountID, record); err != nil {
			return err
		}
	}
	return nil
}

// upsertAccounts replaces the stored record of every updated account. Full
// snapshots and deltas are verified against the update's declared final state
// hash before anything is written; hash-only updates store the bare hash.
// Replace-by-id makes the operation idempotent.
func upsertAccounts(txn db.Transaction, updates []core.AccountUpdate, blockNum uint64) (int, error) {
	count := 0
	for i := range updates {
		update := &updates[i]

		var details []byte
		switch {
		case update.FullState != nil:
			if calculated := update.FullState.Hash(); !calculated.Equal(&update.FinalStateHash) {
				return 0, &HashMismatchError{
					AccountID:  update.AccountID,
					Calculated: calculated,
					Expected:   update.FinalStateHash,
				}
			}
			details = update.FullState.Marshal()
		case update.Delta != nil:
			stored, err := accountRecordByID(txn, update.AccountID)
			if err != nil {
				if errors.Is(err, db.ErrKeyNotFound) {
					return 0, &AccountNotFoundError{AccountID: update.AccountID}
				}
				return 0, err
			}
			if stored.Details == nil {
				return 0, &AccountNotOnChainError{AccountID: update.AccountID}
			}

			// Materialise a fresh snapshot; the stored bytes stay untouched
			// until the replacement row is written.
			state := new(core.Account)
			if err := state.Unmarshal(stored.Details); err != nil {
				return 0, fmt.Errorf("decode account %d details: %w", update.AccountID, err)
			}
			if err := state.ApplyDelta(update.Delta); err != nil {
				return 0, err
			}
			if calculated := state.Hash(); !calculated.Equal(&update.FinalStateHash) {
				return 0, &HashMismatchError{
					AccountID:  update.AccountID,
					Calculated: calculated,
					Expected:   update.FinalStateHash,
				}
			}
			details = state.Marshal()
		}

		record := &accountRecord{
			Hash:     update.FinalStateHash,
			BlockNum: blockNum,
			Details:  details,
		}
		encoded, err := encoder.Marshal(record)
		if err != nil {
			return 0, err
		}
		if err := txn.Set(db.Accounts.Key(uint64Key(update.AccountID)), encoded); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
