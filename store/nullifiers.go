package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
)

const nullifierPrefixKeyLen = 1 + 2 + uint64KeyLen + core.DigestLen

// Nullifiers returns every consumed nullifier with the block that consumed it,
// ordered by block number ascending.
func (s *Store) Nullifiers() (nullifiers []core.NullifierInfo, err error) {
	return nullifiers, s.database.View(func(txn db.Transaction) error {
		nullifiers, err = allNullifiers(txn)
		return err
	})
}

// NullifierBlock returns the block at which the given nullifier was consumed,
// or found == false if it was never consumed.
func (s *Store) NullifierBlock(nullifier *core.Nullifier) (blockNum uint64, found bool, err error) {
	err = s.database.View(func(txn db.Transaction) error {
		blockNum, found, err = nullifierBlock(txn, nullifier)
		return err
	})
	return blockNum, found, err
}

// NullifiersInRange returns nullifiers consumed in the half-open block range
// (blockStart, blockEnd] whose 16-bit prefix is in the given set. Prefix
// filtering trades some false positives for not revealing the exact nullifier
// a client polls for.
func (s *Store) NullifiersInRange(
	blockStart, blockEnd uint64,
	prefixes []uint32,
) (nullifiers []core.NullifierInfo, err error) {
	return nullifiers, s.database.View(func(txn db.Transaction) error {
		nullifiers, err = nullifiersInRange(txn, blockStart, blockEnd, prefixes)
		return err
	})
}

// insertNullifiers appends the block's consumed nullifiers. Each nullifier is
// stored twice:
//
// [db.Nullifiers](Nullifier) -> (BlockNumber)
// [db.NullifierPrefixes](Prefix, BlockNumber, Nullifier) -> ()
//
// the second row being the range index for prefix queries. A nullifier that is
// already present fails the whole batch.
func insertNullifiers(txn db.Transaction, nullifiers []core.Nullifier, blockNum uint64) (int, error) {
	count := 0
	for i := range nullifiers {
		nullifier := &nullifiers[i]

		if spentAt, found, err := nullifierBlock(txn, nullifier); err != nil {
			return 0, err
		} else if found {
			return 0, &NullifierExistsError{Nullifier: *nullifier, BlockNum: spentAt}
		}

		if err := txn.Set(db.Nullifiers.Key(nullifier.Marshal()), uint64Key(blockNum)); err != nil {
			return 0, err
		}
		if err := txn.Set(nullifierPrefixKey(nullifier, blockNum), nil); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func nullifierBlock(txn db.Transaction, nullifier *core.Nullifier) (blockNum uint64, found bool, err error) {
	err = txn.Get(db.Nullifiers.Key(nullifier.Marshal()), func(val []byte) error {
		blockNum = binary.BigEndian.Uint64(val)
		found = true
		return nil
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		err = nil
	}
	return blockNum, found, err
}

func allNullifiers(txn db.Transaction) (nullifiers []core.NullifierInfo, err error) {
	iterator, err := txn.NewIterator()
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	prefix := db.Nullifiers.Key()
	for iterator.Seek(prefix); iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) != 1+core.DigestLen || key[0] != prefix[0] {
			break
		}

		var info core.NullifierInfo
		if err := info.Nullifier.Unmarshal(key[1:]); err != nil {
			return nil, err
		}
		val, valErr := iterator.Value()
		if valErr != nil {
			return nil, valErr
		}
		if len(val) != uint64KeyLen {
			return nil, fmt.Errorf("decode nullifier %v block number: unexpected length %d", &info.Nullifier, len(val))
		}
		info.BlockNum = binary.BigEndian.Uint64(val)
		nullifiers = append(nullifiers, info)
	}

	sort.SliceStable(nullifiers, func(i, j int) bool { return nullifiers[i].BlockNum < nullifiers[j].BlockNum })
	return nullifiers, nil
}

// nullifiersInRange scans the prefix index once per requested prefix. Each scan
// starts right after blockStart and stops past blockEnd, so the range is
// (blockStart, blockEnd].
func nullifiersInRange(
	txn db.Transaction,
	blockStart, blockEnd uint64,
	prefixes []uint32,
) (nullifiers []core.NullifierInfo, err error) {
	// (blockStart, blockEnd] is empty; also keeps blockStart+1 from wrapping.
	if blockStart >= blockEnd {
		return nil, nil
	}

	iterator, err := txn.NewIterator()
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	for _, prefix := range prefixes {
		prefixBin := uint16Key(prefix)
		seekKey := db.NullifierPrefixes.Key(prefixBin, uint64Key(blockStart+1))
		for iterator.Seek(seekKey); iterator.Valid(); iterator.Next() {
			key := iterator.Key()
			if len(key) != nullifierPrefixKeyLen ||
				key[0] != byte(db.NullifierPrefixes) ||
				!bytes.Equal(key[1:3], prefixBin) {
				break
			}
			blockNum := binary.BigEndian.Uint64(key[3 : 3+uint64KeyLen])
			if blockNum > blockEnd {
				break
			}

			var info core.NullifierInfo
			if err := info.Nullifier.Unmarshal(key[3+uint64KeyLen:]); err != nil {
				return nil, err
			}
			info.BlockNum = blockNum
			nullifiers = append(nullifiers, info)
		}
	}

	sort.SliceStable(nullifiers, func(i, j int) bool { return nullifiers[i].BlockNum < nullifiers[j].BlockNum })
	return nullifiers, nil
}

func nullifierPrefixKey(nullifier *core.Nullifier, blockNum uint64) []byte {
	return db.NullifierPrefixes.Key(uint16Key(nullifier.Prefix()), uint64Key(blockNum), nullifier.Marshal())
}

// uint16Key encodes the low 16 bits of v, which is how prefixes are keyed.
func uint16Key(v uint32) []byte {
	key := make([]byte, 2)
	binary.BigEndian.PutUint16(key, uint16(v))
	return key
}
