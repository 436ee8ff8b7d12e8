package store

import (
	"fmt"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
)

// BlockHeaderByNumber returns the header with the given block number.
func (s *Store) BlockHeaderByNumber(number uint64) (header *core.BlockHeader, err error) {
	return header, s.database.View(func(txn db.Transaction) error {
		header, err = blockHeaderByNumber(txn, number)
		return err
	})
}

// LatestBlockHeader returns the header at the chain tip. Returns
// db.ErrKeyNotFound on an empty chain.
func (s *Store) LatestBlockHeader() (header *core.BlockHeader, err error) {
	return header, s.database.View(func(txn db.Transaction) error {
		header, err = latestBlockHeader(txn)
		return err
	})
}

// BlockHeaders returns all block headers ordered by block number ascending.
func (s *Store) BlockHeaders() (headers []*core.BlockHeader, err error) {
	return headers, s.database.View(func(txn db.Transaction) error {
		headers, err = blockHeaders(txn)
		return err
	})
}

// insertBlockHeader stores the header under its block number:
//
// [db.BlockHeaders](BlockNumber) -> (canonical header bytes)
func insertBlockHeader(txn db.Transaction, header *core.BlockHeader) error {
	return txn.Set(db.BlockHeaders.Key(uint64Key(header.BlockNum)), header.Marshal())
}

func blockHeaderByNumber(txn db.Transaction, number uint64) (*core.BlockHeader, error) {
	header := new(core.BlockHeader)
	if err := txn.Get(db.BlockHeaders.Key(uint64Key(number)), header.Unmarshal); err != nil {
		return nil, err
	}
	return header, nil
}

func latestBlockHeader(txn db.Transaction) (*core.BlockHeader, error) {
	height, err := chainHeight(txn)
	if err != nil {
		return nil, err
	}
	return blockHeaderByNumber(txn, height)
}

func blockHeaders(txn db.Transaction) (headers []*core.BlockHeader, err error) {
	iterator, err := txn.NewIterator()
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	prefix := db.BlockHeaders.Key()
	for iterator.Seek(prefix); iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) == 0 || key[0] != prefix[0] {
			break
		}

		val, valErr := iterator.Value()
		if valErr != nil {
			return nil, valErr
		}
		header := new(core.BlockHeader)
		if err := header.Unmarshal(val); err != nil {
			return nil, fmt.Errorf("decode block header %x: %w", key, err)
		}
		headers = append(headers, header)
	}
	return headers, nil
}
