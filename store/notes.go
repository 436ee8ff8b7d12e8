package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db"
	"github.com/velachain/vela-node/encoder"
)

const noteKeyLen = 1 + uint64KeyLen + 4 + 4

// Notes returns every note ever created, ordered by block number, batch index
// and note index ascending.
func (s *Store) Notes() (notes []core.Note, err error) {
	return notes, s.database.View(func(txn db.Transaction) error {
		notes, err = allNotes(txn)
		return err
	})
}

// NotesByID returns the notes whose id is in the given set. Unknown ids are
// skipped.
func (s *Store) NotesByID(noteIDs []core.Digest) (notes []core.Note, err error) {
	return notes, s.database.View(func(txn db.Transaction) error {
		notes, err = notesByID(txn, noteIDs)
		return err
	})
}

// NotesSinceBlock finds the smallest block number greater than afterBlock
// containing at least one note whose tag is in tags or whose sender is in
// accountIDs, and returns all matching notes of exactly that block. Returns an
// empty slice if no later block matches. Callers wanting the full backlog
// repeat the call advancing afterBlock to the returned block number.
func (s *Store) NotesSinceBlock(tags []uint32, accountIDs []uint64, afterBlock uint64) (notes []core.Note, err error) {
	return notes, s.database.View(func(txn db.Transaction) error {
		notes, err = notesSinceBlock(txn, tags, accountIDs, afterBlock)
		return err
	})
}

// insertNotes appends the block's created notes:
//
// [db.Notes](BlockNumber, BatchIndex, NoteIndex) -> (NoteRecord)
// [db.NoteIDs](NoteID) -> (BlockNumber, BatchIndex, NoteIndex)
func insertNotes(txn db.Transaction, notes []core.Note) (int, error) {
	count := 0
	for i := range notes {
		note := &notes[i]

		encoded, err := encoder.Marshal(note)
		if err != nil {
			return 0, err
		}
		key := noteKey(note.BlockNum, note.BatchIndex, note.NoteIndex)
		if err := txn.Set(key, encoded); err != nil {
			return 0, err
		}
		if err := txn.Set(db.NoteIDs.Key(note.NoteID.Marshal()), key[1:]); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func allNotes(txn db.Transaction) (notes []core.Note, err error) {
	iterator, err := txn.NewIterator()
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	prefix := db.Notes.Key()
	for iterator.Seek(prefix); iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) != noteKeyLen || key[0] != prefix[0] {
			break
		}

		val, valErr := iterator.Value()
		if valErr != nil {
			return nil, valErr
		}
		var note core.Note
		if err := encoder.Unmarshal(val, &note); err != nil {
			return nil, fmt.Errorf("decode note %x: %w", key, err)
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func notesByID(txn db.Transaction, noteIDs []core.Digest) ([]core.Note, error) {
	var notes []core.Note
	for i := range noteIDs {
		var key []byte
		err := txn.Get(db.NoteIDs.Key(noteIDs[i].Marshal()), func(val []byte) error {
			key = append([]byte(nil), val...)
			return nil
		})
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}

		var note core.Note
		err = txn.Get(db.Notes.Key(key), func(val []byte) error {
			return encoder.Unmarshal(val, &note)
		})
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// notesSinceBlock scans forward from afterBlock+1 in a single pass: the first
// matching note fixes the target block, collection then stops at the first
// note past that block. The result therefore never spans two blocks.
func notesSinceBlock(txn db.Transaction, tags []uint32, accountIDs []uint64, afterBlock uint64) (notes []core.Note, err error) {
	// No block can follow the maximal watermark; afterBlock+1 would wrap.
	if afterBlock == math.MaxUint64 {
		return nil, nil
	}

	tagSet := make(map[uint32]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}
	senderSet := make(map[uint64]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		senderSet[id] = struct{}{}
	}
	matches := func(note *core.Note) bool {
		if _, ok := tagSet[note.Tag]; ok {
			return true
		}
		_, ok := senderSet[note.Sender]
		return ok
	}

	iterator, err := txn.NewIterator()
	if err != nil {
		return nil, err
	}
	defer db.CloseAndWrapOnError(iterator.Close, &err)

	var targetBlock uint64
	seekKey := noteKey(afterBlock+1, 0, 0)
	for iterator.Seek(seekKey); iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		if len(key) != noteKeyLen || key[0] != byte(db.Notes) {
			break
		}
		blockNum := binary.BigEndian.Uint64(key[1 : 1+uint64KeyLen])
		if len(notes) > 0 && blockNum != targetBlock {
			break
		}

		val, valErr := iterator.Value()
		if valErr != nil {
			return nil, valErr
		}
		var note core.Note
		if err := encoder.Unmarshal(val, &note); err != nil {
			return nil, fmt.Errorf("decode note %x: %w", key, err)
		}
		if !matches(&note) {
			continue
		}

		if len(notes) == 0 {
			targetBlock = blockNum
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func noteKey(blockNum uint64, batchIndex, noteIndex uint32) []byte {
	suffix := make([]byte, uint64KeyLen+4+4)
	binary.BigEndian.PutUint64(suffix[:uint64KeyLen], blockNum)
	binary.BigEndian.PutUint32(suffix[uint64KeyLen:uint64KeyLen+4], batchIndex)
	binary.BigEndian.PutUint32(suffix[uint64KeyLen+4:], noteIndex)
	return db.Notes.Key(suffix)
}
