package pebble_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velachain/vela-node/db"
	"github.com/velachain/vela-node/db/pebble"
)

func TestSetGetDelete(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	key, value := []byte("key"), []byte("value")
	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		return txn.Set(key, value)
	}))

	var got []byte
	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		return txn.Get(key, func(val []byte) error {
			got = append([]byte(nil), val...)
			return nil
		})
	}))
	assert.Equal(t, value, got)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		return txn.Delete(key)
	}))
	err := testDB.View(func(txn db.Transaction) error {
		return txn.Get(key, func([]byte) error { return nil })
	})
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	boom := errors.New("boom")
	err := testDB.Update(func(txn db.Transaction) error {
		if err := txn.Set([]byte("key"), []byte("value")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = testDB.View(func(txn db.Transaction) error {
		return txn.Get([]byte("key"), func([]byte) error { return nil })
	})
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestViewCannotWrite(t *testing.T) {
	testDB := pebble.NewMemTest(t)
	err := testDB.View(func(txn db.Transaction) error {
		return txn.Set([]byte("key"), []byte("value"))
	})
	assert.Error(t, err)
}

func TestIteratorOrder(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		for _, key := range []string{"b", "a", "c"} {
			if err := txn.Set([]byte(key), []byte(key)); err != nil {
				return err
			}
		}
		return nil
	}))

	var keys []string
	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		iterator, err := txn.NewIterator()
		if err != nil {
			return err
		}
		defer db.CloseAndWrapOnError(iterator.Close, &err)

		for iterator.Seek([]byte("a")); iterator.Valid(); iterator.Next() {
			keys = append(keys, string(iterator.Key()))
		}
		return err
	}))
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestIteratorSeek(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		for _, key := range []string{"a", "c"} {
			if err := txn.Set([]byte(key), []byte(key)); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		iterator, err := txn.NewIterator()
		if err != nil {
			return err
		}
		defer db.CloseAndWrapOnError(iterator.Close, &err)

		// Seeking between keys lands on the next one.
		require.True(t, iterator.Seek([]byte("b")))
		assert.Equal(t, []byte("c"), iterator.Key())
		// Seeking past the end invalidates the iterator.
		assert.False(t, iterator.Seek([]byte("d")))
		return err
	}))
}
