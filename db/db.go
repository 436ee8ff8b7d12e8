// Package db exposes the transactional key-value substrate every ledger is built on.
// The interfaces are deliberately narrow: exclusive read-write transactions, snapshot
// reads and ordered iteration are all the store needs.
package db

import "io"

// DB is a transactional key-value store.
type DB interface {
	io.Closer

	// NewTransaction returns a transaction on this database. A write transaction
	// holds the database's single writer lock until Commit or Discard is called.
	NewTransaction(update bool) Transaction
	// View creates a read-only transaction, passes it to fn and discards it on return.
	View(fn func(txn Transaction) error) error
	// Update creates a read-write transaction, passes it to fn, and commits it if
	// fn returns nil. Any error rolls the whole transaction back.
	Update(fn func(txn Transaction) error) error
	// Impl returns the underlying database object.
	Impl() any
}

// Transaction provides an atomic view over the database.
type Transaction interface {
	// Discard rolls back the transaction and releases any held resources.
	Discard() error
	// Commit flushes all pending writes to the database atomically.
	Commit() error
	// Set updates the value for the given key.
	Set(key, val []byte) error
	// Delete removes the key from the database.
	Delete(key []byte) error
	// Get fetches the value for the given key and passes it to cb. The value is
	// only valid for the duration of the callback. Returns ErrKeyNotFound if the
	// key does not exist.
	Get(key []byte, cb func(value []byte) error) error
	// NewIterator returns an iterator over the transaction's view of the database
	// in ascending key order.
	NewIterator() (Iterator, error)
}

// Iterator iterates the key space in lexicographic order.
type Iterator interface {
	io.Closer

	// Valid returns true if the iterator is positioned at a valid key/value pair.
	Valid() bool
	// Next moves the iterator to the next key/value pair. It returns whether the
	// iterator is valid after the call. Once invalid, the iterator remains invalid.
	Next() bool
	// Key returns the key at the current position.
	Key() []byte
	// Value returns the value at the current position.
	Value() ([]byte, error)
	// Seek positions the iterator at the provided key if present, otherwise at the
	// next key in lexicographical order.
	Seek(key []byte) bool
}
