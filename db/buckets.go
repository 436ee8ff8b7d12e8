package db

import "slices"

// Pebble does not support buckets the way Bolt or MDBX do, so each group of keys
// gets a distinct single-byte prefix instead.
type Bucket byte

const (
	ChainHeight       Bucket = iota // chain height -> latest block number
	Accounts                        // account id -> account record
	Nullifiers                      // nullifier -> block number it was consumed at
	NullifierPrefixes               // (prefix, block number, nullifier) -> nil
	Notes                           // (block number, batch index, note index) -> note record
	NoteIDs                         // note id -> note key
	BlockHeaders                    // block number -> canonical header bytes
)

// Key flattens a prefix and series of byte arrays into a single []byte.
func (b Bucket) Key(key ...[]byte) []byte {
	return append([]byte{byte(b)}, slices.Concat(key...)...)
}
