package core

// Block is the unit accepted by the block applier: a header plus everything the
// block changed. It is assembled by the external block producer.
type Block struct {
	Header         BlockHeader
	Notes          []Note
	Nullifiers     []Nullifier
	AccountUpdates []AccountUpdate
}

// ProvenTransaction is the candidate transaction shape the block producer
// requests verification inputs for. Only the fields the store needs to answer
// are carried here.
type ProvenTransaction struct {
	AccountID        uint64
	InitialStateHash Digest
	FinalStateHash   Digest
	Nullifiers       []Nullifier
}
