package producer

import (
	"context"
	"sync"

	"github.com/velachain/vela-node/core"
)

var _ Store = (*MemStore)(nil)

// MemStore is a deterministic in-memory Store used to unit test producer logic
// without a real database behind it.
type MemStore struct {
	mu         sync.Mutex
	header     core.BlockHeader
	accounts   map[uint64]core.Digest
	nullifiers map[core.Nullifier]uint64
	blocks     []*core.Block
}

func NewMemStore(genesisHeader core.BlockHeader) *MemStore {
	return &MemStore{
		header:     genesisHeader,
		accounts:   make(map[uint64]core.Digest),
		nullifiers: make(map[core.Nullifier]uint64),
	}
}

// Blocks returns the blocks applied so far, in order.
func (m *MemStore) Blocks() []*core.Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*core.Block(nil), m.blocks...)
}

func (m *MemStore) GetTransactionInputs(_ context.Context, tx *core.ProvenTransaction) (*TxInputs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inputs := &TxInputs{
		Nullifiers: make(map[core.Nullifier]bool, len(tx.Nullifiers)),
	}
	if hash, ok := m.accounts[tx.AccountID]; ok {
		inputs.AccountHash = &hash
	}
	for _, nullifier := range tx.Nullifiers {
		_, consumed := m.nullifiers[nullifier]
		inputs.Nullifiers[nullifier] = consumed
	}
	return inputs, nil
}

func (m *MemStore) GetBlockInputs(_ context.Context, accountIDs []uint64, nullifiers []core.Nullifier) (*BlockInputs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inputs := &BlockInputs{
		Header:     m.header,
		Accounts:   make([]AccountWitness, 0, len(accountIDs)),
		Nullifiers: make(map[core.Nullifier]uint64, len(nullifiers)),
	}
	for _, accountID := range accountIDs {
		inputs.Accounts = append(inputs.Accounts, AccountWitness{
			AccountID: accountID,
			Hash:      m.accounts[accountID],
		})
	}
	for _, nullifier := range nullifiers {
		inputs.Nullifiers[nullifier] = m.nullifiers[nullifier]
	}
	return inputs, nil
}

func (m *MemStore) ApplyBlock(_ context.Context, block *core.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range block.AccountUpdates {
		update := &block.AccountUpdates[i]
		m.accounts[update.AccountID] = update.FinalStateHash
	}
	for _, nullifier := range block.Nullifiers {
		m.nullifiers[nullifier] = block.Header.BlockNum
	}
	m.header = block.Header
	m.blocks = append(m.blocks, block)
	return nil
}
