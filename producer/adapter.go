package producer

import (
	"context"
	"errors"

	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/store"
)

var _ Store = (*StoreAdapter)(nil)

// StoreAdapter serves the producer boundary from the durable state store.
type StoreAdapter struct {
	store *store.Store
}

func NewStoreAdapter(s *store.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetTransactionInputs : see Store.GetTransactionInputs
func (a *StoreAdapter) GetTransactionInputs(ctx context.Context, tx *core.ProvenTransaction) (*TxInputs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inputs := &TxInputs{
		Nullifiers: make(map[core.Nullifier]bool, len(tx.Nullifiers)),
	}

	info, err := a.store.Account(tx.AccountID)
	if err == nil {
		hash := info.Summary.Hash
		inputs.AccountHash = &hash
	} else {
		var notFound *store.AccountNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	for i := range tx.Nullifiers {
		_, consumed, err := a.store.NullifierBlock(&tx.Nullifiers[i])
		if err != nil {
			return nil, err
		}
		inputs.Nullifiers[tx.Nullifiers[i]] = consumed
	}
	return inputs, nil
}

// GetBlockInputs : see Store.GetBlockInputs
func (a *StoreAdapter) GetBlockInputs(
	ctx context.Context,
	accountIDs []uint64,
	nullifiers []core.Nullifier,
) (*BlockInputs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	header, err := a.store.LatestBlockHeader()
	if err != nil {
		return nil, err
	}

	inputs := &BlockInputs{
		Header:     *header,
		Accounts:   make([]AccountWitness, 0, len(accountIDs)),
		Nullifiers: make(map[core.Nullifier]uint64, len(nullifiers)),
	}

	for _, accountID := range accountIDs {
		witness := AccountWitness{AccountID: accountID}
		info, err := a.store.Account(accountID)
		if err == nil {
			witness.Hash = info.Summary.Hash
		} else {
			var notFound *store.AccountNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
		inputs.Accounts = append(inputs.Accounts, witness)
	}

	for i := range nullifiers {
		blockNum, _, err := a.store.NullifierBlock(&nullifiers[i])
		if err != nil {
			return nil, err
		}
		inputs.Nullifiers[nullifiers[i]] = blockNum
	}
	return inputs, nil
}

// ApplyBlock : see ApplyBlock.ApplyBlock
func (a *StoreAdapter) ApplyBlock(ctx context.Context, block *core.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.store.ApplyBlock(&block.Header, block.Notes, block.Nullifiers, block.AccountUpdates)
	return err
}
