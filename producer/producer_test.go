package producer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/db/pebble"
	"github.com/velachain/vela-node/genesis"
	"github.com/velachain/vela-node/producer"
	"github.com/velachain/vela-node/store"
	"github.com/velachain/vela-node/utils"
)

func newAdapter(t *testing.T, genesisAccounts []core.Account) (*producer.StoreAdapter, *store.Store) {
	log := utils.NewNopLogger()
	s := store.New(pebble.NewMemTest(t), log)
	state := &genesis.GenesisState{Accounts: genesisAccounts, Version: 1}
	require.NoError(t, genesis.Initialize(s, state, log))
	return producer.NewStoreAdapter(s), s
}

func TestAdapterGetTransactionInputs(t *testing.T) {
	account := core.Account{ID: 1, Nonce: 1}
	adapter, s := newAdapter(t, []core.Account{account})

	spent := core.Nullifier(core.HashBytes([]byte("spent")))
	unspent := core.Nullifier(core.HashBytes([]byte("unspent")))
	header, err := s.LatestBlockHeader()
	require.NoError(t, err)
	next := core.BlockHeader{BlockNum: header.BlockNum + 1, PrevHash: header.Hash()}
	_, err = s.ApplyBlock(&next, nil, []core.Nullifier{spent}, nil)
	require.NoError(t, err)

	inputs, err := adapter.GetTransactionInputs(context.Background(), &core.ProvenTransaction{
		AccountID:  1,
		Nullifiers: []core.Nullifier{spent, unspent},
	})
	require.NoError(t, err)
	require.NotNil(t, inputs.AccountHash)
	expected := account.Hash()
	assert.True(t, inputs.AccountHash.Equal(&expected))
	assert.True(t, inputs.Nullifiers[spent])
	assert.False(t, inputs.Nullifiers[unspent])

	// Unknown accounts come back with a nil hash rather than an error.
	inputs, err = adapter.GetTransactionInputs(context.Background(), &core.ProvenTransaction{AccountID: 99})
	require.NoError(t, err)
	assert.Nil(t, inputs.AccountHash)
}

func TestAdapterGetBlockInputs(t *testing.T) {
	account := core.Account{ID: 1, Nonce: 1}
	adapter, s := newAdapter(t, []core.Account{account})

	tip, err := s.LatestBlockHeader()
	require.NoError(t, err)

	nullifier := core.Nullifier(core.HashBytes([]byte("pending")))
	inputs, err := adapter.GetBlockInputs(context.Background(), []uint64{1, 99}, []core.Nullifier{nullifier})
	require.NoError(t, err)

	assert.Equal(t, *tip, inputs.Header)
	require.Len(t, inputs.Accounts, 2)
	assert.Equal(t, account.Hash(), inputs.Accounts[0].Hash)
	assert.True(t, inputs.Accounts[1].Hash.IsZero())
	assert.Equal(t, uint64(0), inputs.Nullifiers[nullifier])
}

func TestAdapterApplyBlock(t *testing.T) {
	adapter, s := newAdapter(t, nil)

	tip, err := s.LatestBlockHeader()
	require.NoError(t, err)

	block := &core.Block{
		Header: core.BlockHeader{BlockNum: tip.BlockNum + 1, PrevHash: tip.Hash()},
		Nullifiers: []core.Nullifier{
			core.Nullifier(core.HashBytes([]byte("consumed"))),
		},
	}
	require.NoError(t, adapter.ApplyBlock(context.Background(), block))

	height, err := s.ChainHeight()
	require.NoError(t, err)
	assert.Equal(t, block.Header.BlockNum, height)
}

func TestAdapterHonoursContext(t *testing.T) {
	adapter, _ := newAdapter(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.GetTransactionInputs(ctx, &core.ProvenTransaction{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = adapter.GetBlockInputs(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, adapter.ApplyBlock(ctx, &core.Block{}), context.Canceled)
}

func TestMemStore(t *testing.T) {
	genesisHeader := core.BlockHeader{BlockNum: 1}
	mem := producer.NewMemStore(genesisHeader)

	accountHash := core.HashBytes([]byte("account"))
	nullifier := core.Nullifier(core.HashBytes([]byte("nullifier")))
	block := &core.Block{
		Header: core.BlockHeader{BlockNum: 2, PrevHash: genesisHeader.Hash()},
		AccountUpdates: []core.AccountUpdate{
			{AccountID: 1, FinalStateHash: accountHash},
		},
		Nullifiers: []core.Nullifier{nullifier},
	}
	require.NoError(t, mem.ApplyBlock(context.Background(), block))

	txInputs, err := mem.GetTransactionInputs(context.Background(), &core.ProvenTransaction{
		AccountID:  1,
		Nullifiers: []core.Nullifier{nullifier},
	})
	require.NoError(t, err)
	require.NotNil(t, txInputs.AccountHash)
	assert.True(t, txInputs.AccountHash.Equal(&accountHash))
	assert.True(t, txInputs.Nullifiers[nullifier])

	blockInputs, err := mem.GetBlockInputs(context.Background(), []uint64{1}, []core.Nullifier{nullifier})
	require.NoError(t, err)
	assert.Equal(t, block.Header, blockInputs.Header)
	assert.Equal(t, uint64(2), blockInputs.Nullifiers[nullifier])

	require.Len(t, mem.Blocks(), 1)
}
