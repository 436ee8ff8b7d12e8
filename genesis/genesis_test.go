package genesis_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velachain/vela-node/core"
	"github.com/velachain/vela-node/core/smt"
	"github.com/velachain/vela-node/db/pebble"
	"github.com/velachain/vela-node/genesis"
	"github.com/velachain/vela-node/store"
	"github.com/velachain/vela-node/utils"
)

func testAccounts(n int) []core.Account {
	accounts := make([]core.Account, n)
	for i := range accounts {
		accounts[i] = core.Account{
			ID:        uint64(i + 1),
			VaultRoot: core.HashBytes([]byte{byte(i)}),
			Nonce:     1,
		}
	}
	return accounts
}

func TestBlockParts(t *testing.T) {
	state := &genesis.GenesisState{
		Accounts:  testAccounts(3),
		Version:   1,
		Timestamp: 1700000000,
	}

	header, tree, err := state.BlockParts()
	require.NoError(t, err)

	assert.Equal(t, uint64(1), header.BlockNum)
	assert.True(t, header.PrevHash.IsZero())
	assert.Equal(t, smt.EmptyRoot(core.NullifierTreeDepth), header.NullifierRoot)
	assert.Equal(t, smt.EmptyRoot(core.NoteTreeDepth), header.NoteRoot)
	assert.Equal(t, state.Version, header.Version)
	assert.Equal(t, state.Timestamp, header.Timestamp)

	// The account root commits to every account's hash at its id.
	assert.Equal(t, tree.Root(), header.AccountRoot)
	for i := range state.Accounts {
		account := &state.Accounts[i]
		assert.Equal(t, account.Hash(), tree.Get(account.ID))
	}

	// An empty account list commits to the empty tree.
	empty := &genesis.GenesisState{}
	header, _, err = empty.BlockParts()
	require.NoError(t, err)
	assert.Equal(t, smt.EmptyRoot(core.AccountTreeDepth), header.AccountRoot)
}

func TestBlockPartsDuplicateAccount(t *testing.T) {
	accounts := testAccounts(2)
	accounts[1].ID = accounts[0].ID
	state := &genesis.GenesisState{Accounts: accounts}

	_, _, err := state.BlockParts()
	assert.Error(t, err)
}

func TestGenesisStateMarshal(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		state := &genesis.GenesisState{
			Accounts:  testAccounts(n),
			Version:   2,
			Timestamp: 42,
		}
		encoded := state.Marshal()
		require.Len(t, encoded, 8+n*core.AccountLen+16)

		decoded := new(genesis.GenesisState)
		require.NoError(t, decoded.Unmarshal(encoded))
		assert.Equal(t, state.Version, decoded.Version)
		assert.Equal(t, state.Timestamp, decoded.Timestamp)
		require.Len(t, decoded.Accounts, n)
		for i := range state.Accounts {
			assert.Equal(t, state.Accounts[i], decoded.Accounts[i])
		}
	}
}

func TestGenesisStateUnmarshalRejectsMalformed(t *testing.T) {
	state := &genesis.GenesisState{Accounts: testAccounts(2), Version: 1}
	encoded := state.Marshal()

	decoded := new(genesis.GenesisState)
	assert.Error(t, decoded.Unmarshal(encoded[:len(encoded)-1]), "truncated")
	assert.Error(t, decoded.Unmarshal(append(encoded, 0)), "trailing bytes")
	assert.Error(t, decoded.Unmarshal(nil), "empty")

	// A count that cannot fit in the remaining bytes must not be trusted.
	hostile := make([]byte, 24)
	hostile[0] = 0xFF
	assert.Error(t, decoded.Unmarshal(hostile))
}

func TestReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", genesis.FileName)
	state := &genesis.GenesisState{Accounts: testAccounts(2), Version: 3, Timestamp: 9}

	require.NoError(t, genesis.Write(state, path))
	loaded, err := genesis.Read(path)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	_, err = genesis.Read(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDefaultFilePath(t *testing.T) {
	path, err := genesis.DefaultFilePath(func() (string, error) {
		return "/data", nil
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "vela-node", genesis.FileName), path)

	_, err = genesis.DefaultFilePath(func() (string, error) {
		return "", assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInitialize(t *testing.T) {
	log := utils.NewNopLogger()
	state := &genesis.GenesisState{Accounts: testAccounts(3), Version: 1, Timestamp: 7}

	s := store.New(pebble.NewMemTest(t), log)
	require.NoError(t, genesis.Initialize(s, state, log))

	height, err := s.ChainHeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), height)

	header, err := s.BlockHeaderByNumber(1)
	require.NoError(t, err)
	expected, _, err := state.BlockParts()
	require.NoError(t, err)
	assert.Equal(t, *expected, *header)

	for i := range state.Accounts {
		info, err := s.Account(state.Accounts[i].ID)
		require.NoError(t, err)
		require.NotNil(t, info.State)
		assert.Equal(t, state.Accounts[i], *info.State)
	}

	// Re-running with the same state is a no-op.
	require.NoError(t, genesis.Initialize(s, state, log))
	height, err = s.ChainHeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), height)

	// A different genesis state is rejected.
	other := &genesis.GenesisState{Accounts: testAccounts(1), Version: 2}
	assert.Error(t, genesis.Initialize(s, other, log))
}
