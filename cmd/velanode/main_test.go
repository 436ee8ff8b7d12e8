package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/velachain/vela-node/genesis"
)

func TestMakeGenesisAndInit(t *testing.T) {
	tempDir := t.TempDir()
	genesisPath := filepath.Join(tempDir, genesis.FileName)
	dbPath := filepath.Join(tempDir, "db")

	makeCmd := NewCmd()
	makeCmd.SetArgs([]string{
		"make-genesis",
		"--genesis-path", genesisPath,
		"--protocol-version", "3",
		"--timestamp", "1700000000",
	})
	require.NoError(t, makeCmd.Execute())

	state, err := genesis.Read(genesisPath)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), state.Version)
	assert.Equal(t, uint64(1700000000), state.Timestamp)
	assert.Empty(t, state.Accounts)

	initCmd := NewCmd()
	initCmd.SetArgs([]string{
		"init",
		"--genesis-path", genesisPath,
		"--db-path", dbPath,
		"--colour=false",
	})
	require.NoError(t, initCmd.Execute())

	// Re-running against the initialised database is a no-op.
	again := NewCmd()
	again.SetArgs([]string{
		"init",
		"--genesis-path", genesisPath,
		"--db-path", dbPath,
		"--colour=false",
	})
	require.NoError(t, again.Execute())
}

func TestConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	genesisPath := filepath.Join(tempDir, genesis.FileName)
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("genesis-path: "+genesisPath+"\n"), 0o644))

	cmd := NewCmd()
	cmd.SetArgs([]string{"make-genesis", "--config", configPath})
	require.NoError(t, cmd.Execute())

	_, err := genesis.Read(genesisPath)
	require.NoError(t, err)
}

func TestUnknownVerbosity(t *testing.T) {
	cmd := NewCmd()
	cmd.SetArgs([]string{"init", "--verbosity", "loud"})
	assert.Error(t, cmd.Execute())
}
