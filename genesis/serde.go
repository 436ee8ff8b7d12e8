package genesis

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/velachain/vela-node/core"
)

// FileName is the name of the genesis artifact within the application data
// directory.
const FileName = "genesis.dat"

const appDir = "vela-node"

// DefaultFilePath derives the default genesis file location from an
// OS-appropriate per-application data directory. The lookup (usually
// os.UserConfigDir) is injected so the derivation stays a pure function.
func DefaultFilePath(dataDir func() (string, error)) (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", fmt.Errorf("locate user data directory: %w", err)
	}
	return filepath.Join(dir, appDir, FileName), nil
}

// Marshal returns the canonical byte encoding of the genesis state: account
// count (u64) followed by each account's canonical encoding in order, then
// version (u64) and timestamp (u64). Integers are big-endian.
func (g *GenesisState) Marshal() []byte {
	out := make([]byte, 0, 8+len(g.Accounts)*core.AccountLen+16)
	out = binary.BigEndian.AppendUint64(out, uint64(len(g.Accounts)))
	for i := range g.Accounts {
		out = append(out, g.Accounts[i].Marshal()...)
	}
	out = binary.BigEndian.AppendUint64(out, g.Version)
	out = binary.BigEndian.AppendUint64(out, g.Timestamp)
	return out
}

// Unmarshal is the exact inverse of Marshal. Truncated input and trailing
// bytes are both rejected.
func (g *GenesisState) Unmarshal(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("genesis state truncated: %d bytes", len(data))
	}
	count := binary.BigEndian.Uint64(data[:8])
	data = data[8:]

	if count > uint64(len(data))/core.AccountLen {
		return fmt.Errorf("genesis state truncated: %d accounts do not fit in %d bytes", count, len(data))
	}
	want := count*core.AccountLen + 16
	if uint64(len(data)) < want {
		return fmt.Errorf("genesis state truncated: missing %d bytes", want-uint64(len(data)))
	}
	if uint64(len(data)) > want {
		return fmt.Errorf("genesis state has %d trailing bytes", uint64(len(data))-want)
	}

	accounts := make([]core.Account, count)
	for i := range accounts {
		if err := accounts[i].Unmarshal(data[:core.AccountLen]); err != nil {
			return err
		}
		data = data[core.AccountLen:]
	}

	g.Accounts = accounts
	g.Version = binary.BigEndian.Uint64(data[:8])
	g.Timestamp = binary.BigEndian.Uint64(data[8:16])
	return nil
}

// Read loads a genesis state from the artifact at the given path.
func Read(path string) (*GenesisState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	state := new(GenesisState)
	if err := state.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("decode genesis file %q: %w", path, err)
	}
	return state, nil
}

// Write stores the genesis state artifact at the given path, creating parent
// directories as needed.
func Write(state *GenesisState, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, state.Marshal(), 0o644)
}
