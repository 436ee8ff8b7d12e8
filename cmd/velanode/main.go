package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/velachain/vela-node/db/pebble"
	"github.com/velachain/vela-node/genesis"
	"github.com/velachain/vela-node/store"
	"github.com/velachain/vela-node/utils"
)

var Version string

const (
	configF      = "config"
	verbosityF   = "verbosity"
	dbPathF      = "db-path"
	genesisPathF = "genesis-path"
	colourF      = "colour"

	defaultConfig  = ""
	defaultDBPath  = ""
	defaultGenesis = ""
	defaultColour  = true

	configFlagUsage    = "The yaml configuration file."
	verbosityFlagUsage = "Verbosity of the logs. Options: debug, info, warn, error."
	dbPathUsage        = "Location of the database files."
	genesisPathUsage   = "Location of the genesis file. Defaults to the user config directory."
	colourUsage        = "Use --colour=false command flag to disable colourized outputs (ANSI Escape Codes)."
)

// Config holds the process configuration, bound from flags and the optional
// yaml config file.
type Config struct {
	Verbosity    utils.LogLevel `mapstructure:"verbosity"`
	DatabasePath string         `mapstructure:"db-path"`
	GenesisPath  string         `mapstructure:"genesis-path"`
	Colour       bool           `mapstructure:"colour"`
}

func main() {
	if err := NewCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewCmd() *cobra.Command {
	var cfgFile string
	cfg := new(Config)

	rootCmd := &cobra.Command{
		Use:     "velanode [command]",
		Short:   "Vela state store node.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if cfgFile != "" {
				v.SetConfigType("yaml")
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			)))
		},
	}

	defaultVerbosity := utils.INFO
	rootCmd.PersistentFlags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	rootCmd.PersistentFlags().Var(&defaultVerbosity, verbosityF, verbosityFlagUsage)
	rootCmd.PersistentFlags().String(dbPathF, defaultDBPath, dbPathUsage)
	rootCmd.PersistentFlags().String(genesisPathF, defaultGenesis, genesisPathUsage)
	rootCmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)

	rootCmd.AddCommand(newMakeGenesisCmd(cfg), newInitCmd(cfg))
	return rootCmd
}

// newMakeGenesisCmd writes a genesis artifact for an empty account list; chains
// with pre-funded accounts extend the artifact with their own tooling.
func newMakeGenesisCmd(cfg *Config) *cobra.Command {
	var version uint64
	var timestamp uint64

	cmd := &cobra.Command{
		Use:   "make-genesis",
		Short: "Create the genesis artifact.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := genesisPath(cfg)
			if err != nil {
				return err
			}

			state := &genesis.GenesisState{
				Version:   version,
				Timestamp: timestamp,
			}
			if err := genesis.Write(state, path); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Genesis file written to %s\n", path)
			return err
		},
	}

	cmd.Flags().Uint64Var(&version, "protocol-version", 1, "Protocol version committed to by the genesis header.")
	cmd.Flags().Uint64Var(&timestamp, "timestamp", uint64(time.Now().Unix()), "Genesis timestamp (unix seconds).")
	return cmd
}

// newInitCmd bootstraps an empty database from the genesis artifact. Running
// it against an already-initialised database verifies the stored genesis
// matches and is otherwise a no-op.
func newInitCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise the database from the genesis artifact.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := utils.NewZapLogger(cfg.Verbosity, cfg.Colour)
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			path, err := genesisPath(cfg)
			if err != nil {
				return err
			}
			state, err := genesis.Read(path)
			if err != nil {
				return err
			}

			database, err := pebble.New(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database at %q: %w", cfg.DatabasePath, err)
			}
			defer func() {
				_ = database.Close()
			}()

			chainStore := store.New(database, log)
			if err := prometheus.Register(chainStore.Metrics()); err != nil {
				already := prometheus.AlreadyRegisteredError{}
				if !errors.As(err, &already) {
					return err
				}
			}
			if err := genesis.Initialize(chainStore, state, log); err != nil {
				return err
			}

			height, err := chainStore.ChainHeight()
			if err != nil {
				return err
			}
			log.Infow("Store initialised", "height", height)
			return nil
		},
	}
}

func genesisPath(cfg *Config) (string, error) {
	if cfg.GenesisPath != "" {
		return cfg.GenesisPath, nil
	}
	return genesis.DefaultFilePath(os.UserConfigDir)
}
