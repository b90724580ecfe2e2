package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fystack/cip68-minter/pkg/common/config"
	"github.com/fystack/cip68-minter/pkg/common/logger"
)

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:   "cip68d",
		Short: "CIP-68 dynamic NFT client",
		Long:  "Mint, update and burn CIP-68 dynamic NFTs through a transaction-building gateway and a CIP-30 wallet bridge.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger.Init(&logger.Options{
				Level:      level,
				TimeFormat: time.RFC3339,
			})
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	root.AddCommand(
		newWalletsCmd(),
		newDisconnectCmd(),
		newMintCmd(),
		newUpdateCmd(),
		newBurnCmd(),
		newAssetsCmd(),
		newMetadataCmd(),
		newTokensCmd(),
		newScriptInfoCmd(),
		newRecordsCmd(),
		newWatchCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}
