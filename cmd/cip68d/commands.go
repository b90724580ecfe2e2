package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fystack/cip68-minter/internal/cip68"
	"github.com/fystack/cip68-minter/internal/lifecycle"
	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/retry"
)

var walletID string

func withApp(run func(ctx context.Context, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd.Context(), a)
	}
}

func newWalletsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "List available wallet providers",
		RunE: withApp(func(ctx context.Context, a *app) error {
			available := a.session.ListAvailable(ctx)
			if len(available) == 0 {
				fmt.Println("no wallet providers available")
				return nil
			}
			for _, w := range available {
				fmt.Printf("%s\t%s\n", w.ProviderID, w.DisplayName)
			}
			return nil
		}),
	}
}

func newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Forget the saved wallet connection",
		RunE: withApp(func(ctx context.Context, a *app) error {
			a.session.Disconnect()
			fmt.Println("wallet disconnected")
			return nil
		}),
	}
}

// runIntent connects the wallet, subscribes to lifecycle events for
// progress output, and executes one intent to a terminal state.
func runIntent(ctx context.Context, a *app, intent lifecycle.Intent) error {
	if _, err := a.connectWallet(ctx, walletID); err != nil {
		return err
	}

	ch, cancel := a.bus.Subscribe()
	defer cancel()
	go func() {
		for event := range ch {
			fmt.Printf("[%s] %s\n", event.State, event.Message)
		}
	}()

	attempt, err := a.lifecycle.Run(ctx, intent)
	if err != nil {
		return err
	}
	fmt.Printf("tx hash: %s\n", attempt.TxHash)
	return nil
}

func newMintCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a new CIP-68 dynamic NFT",
		RunE: withApp(func(ctx context.Context, a *app) error {
			return runIntent(ctx, a, lifecycle.MintIntent{
				TokenName:   name,
				Description: description,
			})
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "token name (max 32 bytes)")
	cmd.Flags().StringVar(&description, "description", "", "NFT description (max 256 bytes)")
	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet provider id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var policyID, name, description string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the metadata of an owned NFT",
		RunE: withApp(func(ctx context.Context, a *app) error {
			if policyID == "" {
				policyID = cip68.PlatformPolicyID
			}
			return runIntent(ctx, a, lifecycle.UpdateIntent{
				PolicyID:       policyID,
				TokenName:      name,
				NewDescription: description,
			})
		}),
	}
	cmd.Flags().StringVar(&policyID, "policy", "", "policy id (defaults to the platform policy)")
	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&description, "description", "", "new description (max 256 bytes)")
	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet provider id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newBurnCmd() *cobra.Command {
	var policyID, name, seedRef string
	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn both halves of an owned NFT pair",
		RunE: withApp(func(ctx context.Context, a *app) error {
			if policyID == "" {
				policyID = cip68.PlatformPolicyID
			}
			return runIntent(ctx, a, lifecycle.BurnIntent{
				PolicyID:  policyID,
				TokenName: name,
				SeedRef:   seedRef,
			})
		}),
	}
	cmd.Flags().StringVar(&policyID, "policy", "", "policy id (defaults to the platform policy)")
	cmd.Flags().StringVar(&name, "name", "", "token name")
	cmd.Flags().StringVar(&seedRef, "seed-ref", "", "seed UTxO reference for seeded policies")
	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet provider id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the platform NFTs the connected wallet holds",
		RunE: withApp(func(ctx context.Context, a *app) error {
			if _, err := a.connectWallet(ctx, walletID); err != nil {
				return err
			}
			if err := a.refresher.RefreshNow(ctx); err != nil {
				return err
			}

			userTokens := cip68.UserTokens(a.refresher.Assets())
			if len(userTokens) == 0 {
				fmt.Println("no platform NFTs in this wallet")
				return nil
			}
			for _, asset := range userTokens {
				entry := a.cache.Get(ctx, asset.PolicyID, asset.TokenName)
				fmt.Printf("%s\tv%d\t%s\n", asset.TokenName, entry.Version, entry.Description)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet provider id")
	return cmd
}

func newMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <token-name>",
		Short: "Show the current on-chain metadata of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.gateway.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("metadata lookup failed: %s", resp.Message)
			}
			fmt.Printf("version: %d\n", resp.Version)
			for k, v := range resp.Metadata {
				fmt.Printf("%s: %s\n", k, v)
			}
			return nil
		},
	}
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "List every token issued under the platform policy",
		RunE: withApp(func(ctx context.Context, a *app) error {
			resp, err := a.gateway.ListTokens(ctx)
			if err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("token listing failed: %s", resp.Message)
			}
			for _, token := range resp.Tokens {
				fmt.Printf("%s\tv%d\t%s\n", token.TokenName, token.Version, token.PolicyID)
			}
			fmt.Printf("%d tokens\n", resp.Count)
			return nil
		}),
	}
}

func newScriptInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "script-info",
		Short: "Show the deployed minting policy and store script",
		RunE: withApp(func(ctx context.Context, a *app) error {
			info, err := a.gateway.ScriptInfo(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("network:       %s\n", info.Network)
			fmt.Printf("policy id:     %s\n", info.PolicyID)
			fmt.Printf("store hash:    %s\n", info.StoreHash)
			fmt.Printf("store address: %s\n", info.StoreAddress)
			return nil
		}),
	}
}

func newRecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List locally remembered mint records",
		RunE: withApp(func(ctx context.Context, a *app) error {
			records, err := a.records.List()
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Printf("%s\t%s\t%s\t%s\n", r.TokenName, r.PolicyID, r.TxHash, r.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return nil
		}),
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the balance refresher and stream lifecycle events",
		RunE: withApp(func(ctx context.Context, a *app) error {
			// Wait out a gateway that is still coming up.
			err := retry.Exponential(func() error {
				if !a.gateway.IsHealthy(ctx) {
					return fmt.Errorf("gateway %s not healthy", a.gateway.URL())
				}
				return nil
			}, retry.ExponentialConfig{
				InitialInterval: time.Second,
				MaxElapsedTime:  30 * time.Second,
				OnRetry: func(err error, next time.Duration) {
					logger.Warn("Gateway not ready, retrying", "err", err, "next", next)
				},
			})
			if err != nil {
				return err
			}

			if _, err := a.connectWallet(ctx, walletID); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			a.refresher.Start(ctx)
			defer a.refresher.Stop()

			ch, unsub := a.bus.Subscribe()
			defer unsub()
			go func() {
				for event := range ch {
					logger.Info("Lifecycle event",
						"attempt", event.AttemptID,
						"state", event.State,
						"message", event.Message,
					)
				}
			}()

			logger.Info("Watching wallet... press Ctrl+C to stop")
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-ctx.Done():
			}
			// Teardown is not a user-requested disconnect: the saved
			// provider id stays so the next run reconnects silently.
			return nil
		}),
	}
	cmd.Flags().StringVar(&walletID, "wallet", "", "wallet provider id")
	return cmd
}
