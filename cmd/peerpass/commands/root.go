package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"peerpass/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	verbose    bool

	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:   "peerpass",
		Short: "Self-sovereign identity for peer-to-peer networks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			cfg, err := app.Load(home)
			if err != nil {
				return err
			}
			if relayURL != "" {
				cfg.RelayURL = relayURL
			}

			log, err := buildLogger()
			if err != nil {
				return err
			}

			appCtx, err = app.New(cmd.Context(), cfg, passphrase, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.peerpass)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the vault")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay URL (e.g. ws://127.0.0.1:8080)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(initCmd(), createCmd(), whoamiCmd(), lookupCmd(), peersCmd(), daemonCmd())
	return root.Execute()
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
