package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerpass/internal/crypto"
)

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print your identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ident, err := appCtx.Identity.OwnIdentity(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Name: %s\nPublic key: %s\nFingerprint: %s\n",
				ident.DisplayName(), ident.PublicKey, crypto.Fingerprint(ident.PublicKey))
			return nil
		},
	}
}
