package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerpass/internal/crypto"
	identitysvc "peerpass/internal/services/identity"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the vault and generate a signing keypair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCtx.Vault.Exists(identitysvc.VaultKeyKeypair) {
				return fmt.Errorf("vault already holds a keypair")
			}

			priv, err := crypto.GenerateKeypair()
			if err != nil {
				return err
			}
			raw, err := crypto.EncodeKeypair(priv)
			if err != nil {
				return err
			}
			if err := appCtx.Vault.Set(identitysvc.VaultKeyKeypair, raw); err != nil {
				return err
			}

			pub := crypto.PublicKeyOf(priv)
			fmt.Printf("Vault initialised.\nPublic key: %s\nFingerprint: %s\n",
				pub, crypto.Fingerprint(pub))
			return nil
		},
	}
}
