package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"peerpass/internal/domain"
	identitysvc "peerpass/internal/services/identity"
)

func lookupCmd() *cobra.Command {
	var (
		byKey  string
		byName string
	)
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look up an identity by public key or username",
		RunE: func(cmd *cobra.Command, args []string) error {
			var by identitysvc.LookupBy
			switch {
			case byKey != "" && byName != "":
				return fmt.Errorf("use either --key or --name, not both")
			case byKey != "":
				pk, err := domain.ParsePublicKey(byKey)
				if err != nil {
					return err
				}
				by = identitysvc.ByPublicKey(pk)
			case byName != "":
				by = identitysvc.ByUsername(byName)
			default:
				return fmt.Errorf("one of --key or --name is required")
			}

			ident, err := appCtx.Identity.Lookup(by)
			if err != nil {
				return err
			}
			fmt.Printf("Name: %s\nPublic key: %s\n", ident.DisplayName(), ident.PublicKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&byKey, "key", "", "base58 public key")
	cmd.Flags().StringVar(&byName, "name", "", "exact username")
	return cmd
}
