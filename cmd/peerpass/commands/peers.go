package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func peersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peers",
		Short: "List identities currently cached from the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cached := appCtx.Identity.CachedIdentities()
			if len(cached) == 0 {
				fmt.Println("No peers cached.")
				return nil
			}
			for _, ident := range cached {
				fmt.Printf("%-24s %s\n", ident.DisplayName(), ident.PublicKey)
			}
			return nil
		},
	}
}
