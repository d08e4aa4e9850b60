package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [username]",
		Short: "Create your identity and start announcing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := ""
			if len(args) == 1 {
				username = args[0]
			}

			ident, err := appCtx.Identity.CreateIdentity(cmd.Context(), username)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nName: %s\nPublic key: %s\n",
				ident.DisplayName(), ident.PublicKey)
			return nil
		},
	}
}
