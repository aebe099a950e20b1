package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// register <username>: create the account on the hub.
func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Register the local identity with the hub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if err := requireHub(); err != nil {
				return err
			}
			id, err := wire.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			if err := wire.Hub.Register(cmd.Context(), id, args[0]); err != nil {
				return err
			}
			fmt.Println("registered", id.UserID)
			return nil
		},
	}
}
