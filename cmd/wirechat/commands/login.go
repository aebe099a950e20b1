package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// login-check: run the challenge-response exchange once and report the
// result without opening a socket. Useful for verifying credentials and
// hub reachability.
func loginCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login-check",
		Short: "Verify the identity can authenticate against the hub",
		Args:  cobra.NoArgs,
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
			if _, err := wire.Hub.Login(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("login ok:", id.UserID)
			return nil
		},
	}
}
