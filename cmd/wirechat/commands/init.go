package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirechat/internal/crypto"
)

// init <user-id>: generate and store a fresh identity.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <user-id>",
		Short: "Generate a new identity and store it encrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			id, err := crypto.NewIdentity(args[0])
			if err != nil {
				return err
			}
			if err := wire.Identity.SaveIdentity(passphrase, id); err != nil {
				return err
			}
			fmt.Printf("created identity %s (%s)\n", id.UserID, crypto.Fingerprint(id.Pub.Slice()))
			return nil
		},
	}
}
