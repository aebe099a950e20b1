package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wirechat/internal/crypto"
)

// fingerprint: print the short fingerprint of the local signing key.
func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the local public key fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			id, err := wire.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", id.UserID, crypto.Fingerprint(id.Pub.Slice()))
			return nil
		},
	}
}
