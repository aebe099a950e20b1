package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// who: list online and offline users.
func whoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "who",
		Short: "List online and offline users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireHub(); err != nil {
				return err
			}
			p := wire.Hub.Presence(cmd.Context())
			for _, u := range p.Online {
				fmt.Println("online ", u)
			}
			for _, u := range p.Offline {
				fmt.Println("offline", u)
			}
			return nil
		},
	}
}
