package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// describe [user-id] / describe --set <line>...: read or replace profile
// description lines on the hub.
func describeCmd() *cobra.Command {
	var set bool
	cmd := &cobra.Command{
		Use:   "describe [user-id | --set line...]",
		Short: "Show or set user descriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireHub(); err != nil {
				return err
			}
			if set {
				return wire.Hub.SetDescriptions(cmd.Context(), args)
			}
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one user id")
			}
			lines, err := wire.Hub.Descriptions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Println(l)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&set, "set", false, "replace your own description lines with the arguments")
	return cmd
}
