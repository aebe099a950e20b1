package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wirechat/internal/domain"
)

// chat: log in, connect, and exchange messages interactively.
//
// Lines are sent as "peer: message"; a bare line goes to broadcast. EOF or
// /quit disconnects.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Connect to the hub and chat",
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

			c := wire.Client(id)
			if err := c.Login(cmd.Context()); err != nil {
				return err
			}
			defer c.Close()

			unsubscribe := c.Subscribe(func(m domain.Message) {
				switch m.Status {
				case domain.StatusVerified, "":
					fmt.Printf("[%s] %s\n", m.From, m.Content)
				default:
					fmt.Printf("[%s] (%s) %s\n", m.From, m.Status, m.Content)
				}
			})
			defer unsubscribe()

			if err := c.Connect(); err != nil {
				// The transport keeps retrying in the background; report and
				// continue reading input.
				fmt.Fprintln(os.Stderr, "connect:", err)
			}

			sc := bufio.NewScanner(os.Stdin)
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				if line == "/quit" {
					break
				}
				to, content := domain.Broadcast, line
				if i := strings.Index(line, ": "); i > 0 {
					to, content = line[:i], line[i+2:]
				}
				if err := c.Send(to, content); err != nil {
					fmt.Fprintln(os.Stderr, "send:", err)
				}
			}
			return sc.Err()
		},
	}
}
