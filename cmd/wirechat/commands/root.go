package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wirechat/internal/app"
)

var (
	home       string
	hubURL     string
	passphrase string
	insecure   bool
	verbose    bool

	wire *app.Wire
)

var errNoHub = errors.New("no hub configured; use --hub or set hub_url in config.yaml")

func Execute() error {
	root := &cobra.Command{
		Use:   "wirechat",
		Short: "End-to-end encrypted hub chat client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".wirechat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			var err error
			wire, err = app.NewWire(app.Config{
				Home:     home,
				HubURL:   hubURL,
				Insecure: insecure,
				Logger:   logger,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.wirechat)")
	root.PersistentFlags().StringVar(&hubURL, "hub", "", "hub base URL (e.g. https://hub.example.com)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity key")
	root.PersistentFlags().BoolVar(&insecure, "insecure", false, "skip TLS verification (development only)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(initCmd(), fingerprintCmd(), registerCmd(), loginCheckCmd(), chatCmd(), describeCmd(), whoCmd())
	return root.Execute()
}

func requireHub() error {
	if wire.Hub == nil {
		return errNoHub
	}
	return nil
}
