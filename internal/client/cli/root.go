package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	server     string
	sessionDB  string
}

// Execute runs the CLI with args and releases every resource the command
// opened, whatever its outcome.
func Execute(ctx context.Context, args []string, connect Connector, in io.Reader, out io.Writer) error {
	var app *App
	cmd := NewRootCmd(connect, in, &app)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)

	err := cmd.ExecuteContext(ctx)
	if app != nil {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// NewRootCmd creates the root command. The App built for the invoked
// subcommand is stored in *app.
func NewRootCmd(connect Connector, in io.Reader, app **App) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gophauth",
		Short:         "gophauth client",
		Long:          `Command-line client for the gophauth credential and session service.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerEndpointAddr = opts.server
			}
			if cmd.Flags().Changed("session-db") {
				cfg.SessionDBPath = opts.sessionDB
			}

			a, err := newApp(cmd.Context(), cfg, connect, in, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			*app = a
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.server, "server", "", "server address (host:port)")
	cmd.PersistentFlags().StringVar(&opts.sessionDB, "session-db", "", "local session database file")

	get := func() *App { return *app }

	cmd.AddCommand(newRegisterCmd(get))
	cmd.AddCommand(newLoginCmd(get))
	cmd.AddCommand(newRefreshCmd(get))
	cmd.AddCommand(newLogoutCmd(get))
	cmd.AddCommand(newMeCmd(get))
	cmd.AddCommand(newUsersCmd(get))

	return cmd
}
