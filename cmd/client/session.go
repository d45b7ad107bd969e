package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/cartsync/internal/client/cli"
	"github.com/dmitrijs2005/cartsync/internal/client/config"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved session, its sync state and the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			return app.Status(ctx)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			return app.Logout(ctx)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all locally stored client state",
	Long:  `Removes every record from the session store. The server-side cart is not touched.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		log := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr)
		return cli.ResetLocalState(cmd.Context(), cfg, log, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetCmd)
}
