package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/cartsync/internal/client/cli"
	"github.com/dmitrijs2005/cartsync/internal/client/config"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cartsync",
	Short: "CartSync is a shop client that keeps your session and cart in sync",
	Long: `CartSync logs you in to the shop API, remembers the session between runs
and mirrors your server-side cart. Without a subcommand it starts an
interactive prompt.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *cli.App) error {
			app.Run(ctx)
			return nil
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Values are read by config.LoadConfig; cobra only has to accept them.
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "path to config file (json or yaml)")
	pf.StringP("addr", "a", "", "base URL of the shop API")
	pf.StringP("timeout", "t", "", "request timeout (in seconds)")
	pf.StringP("store", "b", "", "session store backend (sqlite|redis)")
	pf.StringP("store-dsn", "s", "", "sqlite session file")
	pf.StringP("redis", "r", "", "redis address")
	pf.StringP("log-level", "l", "", "log level (debug|info|warn|error)")
	pf.StringP("metrics", "m", "", "metrics listen address, empty disables it")
}

// withApp loads the configuration, builds the client and runs fn with a
// context that is canceled on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.New(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error(ctx, "shutdown", "error", err)
		}
	}()

	return fn(ctx, app)
}
