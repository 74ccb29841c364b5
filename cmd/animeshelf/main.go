package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/build"
	"github.com/joestump/animeshelf/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "animeshelf",
		Short:   "Browse the top anime listing and keep a shelf of favourites",
		Long:    "animeshelf pages through the remote top-anime catalog, keeps favourites and a local account in a key-value store, and serves them as a JSON API.",
		Version: fmt.Sprintf("%s (%s, %s)", build.Version, build.Commit, build.Branch),

		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newFavCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

// openApp loads config and builds the application. The caller must Close it
// so queued favourites writes land before the process exits.
func openApp(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := cfg.NewLogger()
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Log.WithError(err).Warn("close store")
	}
}
