package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/animeshelf/internal/api"
)

func newServeCmd() *cobra.Command {
	var noPrefetch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cfg, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if !noPrefetch {
				go func() {
					if err := a.Feed.Refresh(ctx); err != nil {
						a.Log.WithError(err).Warn("initial catalog load failed")
					}
				}()
			}

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           api.NewRouter(a),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.Log.WithField("addr", cfg.HTTP.Addr).Info("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&noPrefetch, "no-prefetch", false, "do not load the first catalog page at startup")
	return cmd
}
