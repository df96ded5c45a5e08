package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/flowmap/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP diagram server",
	Long: `Serves diagrams, layouts and selections as a JSON API over HTTP.
Layout changes are pushed to /workflows/{id}/events subscribers and
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("port") {
			a.cfg.Server.Port, _ = cmd.Flags().GetString("port")
		}

		handler := httpAdapter.NewHandler(a.manager,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithMetrics(a.metrics),
		)

		srv := &http.Server{
			Addr:              a.cfg.Server.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			a.logger.Info("starting flowmap server",
				"addr", srv.Addr,
				"store", a.cfg.Store.Type,
				"dir", a.cfg.Store.Dir,
			)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			a.logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				if err := srv.Close(); err != nil {
					return err
				}
			}
			// Close waits for in-flight layout saves.
			a.logger.Info("flowmap server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (overrides server.port)")
}
