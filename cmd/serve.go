package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/satveg-series/internal/adapter/http"
	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/internal/pipeline"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the series lookup API over HTTP",
	Long: `Run an HTTP facade in front of the SATVeg service.

Routes:
  GET /v1/series?lat=&lon=   normalized response envelope
  GET /healthz               liveness
  GET /readyz                readiness
  GET /metrics               Prometheus metrics`,
	PreRunE: setupConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		var lookup httpadapter.SeriesClient = pipeline.NewInstrumentedClient(client, observability.NewMetrics(), logger)
		if cfg.CacheSize > 0 {
			logger.Info("series cache enabled", "entries", cfg.CacheSize)
			lookup = pipeline.NewCachedLookup(lookup, cfg.CacheSize)
		}

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := httpadapter.NewServer(addr, lookup, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		logger.Info("http server started", "addr", addr)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to HTTP_ADDR)")
}
