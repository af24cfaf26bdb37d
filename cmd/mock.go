package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/satveg-series/internal/adapter/mockapi"
	"github.com/spf13/cobra"
)

var (
	mockAddr  string
	mockToken string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a deterministic stand-in for the SATVeg API",
	Long: `Run a local mock of the SATVeg service. It answers the series endpoint
with synthetic but deterministic data on the MODIS composite calendar,
so the rest of the tool works without a real token.

Point the client at it with:
  export SATVEG_BASE_URL=http://localhost:9090` + mockapi.BasePath + `
  export SATVEG_TOKEN=mock-token
  satveg fetch --lat -18.92803 --lon -40.09281`,
	PreRunE: setupConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		srv := &http.Server{
			Addr:         mockAddr,
			Handler:      mockapi.NewHandler(mockToken, logger),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		logger.Info("mock api started", "addr", mockAddr, "path", mockapi.BasePath)

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", ":9090", "Listen address")
	mockCmd.Flags().StringVar(&mockToken, "token", "mock-token", "Bearer token the mock accepts")
}
