package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gokul1734/factsense/internal/api"
	"github.com/Gokul1734/factsense/internal/service"
)

var serveAddr string

// serveCmd runs the HTTP verification API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP API",
	Long: `Start the HTTP server exposing:

  POST /verify   verify a claim ({"text": ..., "link": ...})
  GET  /predict  current claim clusters and rumor-volume forecast
  GET  /stats    running verification statistics
  GET  /healthz  liveness probe`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New(os.Stderr, "factsense: ", log.LstdFlags)

		cfg := loadConfig()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		svc, err := service.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("initialize pipeline: %w", err)
		}

		server := api.NewServer(cfg.Server, svc, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case sig := <-sigCh:
			logger.Printf("received %s, shutting down", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
