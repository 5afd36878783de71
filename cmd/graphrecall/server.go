package graphrecall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/server"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the GraphRecall HTTP server",
	Long: `Start the GraphRecall HTTP server to provide REST API access to graph retrieval.

The server provides endpoints for:
- Local, global and hybrid search
- Community search, detection and lookup
- Detection job history
- Health checks

Scheduled detection runs when jobs.interval is set.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "release", "Server mode (debug, release, test)")
	serverCmd.Flags().Int("jobs-interval", 0, "Seconds between scheduled detection runs (0 disables)")
}

func runServer(cmd *cobra.Command, args []string) error {
	client, cfg, log, closeAll, err := newClient(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serverHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("mode") {
			cfg.Server.Mode = serverMode
		}
		if cmd.Flags().Changed("jobs-interval") {
			cfg.Jobs.Interval, _ = cmd.Flags().GetInt("jobs-interval")
		}
	})
	if err != nil {
		return err
	}
	defer closeAll()

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client.StartScheduler(ctx)

	srv := server.New(cfg, client, log)
	srv.Setup()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	}
}
