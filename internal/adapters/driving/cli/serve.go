package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/intervo/internal/adapters/driven/config/file"
	"github.com/custodia-labs/intervo/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/intervo/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server for guides, sessions, and chat.

While the server runs, prompt template files under the prompt directory
are watched for changes and reloaded without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if guideService == nil || sessionService == nil || chatService == nil {
		return errors.New("services not configured")
	}

	addr := serveAddr
	if addr == "" && appSettings != nil {
		addr = appSettings.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if promptStore != nil {
		watcher, err := file.NewPromptWatcher(promptStore, promptStore.Dir())
		if err != nil {
			logger.Warn("prompt watcher unavailable: %v", err)
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("prompt watcher failed to start: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	server := httpapi.NewServer(addr, guideService, sessionService, chatService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
