package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mashup/infrastructure/web"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the mashup web form",
	Long: `Serve an HTML form that builds a mashup and emails it as a zip.

The sender account is read from the EMAIL_USER and EMAIL_PASS environment
variables when a mail is sent (names configurable under email in the config).

Example:
  EMAIL_USER=me@gmail.com EMAIL_PASS=app-password mashup serve --addr :5000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :5000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := GetConfig()
	if err != nil {
		return err
	}

	if serveAddr != "" {
		conf.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := prepareDownloader(ctx, conf); err != nil {
		return err
	}

	srv := web.NewServer(
		newPipeline(conf, DefaultOutput),
		newDeliverer(conf),
		web.WithOutputFiles(conf.Server.OutputFile, conf.Server.ArchiveFile),
	)

	return RunServeWithDependencies(ctx, conf.Server.Addr, srv.Handler())
}

// RunServeWithDependencies serves handler on addr until ctx is done
func RunServeWithDependencies(ctx context.Context, addr string, handler nethttp.Handler) error {
	httpSrv := &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", "error", err)
		_ = httpSrv.Close()
	}
	slog.Info("server stopped")
	return nil
}
