package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/internal/metrics"
	httpAdapter "github.com/aretw0/surligne/pkg/adapters/http"
	redisAdapter "github.com/aretw0/surligne/pkg/adapters/redis"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/ports"
	"github.com/aretw0/surligne/pkg/workspace"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts surligne as an HTTP server. Each workspace holds its own zones and text;
diagram notifications are logged, and also published to Redis when --redis-addr is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		logger, err := newLogger(cmd, jsonLogs)
		if err != nil {
			return err
		}
		cfg, err := loadConfiguration(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		factory, closeNotifier := notifierFactory(cmd, logger)
		defer closeNotifier()

		m := metrics.New()
		manager, err := workspace.NewManager(
			workspace.WithBaseConfiguration(cfg),
			workspace.WithNotifierFactory(factory),
			workspace.WithLifecycleHooks(m.Hooks(domain.LifecycleHooks{})),
			workspace.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		handler, err := httpAdapter.NewHandler(manager,
			httpAdapter.WithMetrics(m),
			httpAdapter.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting surligne server", "address", srv.Addr, "zones", len(cfg.Zones))
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			logger.Info("surligne server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("json-logs", false, "Write logs as JSON")
	serveCmd.Flags().String("redis-addr", "", "Redis address for diagram notifications (disabled when empty)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().String("redis-channel", "", "Redis Pub/Sub channel (default surligne:diagram)")
}

// notifierFactory logs every notification and, with --redis-addr, publishes it on the
// workspace's Redis channel too.
func notifierFactory(cmd *cobra.Command, logger *slog.Logger) (workspace.NotifierFactory, func()) {
	addr, _ := cmd.Flags().GetString("redis-addr")
	logNotifier := logging.Notifier{Logger: logger}
	if addr == "" {
		return func(string) ports.Notifier { return logNotifier }, func() {}
	}

	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	channel, _ := cmd.Flags().GetString("redis-channel")

	opts := []redisAdapter.Option{redisAdapter.WithLogger(logger)}
	if channel != "" {
		opts = append(opts, redisAdapter.WithChannel(channel))
	}
	base := redisAdapter.New(addr, password, db, opts...)

	factory := func(id string) ports.Notifier {
		return ports.Fanout{logNotifier, base.ForWorkspace(id)}
	}
	closer := func() {
		if err := base.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	return factory, closer
}
