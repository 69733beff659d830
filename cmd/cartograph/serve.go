package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/cartograph"
	httpadapter "github.com/aretw0/cartograph/pkg/adapters/http"
	"github.com/aretw0/cartograph/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the editing session as a JSON API with SSE and WebSocket diff streams,
Prometheus metrics at /metrics and its OpenAPI document at /openapi.yaml.
With --redis every snapshot diff is also published to Redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			s.cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if v, _ := cmd.Flags().GetString("redis"); v != "" {
			s.cfg.Redis.Addr = v
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if s.cfg.Redis.Addr != "" {
			if err := s.startPublisher(ctx); err != nil {
				return err
			}
		}

		api := httpadapter.NewServer(s.editor,
			httpadapter.WithLogger(s.logger),
			httpadapter.WithMetricsHandler(s.metrics.Handler()),
			httpadapter.WithVersion(cartograph.Version),
		)
		api.Start(ctx)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			s.logger.Info("Starting Cartograph server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			s.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			s.logger.Info("Cartograph server stopped gracefully")
			return nil
		}
	},
}

// startPublisher relays snapshot diffs to Redis until ctx ends.
func (s *session) startPublisher(ctx context.Context) error {
	ttl, _ := s.cfg.RedisTTL()
	pub := redis.New(s.cfg.Redis.Addr,
		redis.WithPrefix(s.cfg.Redis.Prefix),
		redis.WithTTL(ttl),
		redis.WithLogger(s.logger),
	)
	if err := pub.Ping(ctx); err != nil {
		_ = pub.Close()
		return fmt.Errorf("redis unavailable at %s: %w", s.cfg.Redis.Addr, err)
	}

	go func() {
		defer pub.Close()
		_ = pub.Run(ctx, s.editor)
	}()
	s.logger.Info("Publishing snapshot diffs", "redis", s.cfg.Redis.Addr, "channel", pub.Channel())
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for diff fan-out")
}
