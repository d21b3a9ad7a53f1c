package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/rueidis"
	"github.com/urfave/cli/v3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/groupswipe/internal/auth"
	"github.com/mmynk/groupswipe/internal/config"
	"github.com/mmynk/groupswipe/internal/push"
	"github.com/mmynk/groupswipe/internal/realtime"
	"github.com/mmynk/groupswipe/internal/service"
	"github.com/mmynk/groupswipe/internal/storage/sqlite"
	"github.com/mmynk/groupswipe/pkg/logging"
)

func main() {
	app := &cli.Command{
		Name:  "groupswipe-server",
		Usage: "Serve the GroupSwipe API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.toml",
				Usage:   "Path to the TOML config file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, c.String("config"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level)
	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		logger.Warn("Using the development JWT secret; set JWT_SECRET in production")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Database.Path)

	broker, closeBroker, err := newBroker(cfg.Realtime, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	var notifier service.MessageNotifier
	if !cfg.Push.Disabled {
		dispatcher := push.NewDispatcher(store, &http.Client{Timeout: cfg.Push.Timeout}, push.Config{
			Endpoint:    cfg.Push.Endpoint,
			Concurrency: cfg.Push.Concurrency,
			Timeout:     cfg.Push.Timeout,
		}, logger)
		defer dispatcher.Close()
		notifier = dispatcher
		logger.Info("Push notifications enabled", "endpoint", cfg.Push.Endpoint)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	mux := http.NewServeMux()
	service.Register(mux, service.Services{
		Auth:  service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger),
		Group: service.NewGroupService(store, cfg.Matching.ActivationWindow),
		Swipe: service.NewSwipeService(store),
		Match: service.NewMatchService(store),
		Chat:  service.NewChatService(store, broker, notifier),
	}, jwtManager)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	servers := []*http.Server{{
		Addr: cfg.Server.Addr,
		// h2c serves HTTP/2 without TLS, which Connect streaming needs.
		Handler: h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{}),
	}}
	if cfg.Server.MetricsAddr == "" {
		mux.Handle("GET /metrics", promhttp.Handler())
	} else {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("GET /metrics", promhttp.Handler())
		servers = append(servers, &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metricsMux})
	}
	// Live chat streams never finish on their own; end them when shutdown starts.
	servers[0].RegisterOnShutdown(func() {
		if err := broker.Close(); err != nil {
			logger.Warn("Failed to close realtime broker", "error", err)
		}
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("Listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s failed: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("failed to shut down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// newBroker builds the realtime broker selected by the config. The returned
// func releases it and any client it owns.
func newBroker(cfg config.Realtime, logger *slog.Logger) (realtime.Broker, func(), error) {
	switch cfg.Backend {
	case config.RealtimeRedis:
		client, err := rueidis.NewClient(rueidis.ClientOption{
			InitAddress: []string{cfg.Redis.Addr},
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			SelectDB:    cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		broker := realtime.NewRedisBroker(client, logger)
		logger.Info("Realtime feed over redis", "address", cfg.Redis.Addr)
		return broker, func() {
			broker.Close()
			client.Close()
		}, nil
	default:
		hub := realtime.NewHub(logger)
		logger.Info("Realtime feed in memory")
		return hub, func() { hub.Close() }, nil
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
