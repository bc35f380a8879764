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

	"connectrpc.com/connect"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/handler"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/retention"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/pkg/api/apiconnect"
	"github.com/mmynk/billsplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, err := config.New(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Logging.Format, level)
	watchLogLevel(v)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	jwtManager := auth.NewJWTManager(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	billSvc := service.NewBillService(store, jwtManager, metrics)

	// Token extraction runs first so the logging interceptor sees the session
	interceptors := connect.WithInterceptors(
		middleware.EditToken(jwtManager),
		middleware.LoggingInterceptor(),
		metrics.Interceptor(),
	)
	connectPath, connectHandler := apiconnect.NewBillServiceHandler(billSvc, interceptors)

	router := handler.NewRouter(handler.NewHandler(metrics), handler.Options{
		ConnectPath:    connectPath,
		ConnectHandler: connectHandler,
		Gatherer:       reg,
		StaticPath:     staticDir(cfg.Server.StaticPath),
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	httpHandler := middleware.Logging(middleware.CORS(limiter.Middleware(router)))

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		// h2c serves HTTP/2 without TLS for Connect clients
		Handler:      h2c.NewHandler(httpHandler, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var pruner *retention.Pruner
	if cfg.Storage.Retention > 0 {
		pruner, err = retention.NewPruner(store, cfg.Storage.Retention, cfg.Storage.PruneSchedule)
		if err != nil {
			return err
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if pruner != nil {
		g.Go(func() error {
			return pruner.Run(gCtx)
		})
	}

	return g.Wait()
}

// watchLogLevel re-applies logging.level whenever the config file changes.
func watchLogLevel(v *viper.Viper) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		level, err := logging.ParseLevel(v.GetString("logging.level"))
		if err != nil {
			slog.Warn("Ignoring invalid log level from config", "file", e.Name, "error", err)
			return
		}
		if level != logging.Level() {
			logging.SetLevel(level)
			slog.Info("Log level changed", "level", level.String())
		}
	})
	v.WatchConfig()
}

// staticDir returns path if it is an existing directory, or "" to disable
// static file serving.
func staticDir(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		slog.Warn("Static files disabled", "path", path)
		return ""
	}
	slog.Info("Serving static files", "path", path)
	return path
}
