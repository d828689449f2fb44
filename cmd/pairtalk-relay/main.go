package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pairtalk/pairtalk/internal/auth"
	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/pairtalk/pairtalk/internal/relay"
	"github.com/pairtalk/pairtalk/internal/storage"
	"github.com/pairtalk/pairtalk/pkg/helper"
	"github.com/pairtalk/pairtalk/pkg/logger"
	"github.com/pairtalk/pairtalk/pkg/metrics"
	"github.com/pairtalk/pairtalk/pkg/trace"
	"github.com/pairtalk/pairtalk/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

var configPath = flag.String("conf", "relay.yaml", "path to configuration file")

func main() {
	flag.Parse()

	// Bootstrap logger, replaced once configuration is loaded
	bootLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	cfg, cfgPath, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLogger.Fatal("failed to load configuration",
			zap.String("path", cfgPath),
			zap.Error(err))
	}

	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		bootLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = lg.Sync() }()
	_ = bootLogger.Sync()

	lg.Info("starting pairtalk-relay",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath),
		zap.Int("port", cfg.Port))

	if cfg.PID != "" {
		pidPath := helper.GetPIDPath(cfg.PID)
		if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			lg.Fatal("failed to write PID file",
				zap.String("path", pidPath),
				zap.Error(err))
		}
		defer func() { _ = os.Remove(pidPath) }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		lg.Fatal("failed to initialize tracing", zap.Error(err))
	}

	validator, err := auth.NewValidator(cfg.Auth)
	if err != nil {
		lg.Fatal("failed to initialize identity validator", zap.Error(err))
	}

	store, err := storage.NewStore(&cfg.Storage.Database)
	if err != nil {
		lg.Fatal("failed to initialize message store",
			zap.String("type", cfg.Storage.Database.Type),
			zap.Error(err))
	}

	m := metrics.New(cfg.Metrics)
	srv := relay.NewServer(lg, cfg.WebSocket, validator, store, m)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	if cfg.Metrics.Enabled {
		router.Use(m.Middleware())
	}
	srv.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		lg.Error("forced shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		lg.Error("failed to close message store", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		lg.Error("failed to shut down tracing", zap.Error(err))
	}
	lg.Info("server exited")
}
