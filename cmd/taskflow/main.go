package main

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/db"
	httpServer "taskflow/internal/http"
	"taskflow/internal/http/handlers"
	"taskflow/internal/http/middleware"
	"taskflow/internal/logger"
	"taskflow/internal/repository"
	"taskflow/internal/service"
	"taskflow/internal/ws"
	"taskflow/web"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	// Audit sinks: structured log always, file and Postgres when configured.
	sinks := service.MultiSink{service.LogAuditSink{}}
	if path := cfg.AuditLogPath(); path != "" {
		fileSink, err := repository.OpenFileAuditSink(path)
		if err != nil {
			logger.Fatal("failed to open audit log", "error", err)
		}
		defer fileSink.Close()
		sinks = append(sinks, fileSink)
	}

	checks := map[string]handlers.Pinger{}
	if cfg.AuditDatabaseURL != "" {
		pool := db.Connect(cfg.AuditDatabaseURL)
		defer pool.Close()

		auditRepo := repository.NewAuditRepository(pool)
		if err := auditRepo.EnsureSchema(context.Background()); err != nil {
			logger.Fatal("failed to prepare audit table", "error", err)
		}
		sinks = append(sinks, auditRepo)
		checks["audit_db"] = auditRepo
	}

	hub := ws.NewHub()
	defer hub.Close()

	taskRepo := repository.NewTaskRepository()
	tasks := service.NewTaskService(taskRepo, service.NewAuditService(sinks), service.WithEvents(hub))
	if cfg.SeedSamples {
		if err := tasks.Seed(context.Background()); err != nil {
			logger.Fatal("failed to seed sample tasks", "error", err)
		}
		logger.Info("sample tasks seeded", "count", taskRepo.Len())
	}

	limiter := newRateLimiter(cfg, checks)

	var accessLog io.Writer = os.Stdout
	if path := cfg.AccessLogPath(); path != "" {
		accessFile, err := openAccessLog(path)
		if err != nil {
			logger.Fatal("failed to open access log", "error", err)
		}
		defer accessFile.Close()
		accessLog = io.MultiWriter(os.Stdout, accessFile)
	}

	var static fs.FS = web.Static()
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	latencyMin, latencyMax := cfg.Latency()
	r := httpServer.NewRouter(httpServer.Dependencies{
		Handler: handlers.NewHandler(tasks, service.MustInputSchema(), handlers.HandlerConfig{
			Development:   cfg.IsDevelopment(),
			AllowedOrigin: cfg.AllowedOrigin,
		}),
		Health:        handlers.NewHealthHandler(version, checks),
		Hub:           hub,
		Limiter:       limiter,
		LatencyMin:    latencyMin,
		LatencyMax:    latencyMax,
		Static:        static,
		AccessLog:     accessLog,
		Development:   cfg.IsDevelopment(),
		AllowedOrigin: cfg.AllowedOrigin,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.AppEnv)
		logger.Info("API documentation available", "url", "http://localhost:"+cfg.AppPort+"/api/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newRateLimiter prefers shared Redis counters and falls back to in-process
// ones when Redis is not configured or unreachable.
func newRateLimiter(cfg *config.Config, checks map[string]handlers.Pinger) *middleware.RateLimiter {
	if cfg.APIRateLimit == 0 {
		logger.Info("rate limiting disabled")
		return nil
	}
	if cfg.RedisAddr != "" {
		client, err := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
			logger.Info("redis rate limiter enabled", "addr", cfg.RedisAddr, "limit", cfg.APIRateLimit)
			return middleware.NewRedisRateLimiter(client, cfg.APIRateLimit, cfg.RateWindow())
		}
		logger.Warn("redis unavailable, using in-memory rate limiter", "error", err)
	}
	return middleware.NewMemoryRateLimiter(cfg.APIRateLimit, cfg.RateWindow())
}

func openAccessLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
