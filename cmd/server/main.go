package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/config"
	"github.com/unheard/internal/db"
	"github.com/unheard/internal/middleware"
	"github.com/unheard/internal/router"
	"github.com/unheard/internal/service"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	gin.SetMode(cfg.GinMode)

	gormLogger := logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLogLevel(cfg.SlogLevel()),
		IgnoreRecordNotFoundError: true,
	})

	// 初始化数据库
	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseDSN(), &gorm.Config{Logger: gormLogger}); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	if cfg.SeedCategories {
		created, err := service.NewCategoryService(db.DB).Seed(context.Background(), service.DefaultCategories)
		if err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if created > 0 {
			slog.Info("seeded categories", "count", created)
		}
	}

	r, err := router.SetupRouter(db.DB, router.Options{
		SessionSecret: cfg.SessionSecret,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
		SecureCookies: strings.HasPrefix(cfg.SiteBaseURL, "https://"),
		SignInRate:    cfg.SignInRate,
		SignInBurst:   cfg.SignInBurst,
	})
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	protect := middleware.CSRF(middleware.NewCSRFConfig([]byte(cfg.SessionSecret), cfg.SiteBaseURL))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           protect(r),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ListenAddr, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func gormLogLevel(level slog.Level) logger.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return logger.Info
	case level <= slog.LevelWarn:
		return logger.Warn
	default:
		return logger.Error
	}
}
