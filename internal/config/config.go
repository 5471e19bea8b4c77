package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string  `env:"LISTEN_ADDR"`
	Port           string  `env:"PORT" envDefault:"8080"`
	DatabaseDriver string  `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string  `env:"DATABASE_PATH" envDefault:"unheard.db"`
	DatabaseURL    string  `env:"DATABASE_URL"`
	SessionSecret  string  `env:"SESSION_SECRET" envDefault:"unheard-dev-secret"`
	GinMode        string  `env:"GIN_MODE" envDefault:"release"`
	UploadDir      string  `env:"UPLOAD_DIR" envDefault:"data/uploads"`
	UploadURLPath  string  `env:"UPLOAD_URL_PATH" envDefault:"/uploads"`
	SiteBaseURL    string  `env:"SITE_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel       string  `env:"LOG_LEVEL" envDefault:"info"`
	SignInRate     float64 `env:"SIGNIN_RATE_LIMIT" envDefault:"0.5"`
	SignInBurst    int     `env:"SIGNIN_BURST" envDefault:"5"`
	SeedCategories bool    `env:"SEED_CATEGORIES" envDefault:"true"`
}

// Load 从环境变量（以及可选的 .env 文件）读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return AppConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.ListenAddr = strings.TrimSpace(cfg.ListenAddr)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	switch cfg.DatabaseDriver {
	case "sqlite":
	case "postgres", "postgresql":
		cfg.DatabaseDriver = "postgres"
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return AppConfig{}, fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER=postgres")
		}
	default:
		return AppConfig{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if strings.TrimSpace(cfg.SessionSecret) == "unheard-dev-secret" && cfg.GinMode == "release" {
		slog.Warn("SESSION_SECRET is using the development default")
	}

	return cfg, nil
}

// DatabaseDSN returns the connection string for the configured driver.
func (c AppConfig) DatabaseDSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
