package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eringen/pressroom"
)

// options is everything the binary reads from flags, environment and the
// optional config file. Environment variables use the PRESSROOM_ prefix,
// e.g. PRESSROOM_ADMIN_PASSCODE.
type options struct {
	Site            pressroom.SiteConfig
	StaticDir       string
	LogLevel        string
	LogFormat       string // "json" or "console"
	ShutdownTimeout time.Duration
}

func loadOptions(name string, args []string) (options, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	configFile := fs.String("config", "", "config file (yaml, toml or json)")
	fs.String("addr", "", "listen address (default :3000)")
	fs.String("storage", "", "storage backend: sqlite, redis or memory")
	fs.String("database_path", "", "SQLite database path")
	fs.String("log_level", "", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("PRESSROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("static_dir", "public")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	if err := v.BindPFlags(fs); err != nil {
		return options{}, err
	}
	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return options{}, fmt.Errorf("read config %s: %w", *configFile, err)
		}
	}

	return options{
		Site: pressroom.SiteConfig{
			Name:              v.GetString("name"),
			URL:               v.GetString("url"),
			Description:       v.GetString("description"),
			Author:            v.GetString("author"),
			Addr:              v.GetString("addr"),
			Storage:           v.GetString("storage"),
			DatabasePath:      v.GetString("database_path"),
			RedisAddr:         v.GetString("redis_addr"),
			RedisPassword:     v.GetString("redis_password"),
			RedisDB:           v.GetInt("redis_db"),
			KeyPrefix:         v.GetString("key_prefix"),
			StorageQuotaBytes: v.GetInt("storage_quota_bytes"),
			AdminUsername:     v.GetString("admin_username"),
			AdminPassword:     v.GetString("admin_password"),
			AdminPasswordHash: v.GetString("admin_password_hash"),
			AdminPasscode:     v.GetString("admin_passcode"),
			SessionSecret:     v.GetString("session_secret"),
			CookieSecure:      v.GetBool("cookie_secure"),
			SessionTTL:        v.GetDuration("session_ttl"),
			CacheTTL:          v.GetDuration("cache_ttl"),
			MaxUploadBytes:    v.GetInt64("max_upload_bytes"),
			CountBots:         v.GetBool("count_bots"),
		},
		StaticDir:       v.GetString("static_dir"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}, nil
}

func newLogger(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg.Level = lvl
	return cfg.Build()
}
