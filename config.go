package pressroom

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eringen/pressroom/auth"
	"github.com/eringen/pressroom/kv"
)

// Storage backends accepted by SiteConfig.Storage.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// SiteConfig holds all configuration for a pressroom site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr string // Listen address (default ":3000")

	Storage           string // "sqlite" (default), "redis" or "memory"
	DatabasePath      string // SQLite path (default "data/pressroom.db")
	RedisAddr         string // default "localhost:6379"
	RedisPassword     string
	RedisDB           int
	KeyPrefix         string // Redis key prefix (default "pressroom:")
	StorageQuotaBytes int    // largest stored blob; 0 means unlimited

	AdminUsername     string // default "admin"
	AdminPassword     string // plaintext password, or
	AdminPasswordHash string // bcrypt hash; wins over AdminPassword
	AdminPasscode     string // Required: 6 digits asked before the login form
	SessionSecret     string // Required: cookie signing secret
	CookieSecure      bool   // Set true for HTTPS
	SessionTTL        time.Duration

	CacheTTL       time.Duration // published content cache TTL (default 5min)
	MaxUploadBytes int64         // per-file upload limit (default 10MB)
	CountBots      bool          // count crawler page loads as visitors
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Storage == "" {
		c.Storage = StorageSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pressroom.db"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "pressroom:"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = auth.DefaultSessionTTL
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 10 << 20
	}
}

// Validate reports missing or malformed required settings.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("AdminPassword or AdminPasswordHash is required"))
	}
	if err := auth.ValidatePasscode(c.AdminPasscode); err != nil {
		errs = append(errs, fmt.Errorf("AdminPasscode: %w", err))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SessionSecret is required"))
	}
	switch c.Storage {
	case "", StorageSQLite, StorageRedis, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage %q", c.Storage))
	}
	return errors.Join(errs...)
}

func (c SiteConfig) authenticator() auth.Authenticator {
	if c.AdminPasswordHash != "" {
		return auth.HashedCredentials{
			Username:     c.AdminUsername,
			PasswordHash: []byte(c.AdminPasswordHash),
			Passcode:     c.AdminPasscode,
		}
	}
	return auth.StaticCredentials{
		Username: c.AdminUsername,
		Password: c.AdminPassword,
		Passcode: c.AdminPasscode,
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithBackend uses b instead of opening the configured storage. The caller
// keeps ownership; Close does not close b.
func WithBackend(b kv.Backend) Option {
	return func(a *App) {
		a.backend = b
	}
}

// WithLogger sets the application logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithClock overrides the time source used for records and sessions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
