package pressroom

import (
	"fmt"

	"github.com/eringen/pressroom/kv"
)

// OpenBackend opens the storage named by cfg.Storage, applying the same
// defaults as New.
func OpenBackend(cfg SiteConfig) (kv.Backend, error) {
	cfg.setDefaults()
	switch cfg.Storage {
	case StorageSQLite:
		return kv.NewSQLite(cfg.DatabasePath, cfg.StorageQuotaBytes)
	case StorageRedis:
		return kv.NewRedis(kv.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
			MaxValue: cfg.StorageQuotaBytes,
		})
	case StorageMemory:
		return kv.NewMemory(cfg.StorageQuotaBytes), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
