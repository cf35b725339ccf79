package repository

import (
	"time"

	"jobmindr/internal/common/config"
)

type Config struct {
	InsertAttempts            int
	CaseSensitiveCompanyMatch bool
}

type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

func NewConfig(cfg *config.Config) *Config {
	attempts := cfg.Database.Postgres.InsertAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Config{
		InsertAttempts:            attempts,
		CaseSensitiveCompanyMatch: cfg.Listing.CaseSensitiveCompanyMatch,
	}
}

func NewCacheConfig(cfg *config.Config) *CacheConfig {
	return &CacheConfig{
		TTL:       config.GetDuration(cfg.Cache.TTL),
		KeyPrefix: cfg.Cache.KeyPrefix,
	}
}
