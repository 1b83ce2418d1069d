package config

import (
	"fmt"
	"time"
)

// CacheConfig holds report cache configuration.
type CacheConfig struct {
	// TTL is how long a completed report stays fresh.
	TTL time.Duration
	// PurgeInterval is how often expired records are swept.
	PurgeInterval time.Duration
}

// LoadCacheConfigFromEnv loads cache configuration from environment
// variables.
func LoadCacheConfigFromEnv() CacheConfig {
	return CacheConfig{
		TTL:           GetEnvDuration("CACHE_TTL", time.Hour),
		PurgeInterval: GetEnvDuration("CACHE_PURGE_INTERVAL", 15*time.Minute),
	}
}

// Validate validates cache configuration.
func (c CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be greater than 0")
	}
	if c.PurgeInterval <= 0 {
		return fmt.Errorf("CACHE_PURGE_INTERVAL must be greater than 0")
	}
	return nil
}
