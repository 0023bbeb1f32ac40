// Package config provides runtime configuration values for the service.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds configuration knobs for the HTTP server, the document store,
// the catalog and list paging.
type Config struct {
	HTTPAddr            string
	ShutdownTimeout     time.Duration
	StoreDriver         string
	StoreDSN            string
	ListAcronym         string
	ItemAcronym         string
	CatalogFile         string
	CatalogCacheTTL     time.Duration
	DefaultPageSize     int
	MaxPageSize         int
	CompensateOnFailure bool
	LogLevel            string
}

// Environment keys.
const (
	KeyHTTPAddr            = "HTTP_ADDR"
	KeyShutdownTimeout     = "SHUTDOWN_TIMEOUT"
	KeyStoreDriver         = "STORE_DRIVER"
	KeyStoreDSN            = "STORE_DSN"
	KeyListAcronym         = "LIST_ACRONYM"
	KeyItemAcronym         = "ITEM_ACRONYM"
	KeyCatalogFile         = "CATALOG_FILE"
	KeyCatalogCacheTTL     = "CATALOG_CACHE_TTL_MS"
	KeyDefaultPageSize     = "DEFAULT_PAGE_SIZE"
	KeyMaxPageSize         = "MAX_PAGE_SIZE"
	KeyCompensateOnFailure = "COMPENSATE_ON_FAILURE"
	KeyLogLevel            = "LOG_LEVEL"
)

// New returns a viper instance reading the environment with defaults set.
// Callers may bind command-line flags to it before calling FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyShutdownTimeout, 15)
	v.SetDefault(KeyStoreDriver, "memory")
	v.SetDefault(KeyStoreDSN, "file:lists.db?cache=shared")
	v.SetDefault(KeyListAcronym, "SL")
	v.SetDefault(KeyItemAcronym, "LP")
	v.SetDefault(KeyCatalogFile, "")
	v.SetDefault(KeyCatalogCacheTTL, 60000)
	v.SetDefault(KeyDefaultPageSize, 15)
	v.SetDefault(KeyMaxPageSize, 100)
	v.SetDefault(KeyCompensateOnFailure, false)
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// FromViper materialises a Config. Unparseable numbers fall back to zero
// and are then replaced by their defaults.
func FromViper(v *viper.Viper) Config {
	c := Config{
		HTTPAddr:            v.GetString(KeyHTTPAddr),
		ShutdownTimeout:     time.Duration(v.GetInt(KeyShutdownTimeout)) * time.Second,
		StoreDriver:         v.GetString(KeyStoreDriver),
		StoreDSN:            v.GetString(KeyStoreDSN),
		ListAcronym:         v.GetString(KeyListAcronym),
		ItemAcronym:         v.GetString(KeyItemAcronym),
		CatalogFile:         v.GetString(KeyCatalogFile),
		CatalogCacheTTL:     time.Duration(v.GetInt(KeyCatalogCacheTTL)) * time.Millisecond,
		DefaultPageSize:     v.GetInt(KeyDefaultPageSize),
		MaxPageSize:         v.GetInt(KeyMaxPageSize),
		CompensateOnFailure: v.GetBool(KeyCompensateOnFailure),
		LogLevel:            v.GetString(KeyLogLevel),
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 15
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
	if c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = c.MaxPageSize
	}
	return c
}

// Load collects configuration from environment with defaults.
func Load() Config { return FromViper(New()) }
