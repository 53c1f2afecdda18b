package config

import "strings"

// Supported record store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
	StoreMemory   = "memory"
)

// StoreConfig selects where the league document is persisted.
type StoreConfig struct {
	Backend     string
	Path        string // JSON file for "file", directory for "badger"
	DatabaseURL string
	MaxConns    int
}

func loadStore() StoreConfig {
	backend := strings.ToLower(envOrDefault(envStoreBackend, defaultStoreBackend))
	switch backend {
	case StoreFile, StorePostgres, StoreBadger, StoreMemory:
	default:
		backend = defaultStoreBackend
	}
	return StoreConfig{
		Backend:     backend,
		Path:        envOrDefault(envStorePath, defaultStorePath),
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
		MaxConns:    intEnvOrDefault(envDBMaxConns, defaultDBMaxConns),
	}
}
