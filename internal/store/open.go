package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DBPath   string
	RedisURL string
	Prefix   string
}

// Open returns the backend named by opts.Backend. An empty name means
// SQLite at opts.DBPath, or at DefaultDBPath when that is empty too.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (KV, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		path := opts.DBPath
		if path == "" {
			path = DefaultDBPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		log.Debug().Str("path", path).Msg("opening sqlite store")
		return OpenSQLite(ctx, path)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis backend requires a URL")
		}
		return OpenRedis(ctx, opts.RedisURL, opts.Prefix, log)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
