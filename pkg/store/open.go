package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// Options selects and locates a backend.
type Options struct {
	Backend     string
	Dir         string
	PostgresDSN string
	RedisURL    string
	S3          S3Options
}

// OpenKV builds the medium named by opts.Backend. An empty backend means bolt.
func OpenKV(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case BackendFile:
		return NewFileKV(opts.Dir)
	case BackendBolt, "":
		return NewBoltKV(filepath.Join(opts.Dir, "archsync.db"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(opts.Dir, "archsync.sqlite"))
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires a DSN")
		}
		return OpenPostgres(opts.PostgresDSN)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis backend requires a URL")
		}
		return NewRedisKV(opts.RedisURL)
	case BackendS3:
		if opts.S3.Endpoint == "" || opts.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 backend requires an endpoint and bucket")
		}
		return NewS3KV(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// Open builds a Gateway over the configured backend.
func Open(ctx context.Context, opts Options) (*Gateway, error) {
	kv, err := OpenKV(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewGateway(kv), nil
}
