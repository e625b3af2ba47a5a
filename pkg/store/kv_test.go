package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// exerciseKV runs the behavior every backend must share.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "archsync_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Set(ctx, "archsync_tasks", []byte(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := kv.Get(ctx, "archsync_tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"t1"}]` {
		t.Errorf("Expected stored value, got %s", got)
	}

	if err := kv.Set(ctx, "archsync_tasks", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err = kv.Get(ctx, "archsync_tasks")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Expected overwritten value, got %s", got)
	}
}

func TestFileKV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "archsync_tasks.json" {
		t.Errorf("Expected only archsync_tasks.json with no temp files left, got %v", entries)
	}
}

func TestBoltKV(t *testing.T) {
	kv, err := NewBoltKV(filepath.Join(t.TempDir(), "archsync.db"))
	if err != nil {
		t.Fatalf("NewBoltKV failed: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestSQLiteKV(t *testing.T) {
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "archsync.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKVWithClient(client)
	defer kv.Close()
	exerciseKV(t, kv)

	if !mr.Exists("archsync_tasks") {
		t.Error("Expected key archsync_tasks in redis")
	}
}

func TestNewRedisKVFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisKV failed: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)

	if _, err := NewRedisKV("not a url"); err == nil {
		t.Error("Expected error for invalid redis url")
	}
}

func TestPostgresKV(t *testing.T) {
	dsn := os.Getenv("ARCHSYNC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ARCHSYNC_TEST_POSTGRES_DSN not set")
	}
	kv, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("OpenPostgres failed: %v", err)
	}
	defer kv.Close()
	kv.db.Exec(`DELETE FROM archsync_kv WHERE key IN ('archsync_tasks', 'archsync_missing')`)
	exerciseKV(t, kv)
}

func TestS3KV(t *testing.T) {
	endpoint := os.Getenv("ARCHSYNC_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("ARCHSYNC_TEST_S3_ENDPOINT not set")
	}
	kv, err := NewS3KV(context.Background(), S3Options{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("ARCHSYNC_TEST_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("ARCHSYNC_TEST_S3_SECRET_KEY"),
		Bucket:    "archsync-test",
	})
	if err != nil {
		t.Fatalf("NewS3KV failed: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestOpenKV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"", BackendFile, BackendBolt, BackendSQLite} {
		kv, err := OpenKV(ctx, Options{Backend: backend, Dir: filepath.Join(dir, "b"+backend)})
		if err != nil {
			t.Fatalf("OpenKV(%q) failed: %v", backend, err)
		}
		kv.Close()
	}

	if _, err := OpenKV(ctx, Options{Backend: "floppy", Dir: dir}); err == nil {
		t.Error("Expected error for unknown backend")
	}
	if _, err := OpenKV(ctx, Options{Backend: BackendRedis}); err == nil {
		t.Error("Expected error for redis without URL")
	}
	if _, err := OpenKV(ctx, Options{Backend: BackendPostgres}); err == nil {
		t.Error("Expected error for postgres without DSN")
	}
}
