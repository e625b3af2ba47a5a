package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/harrisonrobin/archsync/pkg/model"
)

// Collection names a stored record set.
type Collection string

const (
	Tasks       Collection = "tasks"
	Resources   Collection = "resources"
	Feeds       Collection = "feeds"
	Events      Collection = "events"
	UserProfile Collection = "userProfile"
)

// KeyPrefix namespaces every collection key in the medium.
const KeyPrefix = "archsync_"

// Gateway loads and saves typed collections by name. Within one process it
// serializes read-modify-write cycles; separate processes are last write wins.
type Gateway struct {
	kv     KV
	prefix string
	mu     sync.Mutex
}

// NewGateway wraps kv with the default key prefix.
func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv, prefix: KeyPrefix}
}

// Key returns the medium key for a collection.
func (g *Gateway) Key(c Collection) string {
	return g.prefix + string(c)
}

// Close releases the underlying medium.
func (g *Gateway) Close() error {
	return g.kv.Close()
}

// Has reports whether the collection has ever been written.
func (g *Gateway) Has(ctx context.Context, c Collection) (bool, error) {
	_, err := g.kv.Get(ctx, g.Key(c))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("get", g.Key(c), err)
	}
	return true, nil
}

func (g *Gateway) read(ctx context.Context, c Collection, out any) (bool, error) {
	key := g.Key(c)
	data, err := g.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("get", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("Warning: ignoring unreadable collection %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (g *Gateway) write(ctx context.Context, c Collection, v any) error {
	key := g.Key(c)
	data, err := json.Marshal(v)
	if err != nil {
		return storageError("encode", key, err)
	}
	if err := g.kv.Set(ctx, key, data); err != nil {
		return storageError("set", key, err)
	}
	return nil
}

// Load returns the stored collection in order. Absent or malformed data
// yields an empty slice; only medium failures are returned as errors.
func Load[T any](ctx context.Context, g *Gateway, c Collection) ([]T, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return load[T](ctx, g, c)
}

func load[T any](ctx context.Context, g *Gateway, c Collection) ([]T, error) {
	var out []T
	ok, err := g.read(ctx, c, &out)
	if err != nil {
		return []T{}, err
	}
	if !ok || out == nil {
		return []T{}, nil
	}
	return out, nil
}

// Save overwrites the whole collection.
func Save[T any](ctx context.Context, g *Gateway, c Collection, records []T) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return save(ctx, g, c, records)
}

func save[T any](ctx context.Context, g *Gateway, c Collection, records []T) error {
	if records == nil {
		records = []T{}
	}
	return g.write(ctx, c, records)
}

// Update runs load, fn, save as one step. fn reports whether it changed
// anything; nothing is written when it did not.
func Update[T any](ctx context.Context, g *Gateway, c Collection, fn func([]T) ([]T, bool)) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	records, err := load[T](ctx, g, c)
	if err != nil {
		return false, err
	}
	next, changed := fn(records)
	if !changed {
		return false, nil
	}
	if err := save(ctx, g, c, next); err != nil {
		return false, err
	}
	return true, nil
}

// LoadProfile returns the stored profile or the default one.
func (g *Gateway) LoadProfile(ctx context.Context) (model.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var p model.Profile
	ok, err := g.read(ctx, UserProfile, &p)
	if err != nil {
		return model.DefaultProfile(), err
	}
	if !ok || p.Name == "" {
		return model.DefaultProfile(), nil
	}
	return p, nil
}

// SaveProfile overwrites the profile singleton.
func (g *Gateway) SaveProfile(ctx context.Context, p model.Profile) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.write(ctx, UserProfile, p)
}
