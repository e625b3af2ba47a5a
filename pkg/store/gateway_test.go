package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/harrisonrobin/archsync/pkg/model"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	kv, err := NewBoltKV(filepath.Join(t.TempDir(), "archsync.db"))
	if err != nil {
		t.Fatalf("NewBoltKV failed: %v", err)
	}
	g := NewGateway(kv)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestLoadAbsentIsEmpty(t *testing.T) {
	g := newTestGateway(t)
	tasks, err := Load[model.Task](context.Background(), g, Tasks)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", tasks)
	}
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	if err := g.kv.Set(ctx, g.Key(Events), []byte("{not json")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	events, err := Load[model.Event](ctx, g, Events)
	if err != nil {
		t.Fatalf("Expected malformed data to be swallowed, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected 0 events, got %d", len(events))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	created := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "t2", Name: "Draft plan", Assignee: "Kim", Status: model.StatusInProgress, DueDate: "2024-06-12", CreatedAt: created},
		{ID: "t1", Name: "Review", Assignee: "Lee", Status: model.StatusPending, DueDate: "2024-06-15"},
	}
	if err := Save(ctx, g, Tasks, tasks); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load[model.Task](ctx, g, Tasks)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, tasks) {
		t.Errorf("Expected %+v, got %+v", tasks, got)
	}

	raw, err := g.kv.Get(ctx, "archsync_tasks")
	if err != nil {
		t.Fatalf("Expected collection under archsync_tasks: %v", err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		t.Errorf("Expected a JSON array, got %s", raw)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()
	if err := Save[model.Feed](ctx, g, Feeds, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	raw, _ := g.kv.Get(ctx, g.Key(Feeds))
	if string(raw) != "[]" {
		t.Errorf("Expected [], got %s", raw)
	}
	ok, err := g.Has(ctx, Feeds)
	if err != nil || !ok {
		t.Errorf("Expected Has to report written collection, got %v %v", ok, err)
	}
}

func TestUpdate(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	changed, err := Update(ctx, g, Resources, func(rs []model.Resource) ([]model.Resource, bool) {
		return append(rs, model.Resource{ID: "r1", Name: "Guide"}), true
	})
	if err != nil || !changed {
		t.Fatalf("Expected change, got %v %v", changed, err)
	}

	changed, err = Update(ctx, g, Resources, func(rs []model.Resource) ([]model.Resource, bool) {
		return nil, false
	})
	if err != nil || changed {
		t.Fatalf("Expected no change, got %v %v", changed, err)
	}

	rs, _ := Load[model.Resource](ctx, g, Resources)
	if len(rs) != 1 || rs[0].ID != "r1" {
		t.Errorf("Expected [r1], got %+v", rs)
	}
}

func TestProfile(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	p, err := g.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Name != model.DefaultProfileName {
		t.Errorf("Expected default name, got %q", p.Name)
	}

	if err := g.SaveProfile(ctx, model.Profile{Name: "Mina"}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	p, _ = g.LoadProfile(ctx)
	if p.Name != "Mina" {
		t.Errorf("Expected Mina, got %q", p.Name)
	}
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (failingKV) Set(context.Context, string, []byte) error   { return errors.New("quota exceeded") }
func (failingKV) Close() error                                 { return nil }

func TestSaveFailureIsStorageError(t *testing.T) {
	g := NewGateway(failingKV{})
	err := Save(context.Background(), g, Tasks, []model.Task{{ID: "t1"}})
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StorageError, got %v", err)
	}
	if se.Op != "set" || se.Key != "archsync_tasks" {
		t.Errorf("Expected set archsync_tasks, got %s %s", se.Op, se.Key)
	}
}
