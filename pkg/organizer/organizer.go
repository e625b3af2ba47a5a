// Package organizer is the CRUD surface over the four record collections and
// the profile. Every mutation loads the whole collection, changes one record
// and writes the collection back.
package organizer

import (
	"context"
	"time"

	"github.com/harrisonrobin/archsync/pkg/board"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// DeletePrompt is shown before any delete.
const DeletePrompt = "정말 삭제하시겠습니까?"

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves every prompt, for --yes style flags.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

// Organizer owns the gateway and the clock used to stamp new records.
type Organizer struct {
	gw    *store.Gateway
	board *board.Controller
	now   dateutil.Clock
}

// New returns an Organizer. A nil clock means time.Now.
func New(gw *store.Gateway, now dateutil.Clock) *Organizer {
	if now == nil {
		now = time.Now
	}
	return &Organizer{gw: gw, board: board.NewController(gw), now: now}
}

// Board exposes the board controller sharing this organizer's gateway.
func (o *Organizer) Board() *board.Controller {
	return o.board
}

// Gateway returns the underlying persistence gateway.
func (o *Organizer) Gateway() *store.Gateway {
	return o.gw
}

// collection describes how to address one record type.
type collection[T any] struct {
	name    store.Collection
	id      func(*T) string
	created func(*T) *time.Time
}

var (
	tasks = collection[model.Task]{
		name:    store.Tasks,
		id:      func(t *model.Task) string { return t.ID },
		created: func(t *model.Task) *time.Time { return &t.CreatedAt },
	}
	resources = collection[model.Resource]{
		name:    store.Resources,
		id:      func(r *model.Resource) string { return r.ID },
		created: func(r *model.Resource) *time.Time { return &r.CreatedAt },
	}
	feeds = collection[model.Feed]{
		name:    store.Feeds,
		id:      func(f *model.Feed) string { return f.ID },
		created: func(f *model.Feed) *time.Time { return &f.CreatedAt },
	}
	events = collection[model.Event]{
		name:    store.Events,
		id:      func(e *model.Event) string { return e.ID },
		created: func(e *model.Event) *time.Time { return &e.CreatedAt },
	}
)

func (c collection[T]) list(ctx context.Context, gw *store.Gateway) ([]T, error) {
	return store.Load[T](ctx, gw, c.name)
}

func (c collection[T]) get(ctx context.Context, gw *store.Gateway, id string) (T, bool, error) {
	var zero T
	records, err := c.list(ctx, gw)
	if err != nil {
		return zero, false, err
	}
	for i := range records {
		if c.id(&records[i]) == id {
			return records[i], true, nil
		}
	}
	return zero, false, nil
}

// add appends rec.
func (c collection[T]) add(ctx context.Context, gw *store.Gateway, rec T) error {
	_, err := store.Update(ctx, gw, c.name, func(records []T) ([]T, bool) {
		return append(records, rec), true
	})
	return err
}

// replace overwrites the record with rec's id, keeping its first
// CreatedAt. A missing id is a no-op.
func (c collection[T]) replace(ctx context.Context, gw *store.Gateway, rec T) (bool, error) {
	id := c.id(&rec)
	return store.Update(ctx, gw, c.name, func(records []T) ([]T, bool) {
		for i := range records {
			if c.id(&records[i]) != id {
				continue
			}
			if old := *c.created(&records[i]); !old.IsZero() {
				*c.created(&rec) = old
			}
			records[i] = rec
			return records, true
		}
		return records, false
	})
}

// remove drops the record with id. A missing id is a no-op.
func (c collection[T]) remove(ctx context.Context, gw *store.Gateway, id string) (bool, error) {
	return store.Update(ctx, gw, c.name, func(records []T) ([]T, bool) {
		out := records[:0:0]
		for i := range records {
			if c.id(&records[i]) != id {
				out = append(out, records[i])
			}
		}
		return out, len(out) != len(records)
	})
}

func (c collection[T]) confirmRemove(ctx context.Context, gw *store.Gateway, id string, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return false, nil
	}
	return c.remove(ctx, gw, id)
}

// save adds when the form carries no id and replaces otherwise.
func save[T any](ctx context.Context, gw *store.Gateway, c collection[T], f model.Form, rec T) (T, bool, error) {
	if f.Get("id") == "" {
		if err := c.add(ctx, gw, rec); err != nil {
			return rec, false, err
		}
		return rec, true, nil
	}
	changed, err := c.replace(ctx, gw, rec)
	return rec, changed, err
}
