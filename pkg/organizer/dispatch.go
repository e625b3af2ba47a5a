package organizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// Action is a user gesture against a collection.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionMove   Action = "move"
)

// ErrUnknownAction is returned for a collection/action pair with no handler.
var ErrUnknownAction = errors.New("unknown action")

// Request carries everything a handler may need. Form is used by add and
// edit, ID by delete and move, Status by move.
type Request struct {
	Collection store.Collection
	Action     Action
	ID         string
	Form       model.Form
	Status     model.Status
}

// Handler performs one request and reports whether stored state changed.
type Handler func(ctx context.Context, req Request) (bool, error)

type route struct {
	collection store.Collection
	action     Action
}

// Dispatcher maps (collection, action) pairs to handlers.
type Dispatcher struct {
	routes map[route]Handler
}

// NewDispatcher registers the standard handlers for o. Deletes ask confirm.
func NewDispatcher(o *Organizer, confirm Confirmer) *Dispatcher {
	d := &Dispatcher{routes: make(map[route]Handler)}

	d.Register(store.Tasks, ActionAdd, formHandler(o.SaveTask, model.TaskFields, false))
	d.Register(store.Tasks, ActionEdit, formHandler(o.SaveTask, model.TaskFields, true))
	d.Register(store.Tasks, ActionDelete, deleteHandler(o.DeleteTask, confirm))
	d.Register(store.Tasks, ActionMove, func(ctx context.Context, req Request) (bool, error) {
		return o.MoveTask(ctx, req.ID, req.Status)
	})

	d.Register(store.Resources, ActionAdd, formHandler(o.SaveResource, model.ResourceFields, false))
	d.Register(store.Resources, ActionEdit, formHandler(o.SaveResource, model.ResourceFields, true))
	d.Register(store.Resources, ActionDelete, deleteHandler(o.DeleteResource, confirm))

	d.Register(store.Feeds, ActionAdd, formHandler(o.SaveFeed, model.FeedFields, false))
	d.Register(store.Feeds, ActionEdit, formHandler(o.SaveFeed, model.FeedFields, true))
	d.Register(store.Feeds, ActionDelete, deleteHandler(o.DeleteFeed, confirm))

	d.Register(store.Events, ActionAdd, formHandler(o.SaveEvent, model.EventFields, false))
	d.Register(store.Events, ActionEdit, formHandler(o.SaveEvent, model.EventFields, true))
	d.Register(store.Events, ActionDelete, deleteHandler(o.DeleteEvent, confirm))
	return d
}

// Register installs or replaces the handler for a pair.
func (d *Dispatcher) Register(c store.Collection, a Action, h Handler) {
	d.routes[route{c, a}] = h
}

// Dispatch runs the handler for req.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (bool, error) {
	h, ok := d.routes[route{req.Collection, req.Action}]
	if !ok {
		return false, fmt.Errorf("%w: %s %s", ErrUnknownAction, req.Action, req.Collection)
	}
	return h(ctx, req)
}

// formHandler adapts a Save method. Add clears any id in the form so a new
// record is always created; edit requires one. The form is validated
// against fields before anything is stored.
func formHandler[T any](saveFn func(context.Context, model.Form) (T, bool, error), fields []model.Field, edit bool) Handler {
	return func(ctx context.Context, req Request) (bool, error) {
		f := model.Form{}
		for k, v := range req.Form {
			f[k] = v
		}
		if edit {
			if req.ID != "" {
				f["id"] = req.ID
			}
			if f.Get("id") == "" {
				return false, nil
			}
		} else {
			delete(f, "id")
		}
		if err := model.Validate(fields, f); err != nil {
			return false, err
		}
		_, changed, err := saveFn(ctx, f)
		return changed, err
	}
}

func deleteHandler(del func(context.Context, string, Confirmer) (bool, error), confirm Confirmer) Handler {
	return func(ctx context.Context, req Request) (bool, error) {
		return del(ctx, req.ID, confirm)
	}
}
