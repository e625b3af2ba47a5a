package organizer

import (
	"context"
	"strings"

	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

func (o *Organizer) Tasks(ctx context.Context) ([]model.Task, error) {
	return tasks.list(ctx, o.gw)
}

func (o *Organizer) Task(ctx context.Context, id string) (model.Task, bool, error) {
	return tasks.get(ctx, o.gw, id)
}

// SaveTask adds a task, or edits the one named by the form's "id".
func (o *Organizer) SaveTask(ctx context.Context, f model.Form) (model.Task, bool, error) {
	return save(ctx, o.gw, tasks, f, model.TaskFromForm(f, o.now()))
}

func (o *Organizer) DeleteTask(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return tasks.confirmRemove(ctx, o.gw, id, confirm)
}

// MoveTask changes only the status of a task.
func (o *Organizer) MoveTask(ctx context.Context, id string, status model.Status) (bool, error) {
	return o.board.Move(ctx, id, status)
}

// ImportTasks appends tasks whose id is not already stored and reports how
// many were added.
func (o *Organizer) ImportTasks(ctx context.Context, add []model.Task) (int, error) {
	added := 0
	_, err := store.Update(ctx, o.gw, store.Tasks, func(existing []model.Task) ([]model.Task, bool) {
		seen := make(map[string]bool, len(existing))
		for _, t := range existing {
			seen[t.ID] = true
		}
		for _, t := range add {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			existing = append(existing, t)
			added++
		}
		return existing, added > 0
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (o *Organizer) Resources(ctx context.Context) ([]model.Resource, error) {
	return resources.list(ctx, o.gw)
}

func (o *Organizer) Resource(ctx context.Context, id string) (model.Resource, bool, error) {
	return resources.get(ctx, o.gw, id)
}

func (o *Organizer) SaveResource(ctx context.Context, f model.Form) (model.Resource, bool, error) {
	return save(ctx, o.gw, resources, f, model.ResourceFromForm(f, o.now()))
}

func (o *Organizer) DeleteResource(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return resources.confirmRemove(ctx, o.gw, id, confirm)
}

func (o *Organizer) Feeds(ctx context.Context) ([]model.Feed, error) {
	return feeds.list(ctx, o.gw)
}

func (o *Organizer) Feed(ctx context.Context, id string) (model.Feed, bool, error) {
	return feeds.get(ctx, o.gw, id)
}

func (o *Organizer) SaveFeed(ctx context.Context, f model.Form) (model.Feed, bool, error) {
	return save(ctx, o.gw, feeds, f, model.FeedFromForm(f, o.now()))
}

func (o *Organizer) DeleteFeed(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return feeds.confirmRemove(ctx, o.gw, id, confirm)
}

func (o *Organizer) Events(ctx context.Context) ([]model.Event, error) {
	return events.list(ctx, o.gw)
}

func (o *Organizer) Event(ctx context.Context, id string) (model.Event, bool, error) {
	return events.get(ctx, o.gw, id)
}

func (o *Organizer) SaveEvent(ctx context.Context, f model.Form) (model.Event, bool, error) {
	return save(ctx, o.gw, events, f, model.EventFromForm(f, o.now()))
}

func (o *Organizer) DeleteEvent(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	return events.confirmRemove(ctx, o.gw, id, confirm)
}

func (o *Organizer) Profile(ctx context.Context) (model.Profile, error) {
	return o.gw.LoadProfile(ctx)
}

// SetProfileName stores name, or the default name when it is blank.
func (o *Organizer) SetProfileName(ctx context.Context, name string) (model.Profile, error) {
	p := model.Profile{Name: strings.TrimSpace(name)}
	if p.Name == "" {
		p = model.DefaultProfile()
	}
	return p, o.gw.SaveProfile(ctx, p)
}
