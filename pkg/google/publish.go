package google

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/index"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/overdue"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// Result counts what a publish run did.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

// Publisher pushes local events one way to a Google calendar.
type Publisher struct {
	API          EventsAPI
	Index        *index.EventIndex
	Pending      *overdue.Table
	Dates        *dateutil.Dates
	UrgentWindow int
}

type syncAction int

const (
	actionUnchanged syncAction = iota
	actionCreated
	actionUpdated
)

// SyncEvent creates the calendar event for e or patches the existing one.
func (p *Publisher) SyncEvent(ctx context.Context, e model.Event) (*gcal.Event, syncAction, error) {
	target, err := ConvertEvent(e, p.Dates, p.UrgentWindow)
	if err != nil {
		return nil, actionUnchanged, err
	}

	var existing *gcal.Event
	if p.Index != nil {
		if gcalID := p.Index.Get(e.ID); gcalID != "" {
			existing, err = p.API.Get(ctx, gcalID)
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}
	if existing == nil {
		existing, err = p.API.FindByEventID(ctx, e.ID)
		if err != nil {
			return nil, actionUnchanged, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		p.remember(e, existing.Id)
		patch := EventNeedsUpdate(existing, target)
		if patch == nil {
			return existing, actionUnchanged, nil
		}
		updated, err := p.API.Patch(ctx, existing.Id, patch)
		if err != nil {
			return nil, actionUnchanged, err
		}
		return updated, actionUpdated, nil
	}

	created, err := p.API.Insert(ctx, target)
	if err != nil {
		return nil, actionUnchanged, err
	}
	p.remember(e, created.Id)
	return created, actionCreated, nil
}

func (p *Publisher) remember(e model.Event, gcalID string) {
	if p.Index != nil {
		p.Index.Set(e.ID, gcalID)
	}
	if p.Pending != nil {
		days, ok := p.Dates.DaysUntil(e.Date)
		p.Pending.Update(e.ID, overdue.Entry{
			GCalID: gcalID,
			Name:   e.Name,
			Date:   e.Date,
			Urgent: calendar.IsUrgent(days, ok, p.UrgentWindow),
		}, days, ok)
	}
}

// isGone reports whether the calendar no longer has the event.
func isGone(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

func (p *Publisher) forget(eventID string) {
	if p.Index != nil {
		p.Index.Remove(eventID)
	}
	if p.Pending != nil {
		p.Pending.Remove(eventID)
	}
}

// Publish syncs every event and deletes calendar events whose local event
// no longer exists. Per-event failures are logged and counted.
func (p *Publisher) Publish(ctx context.Context, events []model.Event) (Result, error) {
	var res Result
	live := make(map[string]bool, len(events))
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		live[e.ID] = true
		_, action, err := p.SyncEvent(ctx, e)
		if err != nil {
			log.Printf("Warning: could not publish event %s: %v", e.ID, err)
			res.Failed++
			continue
		}
		switch action {
		case actionCreated:
			res.Created++
		case actionUpdated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	if p.Index != nil {
		for _, id := range p.Index.IDs() {
			if live[id] {
				continue
			}
			err := p.API.Delete(ctx, p.Index.Get(id))
			switch {
			case err == nil:
				res.Deleted++
			case isGone(err):
			default:
				// Kept in the index so the next publish retries it.
				log.Printf("Warning: could not delete calendar event for %s: %v", id, err)
				res.Failed++
				continue
			}
			p.forget(id)
		}
	}
	return res, p.save()
}

// Sweep re-titles published events whose D-day moved since the last
// publish: newly urgent ones are flagged and past ones checked off. It
// touches nothing else.
func (p *Publisher) Sweep(ctx context.Context) (int, error) {
	if p.Pending == nil {
		return 0, nil
	}
	swept := 0
	patch := func(e overdue.Entry, prefix, color string) {
		ev := &gcal.Event{Summary: fmt.Sprintf("%s %s", prefix, e.Name), ColorId: color}
		if _, err := p.API.Patch(ctx, e.GCalID, ev); err != nil {
			log.Printf("Sweep: error patching event %s: %v", e.GCalID, err)
			return
		}
		swept++
	}
	for _, e := range p.Pending.Sweep(p.Dates) {
		patch(e, PrefixPast, colorPast)
	}
	for _, e := range p.Pending.Escalate(p.Dates, p.UrgentWindow) {
		patch(e, PrefixUrgent, colorUrgent)
	}
	return swept, p.save()
}

func (p *Publisher) save() error {
	if p.Index != nil {
		if err := p.Index.Save(); err != nil {
			return fmt.Errorf("failed to save event index: %w", err)
		}
	}
	if p.Pending != nil {
		if err := p.Pending.Save(); err != nil {
			return fmt.Errorf("failed to save pending table: %w", err)
		}
	}
	return nil
}
