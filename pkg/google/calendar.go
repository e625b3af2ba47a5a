package google

import (
	"context"
	"fmt"

	gcal "google.golang.org/api/calendar/v3"
)

// EventsAPI is the slice of the Calendar API the publisher needs.
type EventsAPI interface {
	Get(ctx context.Context, gcalID string) (*gcal.Event, error)
	FindByEventID(ctx context.Context, eventID string) (*gcal.Event, error)
	Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error)
	Patch(ctx context.Context, gcalID string, patch *gcal.Event) (*gcal.Event, error)
	Delete(ctx context.Context, gcalID string) error
}

// CalendarClient talks to one calendar.
type CalendarClient struct {
	srv        *gcal.Service
	calendarID string
}

func NewCalendarClient(srv *gcal.Service, calendarID string) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID}
}

func (c *CalendarClient) Get(ctx context.Context, gcalID string) (*gcal.Event, error) {
	return c.srv.Events.Get(c.calendarID, gcalID).Context(ctx).Do()
}

// FindByEventID searches the private extended property set at publish time.
func (c *CalendarClient) FindByEventID(ctx context.Context, eventID string) (*gcal.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", PropertyKey, eventID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (c *CalendarClient) Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error) {
	return c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
}

func (c *CalendarClient) Patch(ctx context.Context, gcalID string, patch *gcal.Event) (*gcal.Event, error) {
	return c.srv.Events.Patch(c.calendarID, gcalID, patch).Context(ctx).Do()
}

func (c *CalendarClient) Delete(ctx context.Context, gcalID string) error {
	return c.srv.Events.Delete(c.calendarID, gcalID).Context(ctx).Do()
}
