package google

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"net/http"
	"testing"

	"github.com/harrisonrobin/archsync/pkg/index"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/overdue"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

type fakeAPI struct {
	events  map[string]*gcal.Event
	next    int
	patches int
	deleted []string
	// deleteErrs are returned by the next Delete calls, in order.
	deleteErrs []error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{events: make(map[string]*gcal.Event)}
}

func (f *fakeAPI) Get(_ context.Context, id string) (*gcal.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, errors.New("404")
}

func (f *fakeAPI) FindByEventID(_ context.Context, eventID string) (*gcal.Event, error) {
	for _, e := range f.events {
		if e.ExtendedProperties != nil && e.ExtendedProperties.Private[PropertyKey] == eventID {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeAPI) Insert(_ context.Context, e *gcal.Event) (*gcal.Event, error) {
	f.next++
	e.Id = fmt.Sprintf("g%d", f.next)
	f.events[e.Id] = e
	return e, nil
}

func (f *fakeAPI) Patch(_ context.Context, id string, patch *gcal.Event) (*gcal.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, errors.New("404")
	}
	f.patches++
	if patch.Summary != "" {
		e.Summary = patch.Summary
	}
	if patch.ColorId != "" {
		e.ColorId = patch.ColorId
	}
	if patch.Description != "" {
		e.Description = patch.Description
	}
	if patch.Start != nil {
		e.Start, e.End = patch.Start, patch.End
	}
	return e, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	if len(f.deleteErrs) > 0 {
		err := f.deleteErrs[0]
		f.deleteErrs = f.deleteErrs[1:]
		return err
	}
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestPublisher(t *testing.T, api EventsAPI) *Publisher {
	t.Helper()
	dir := t.TempDir()
	idx, err := index.NewEventIndex(filepath.Join(dir, index.FileName))
	if err != nil {
		t.Fatal(err)
	}
	pending, err := overdue.NewTable(filepath.Join(dir, overdue.FileName))
	if err != nil {
		t.Fatal(err)
	}
	return &Publisher{API: api, Index: idx, Pending: pending, Dates: testDates(), UrgentWindow: 3}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)

	events := []model.Event{
		{ID: "e1", Name: "크리틱", Date: "2024-06-17"},
		{ID: "e2", Name: "마감", Date: "2024-07-10"},
		{ID: "e3", Name: "날짜 없음", Date: ""},
	}
	res, err := p.Publish(ctx, events)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.Created != 2 || res.Failed != 1 {
		t.Errorf("Expected 2 created and 1 failed, got %+v", res)
	}
	if p.Index.Get("e1") == "" || p.Pending.Entries["e1"].GCalID == "" {
		t.Error("Expected e1 indexed and pending")
	}

	res, err = p.Publish(ctx, events[:2])
	if err != nil {
		t.Fatalf("second Publish failed: %v", err)
	}
	if res.Unchanged != 2 || api.patches != 0 {
		t.Errorf("Expected nothing to patch on republish, got %+v with %d patches", res, api.patches)
	}

	events[0].Date = "2024-06-11"
	res, err = p.Publish(ctx, events[:1])
	if err != nil {
		t.Fatalf("third Publish failed: %v", err)
	}
	if res.Updated != 1 || res.Deleted != 1 {
		t.Errorf("Expected 1 updated and 1 deleted, got %+v", res)
	}
	if got := api.events[p.Index.Get("e1")].Summary; got != "! 크리틱" {
		t.Errorf("Expected urgent summary after move, got %q", got)
	}
	if p.Index.Get("e2") != "" {
		t.Error("Expected e2 dropped from index")
	}
}

func TestPublishFindsUnindexedEvent(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)
	e := model.Event{ID: "e1", Name: "회의", Date: "2024-06-20"}
	existing, _ := ConvertEvent(e, p.Dates, 3)
	api.Insert(ctx, existing)

	_, action, err := p.SyncEvent(ctx, e)
	if err != nil {
		t.Fatalf("SyncEvent failed: %v", err)
	}
	if action != actionUnchanged || len(api.events) != 1 {
		t.Errorf("Expected existing event to be reused, got action %v and %d events", action, len(api.events))
	}
	if p.Index.Get("e1") != existing.Id {
		t.Error("Expected index to learn the found event")
	}
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)
	p.Pending.Update("e1", overdue.Entry{GCalID: "g9", Name: "회의", Date: "2024-06-09", Urgent: true}, 1, true)
	api.events["g9"] = &gcal.Event{Id: "g9", Summary: "! 회의"}

	n, err := p.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 || api.events["g9"].Summary != "✓ 회의" {
		t.Errorf("Expected one swept event checked off, got %d %q", n, api.events["g9"].Summary)
	}
	if len(p.Pending.Entries) != 0 {
		t.Error("Expected pending table empty after sweep")
	}
}

func TestSweepFlagsNewlyUrgent(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)
	p.Pending.Update("e2", overdue.Entry{GCalID: "g2", Name: "마감", Date: "2024-06-12"}, 2, true)
	api.events["g2"] = &gcal.Event{Id: "g2", Summary: "마감"}

	n, err := p.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 || api.events["g2"].Summary != "! 마감" {
		t.Errorf("Expected the event flagged urgent, got %d %q", n, api.events["g2"].Summary)
	}
	if !p.Pending.Entries["e2"].Urgent {
		t.Error("Expected the entry to stay tracked as urgent")
	}
	if n, _ := p.Sweep(ctx); n != 0 {
		t.Errorf("Expected a second sweep to do nothing, got %d", n)
	}
}

func TestPublishRetriesFailedDelete(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)
	if _, err := p.Publish(ctx, []model.Event{{ID: "e1", Name: "크리틱", Date: "2024-06-17"}}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	gcalID := p.Index.Get("e1")

	api.deleteErrs = []error{&googleapi.Error{Code: http.StatusServiceUnavailable}}
	res, err := p.Publish(ctx, nil)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.Deleted != 0 || res.Failed != 1 {
		t.Errorf("Expected 0 deleted and 1 failed, got %+v", res)
	}
	if p.Index.Get("e1") != gcalID {
		t.Fatal("Expected e1 to stay indexed after a failed delete")
	}

	res, err = p.Publish(ctx, nil)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.Deleted != 1 || len(api.events) != 0 {
		t.Errorf("Expected the retry to delete the event, got %+v with %d left", res, len(api.events))
	}
	if p.Index.Len() != 0 {
		t.Errorf("Expected empty index, got %d", p.Index.Len())
	}
}

func TestPublishForgetsEventAlreadyGone(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := newTestPublisher(t, api)
	p.Index.Set("e1", "g404")

	api.deleteErrs = []error{&googleapi.Error{Code: http.StatusGone}}
	res, err := p.Publish(ctx, nil)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if res.Failed != 0 || p.Index.Len() != 0 {
		t.Errorf("Expected gone event forgotten without failure, got %+v and %d indexed", res, p.Index.Len())
	}
}
