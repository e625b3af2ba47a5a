// Package dashboard projects the stored collections into the lists shown on
// the dashboard and the per-collection views.
package dashboard

import (
	"sort"
	"strings"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
)

const (
	DefaultLimit = 5
	PreviewRunes = 50
	// FilterAll disables category and type filtering.
	FilterAll = "all"
)

// EventItem is an event with its offset from today resolved.
type EventItem struct {
	Event  model.Event
	Days   int
	HasDay bool
	Label  string
	Urgent bool
}

// Lists computes every projection against one clock and urgency window.
type Lists struct {
	Dates        *dateutil.Dates
	UrgentWindow int
	Limit        int
}

func NewLists(dates *dateutil.Dates, urgentWindow, limit int) *Lists {
	if urgentWindow <= 0 {
		urgentWindow = calendar.DefaultUrgentWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Lists{Dates: dates, UrgentWindow: urgentWindow, Limit: limit}
}

func (l *Lists) item(e model.Event) EventItem {
	days, ok := l.Dates.DaysUntil(e.Date)
	it := EventItem{Event: e, Days: days, HasDay: ok}
	if ok {
		it.Label = l.Dates.DDayLabel(days)
		it.Urgent = calendar.IsUrgent(days, ok, l.UrgentWindow)
	}
	return it
}

// sortEvents orders by date ascending; undated events go last.
func (l *Lists) sortEvents(items []EventItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.HasDay != b.HasDay {
			return a.HasDay
		}
		return a.Days < b.Days
	})
}

// UpcomingEvents returns events from today on, soonest first, capped.
func (l *Lists) UpcomingEvents(events []model.Event) []EventItem {
	out := []EventItem{}
	for _, e := range events {
		it := l.item(e)
		if it.HasDay && it.Days >= 0 {
			out = append(out, it)
		}
	}
	l.sortEvents(out)
	if len(out) > l.Limit {
		out = out[:l.Limit]
	}
	return out
}

// EventsList returns every event ascending by date.
func (l *Lists) EventsList(events []model.Event) []EventItem {
	out := make([]EventItem, 0, len(events))
	for _, e := range events {
		out = append(out, l.item(e))
	}
	l.sortEvents(out)
	return out
}

// TodayTasks returns tasks due today in collection order.
func (l *Lists) TodayTasks(tasks []model.Task) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.DueDate != "" && l.Dates.IsSameDay(t.DueDate) {
			out = append(out, t)
		}
	}
	return out
}

// RecentFeeds returns the newest feeds, capped.
func (l *Lists) RecentFeeds(feeds []model.Feed) []model.Feed {
	out := NewestFeeds(feeds)
	if len(out) > l.Limit {
		out = out[:l.Limit]
	}
	return out
}

// newer orders by CreatedAt when both records carry it, else by id. Ids
// embed the creation millisecond so descending id is newest first.
func newer(a, b model.Feed) bool {
	if !a.CreatedAt.IsZero() && !b.CreatedAt.IsZero() && !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// NewestFeeds returns a sorted copy, newest first.
func NewestFeeds(feeds []model.Feed) []model.Feed {
	out := append([]model.Feed{}, feeds...)
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out
}

func matches(filter, value string) bool {
	return filter == "" || filter == FilterAll || filter == value
}

// FilterResources keeps resources whose category equals filter.
func FilterResources(resources []model.Resource, filter string) []model.Resource {
	out := []model.Resource{}
	for _, r := range resources {
		if matches(filter, r.Category) {
			out = append(out, r)
		}
	}
	return out
}

// FilterFeeds keeps feeds of the given type, newest first.
func FilterFeeds(feeds []model.Feed, filter string) []model.Feed {
	out := []model.Feed{}
	for _, f := range feeds {
		if matches(filter, f.Type) {
			out = append(out, f)
		}
	}
	return NewestFeeds(out)
}

// Categories lists the distinct resource categories in first-seen order.
func Categories(resources []model.Resource) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range resources {
		if r.Category == "" || seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Preview shortens note content for list display.
func Preview(content string) string {
	content = strings.TrimSpace(content)
	r := []rune(content)
	if len(r) <= PreviewRunes {
		return content
	}
	return string(r[:PreviewRunes]) + "..."
}
