package google

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	gcal "google.golang.org/api/calendar/v3"
)

// PropertyKey is the private extended property holding the local event id.
const PropertyKey = "archsync_id"

const (
	PrefixUrgent = "!"
	PrefixPast   = "✓"

	colorUrgent = "11"
	colorPast   = "8"
)

// Summary returns the calendar title for an event: past events are
// checked off and urgent ones flagged.
func Summary(e model.Event, dates *dateutil.Dates, window int) string {
	days, ok := dates.DaysUntil(e.Date)
	switch {
	case ok && days < 0:
		return fmt.Sprintf("%s %s", PrefixPast, e.Name)
	case calendar.IsUrgent(days, ok, window):
		return fmt.Sprintf("%s %s", PrefixUrgent, e.Name)
	}
	return e.Name
}

// ConvertEvent builds an all-day calendar event for e.
func ConvertEvent(e model.Event, dates *dateutil.Dates, window int) (*gcal.Event, error) {
	start, err := time.Parse(dateutil.ISOLayout, e.Date)
	if err != nil {
		return nil, fmt.Errorf("event %s has no usable date %q: %w", e.ID, e.Date, err)
	}
	days, ok := dates.DaysUntil(e.Date)

	color := ""
	switch {
	case ok && days < 0:
		color = colorPast
	case calendar.IsUrgent(days, ok, window):
		color = colorUrgent
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Date: %s\n", dates.Format(e.Date))
	if ok {
		fmt.Fprintf(&desc, "D-day: %s\n", dates.DDayLabel(days))
	}
	fmt.Fprintf(&desc, "ID: %s\n", e.ID)

	return &gcal.Event{
		Summary:     Summary(e, dates, window),
		ColorId:     color,
		Description: desc.String(),
		// All-day events end on the following day, exclusive.
		Start: &gcal.EventDateTime{Date: start.Format(dateutil.ISOLayout)},
		End:   &gcal.EventDateTime{Date: start.AddDate(0, 0, 1).Format(dateutil.ISOLayout)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{PropertyKey: e.ID},
		},
	}, nil
}

func eventDate(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	return dt.DateTime
}

// EventNeedsUpdate returns a patch holding only the fields of target that
// differ from existing, or nil when they match.
func EventNeedsUpdate(existing, target *gcal.Event) *gcal.Event {
	patch := &gcal.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		if target.ColorId == "" {
			patch.ForceSendFields = append(patch.ForceSendFields, "ColorId")
		}
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}
