// Package calendar builds the five-week month grid shown on the dashboard.
package calendar

import (
	"time"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
)

const (
	// GridDays is five full weeks.
	GridDays = 35
	// MaxLabels is how many event names a cell shows before "+n".
	MaxLabels = 2
	// LabelRunes is the truncation width for event labels.
	LabelRunes = 8
	// DefaultUrgentWindow is the inclusive D-day range counted as urgent.
	DefaultUrgentWindow = 3
)

// Cell is one day of the grid.
type Cell struct {
	Date    time.Time
	ISO     string
	Day     int
	InMonth bool
	Today   bool
	Events  []model.Event
	Labels  []Label
	More    int
	Urgent  bool
	// Badge is the D-day text of the first event; empty when that event is past.
	Badge       string
	BadgeUrgent bool
}

// Label is a truncated event name for display.
type Label struct {
	EventID string
	Text    string
	Title   string
	Urgent  bool
}

// Grid is a built month.
type Grid struct {
	Year  int
	Month time.Month
	Cells [GridDays]Cell
}

// Builder turns events into month grids.
type Builder struct {
	Dates        *dateutil.Dates
	UrgentWindow int
}

// NewBuilder uses DefaultUrgentWindow when window <= 0.
func NewBuilder(dates *dateutil.Dates, window int) *Builder {
	if window <= 0 {
		window = DefaultUrgentWindow
	}
	return &Builder{Dates: dates, UrgentWindow: window}
}

// IsUrgent reports whether an offset falls within [0, window].
func IsUrgent(days int, ok bool, window int) bool {
	return ok && days >= 0 && days <= window
}

// BuildMonthGrid lays out 35 days starting on the Sunday on or before the
// first of month and buckets events onto them by ISO date.
func (b *Builder) BuildMonthGrid(year int, month time.Month, events []model.Event) Grid {
	loc := b.Dates.Loc
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	today := b.Dates.Today()

	byDate := make(map[string][]model.Event, len(events))
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	g := Grid{Year: first.Year(), Month: first.Month()}
	for i := 0; i < GridDays; i++ {
		day := start.AddDate(0, 0, i)
		iso := dateutil.ISODate(day)
		cell := Cell{
			Date:    day,
			ISO:     iso,
			Day:     day.Day(),
			InMonth: day.Month() == first.Month(),
			Today:   dateutil.DaysBetween(today, day) == 0,
			Events:  byDate[iso],
		}
		b.decorate(&cell)
		g.Cells[i] = cell
	}
	return g
}

func (b *Builder) decorate(c *Cell) {
	if len(c.Events) == 0 {
		return
	}
	for i, e := range c.Events {
		days, ok := b.Dates.DaysUntil(e.Date)
		urgent := IsUrgent(days, ok, b.UrgentWindow)
		if urgent {
			c.Urgent = true
		}
		if i < MaxLabels {
			c.Labels = append(c.Labels, Label{
				EventID: e.ID,
				Text:    Truncate(e.Name, LabelRunes),
				Title:   e.Name,
				Urgent:  urgent,
			})
		}
	}
	if len(c.Events) > MaxLabels {
		c.More = len(c.Events) - MaxLabels
	}
	if days, ok := b.Dates.DaysUntil(c.Events[0].Date); ok && days >= 0 {
		c.Badge = b.Dates.DDayLabel(days)
		c.BadgeUrgent = days <= b.UrgentWindow
	}
}

// Weeks splits the grid into rows of seven.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, GridDays/7)
	for i := 0; i < GridDays; i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

// Truncate cuts s to n runes and appends "..." when it was longer.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
