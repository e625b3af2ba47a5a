package dashboard

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/model"
)

// Renderer turns projections into plain text.
type Renderer struct {
	Lists    *Lists
	Messages Messages
}

func NewRenderer(lists *Lists, msgs Messages) *Renderer {
	return &Renderer{Lists: lists, Messages: msgs}
}

func (r *Renderer) eventLine(sb *strings.Builder, it EventItem) {
	mark := " "
	if it.Urgent {
		mark = "!"
	}
	fmt.Fprintf(sb, "%s %s  %s", mark, it.Event.Name, r.Lists.Dates.Format(it.Event.Date))
	if it.HasDay {
		fmt.Fprintf(sb, " (%s)", it.Label)
	}
	fmt.Fprintf(sb, "  #%s\n", it.Event.ID)
}

// Events renders an event list, or the empty-state message.
func (r *Renderer) Events(items []EventItem) string {
	if len(items) == 0 {
		return r.Messages.NoEvents + "\n"
	}
	var sb strings.Builder
	for _, it := range items {
		r.eventLine(&sb, it)
	}
	return sb.String()
}

// Tasks renders a flat task list.
func (r *Renderer) Tasks(tasks []model.Task, empty string) string {
	if len(tasks) == 0 {
		return empty + "\n"
	}
	var sb strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&sb, "- [%s] %s", t.Status, t.Name)
		if t.Assignee != "" {
			fmt.Fprintf(&sb, " (%s: %s)", r.Messages.Assignee, t.Assignee)
		}
		fmt.Fprintf(&sb, "  #%s\n", t.ID)
	}
	return sb.String()
}

// Resources renders resource cards.
func (r *Renderer) Resources(resources []model.Resource) string {
	if len(resources) == 0 {
		return r.Messages.NoResources + "\n"
	}
	var sb strings.Builder
	for _, res := range resources {
		fmt.Fprintf(&sb, "%s [%s]  #%s\n  %s\n", res.Name, res.Category, res.ID, res.URL)
		if res.Version != "" {
			fmt.Fprintf(&sb, "  %s: %s\n", r.Messages.Version, res.Version)
		}
		if res.Registrant != "" {
			fmt.Fprintf(&sb, "  %s: %s\n", r.Messages.Registrant, res.Registrant)
		}
	}
	return sb.String()
}

// Feeds renders notes. full prints the whole content instead of a preview.
func (r *Renderer) Feeds(feeds []model.Feed, full bool) string {
	if len(feeds) == 0 {
		return r.Messages.NoFeeds + "\n"
	}
	var sb strings.Builder
	for _, f := range feeds {
		fmt.Fprintf(&sb, "[%s] %s  #%s\n", f.Type, f.Title, f.ID)
		content := Preview(f.Content)
		if full {
			content = f.Content
		}
		if content != "" {
			fmt.Fprintf(&sb, "  %s\n", content)
		}
		if f.Author != "" && full {
			fmt.Fprintf(&sb, "  %s: %s\n", r.Messages.Author, f.Author)
		}
	}
	return sb.String()
}

// Dashboard renders the three summary sections.
func (r *Renderer) Dashboard(tasks []model.Task, events []model.Event, feeds []model.Feed) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", r.Messages.Upcoming)
	sb.WriteString(r.Events(r.Lists.UpcomingEvents(events)))
	fmt.Fprintf(&sb, "\n== %s ==\n", r.Messages.TodayTasks)
	sb.WriteString(r.Tasks(r.Lists.TodayTasks(tasks), r.Messages.NoTodayTasks))
	fmt.Fprintf(&sb, "\n== %s ==\n", r.Messages.RecentNote)
	sb.WriteString(r.Feeds(r.Lists.RecentFeeds(feeds), false))
	return sb.String()
}

var weekdays = map[string][7]string{
	"ko": {"일", "월", "화", "수", "목", "금", "토"},
	"en": {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

// Calendar renders a month grid. Out-of-month days are shown in
// parentheses, today with a star, urgent days with "!", and any day with
// events with "+".
func (r *Renderer) Calendar(g calendar.Grid) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d-%02d\n", g.Year, int(g.Month))
	for _, h := range Weekdays(r.Lists.Dates.Locale.Name) {
		fmt.Fprintf(&sb, "%-6s", h)
	}
	sb.WriteString("\n")
	for _, week := range g.Weeks() {
		for _, c := range week {
			sb.WriteString(fmt.Sprintf("%-6s", cellText(c)))
		}
		sb.WriteString("\n")
	}

	first := true
	for _, c := range g.Cells {
		if len(c.Labels) == 0 {
			continue
		}
		if first {
			sb.WriteString("\n")
			first = false
		}
		fmt.Fprintf(&sb, "%s", c.ISO)
		if c.Badge != "" {
			fmt.Fprintf(&sb, " [%s]", c.Badge)
		}
		for _, l := range c.Labels {
			fmt.Fprintf(&sb, " %s", l.Text)
		}
		if c.More > 0 {
			fmt.Fprintf(&sb, " +%d", c.More)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Weekdays returns short day names, Sunday first. Unknown locales get Korean.
func Weekdays(locale string) [7]string {
	if w, ok := weekdays[locale]; ok {
		return w
	}
	return weekdays["ko"]
}

func cellText(c calendar.Cell) string {
	s := fmt.Sprintf("%d", c.Day)
	if !c.InMonth {
		s = "(" + s + ")"
	}
	switch {
	case c.Today:
		s += "*"
	case c.Urgent:
		s += "!"
	case len(c.Events) > 0:
		s += "+"
	}
	return s
}
