package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/dashboard"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/organizer"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	cellWidth     = 12
)

func (a *App) size() (int, int) {
	w, h := a.width, a.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (a *App) View() string {
	width, height := a.size()

	header := a.renderHeader(width)
	var body string
	switch a.mode {
	case modeForm:
		body = a.form.view(a.formTitle())
	case modeConfirm:
		body = promptStyle.Render(organizer.DeletePrompt) + itemMetaStyle.Render("  (y/n)")
	default:
		body = a.renderTab(width)
	}

	bar := a.renderStatusBar(width)
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(bar)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, bar)
}

func (a *App) formTitle() string {
	name := tabNames[a.tab]
	if a.tab == tabDashboard {
		name = tabNames[tabEvents]
	}
	if a.form.id == "" {
		return name + " 추가"
	}
	return name + " 수정"
}

func (a *App) renderHeader(width int) string {
	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == a.tab {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	left := headerStyle.Render("archsync") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	today := a.dates.Format(dateutil.ISODate(a.dates.Today()))
	right := headerDateStyle.Render(a.profile.Name + " · " + today + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func (a *App) renderTab(width int) string {
	switch a.tab {
	case tabBoard:
		return a.renderBoard(width)
	case tabEvents:
		return a.renderEvents(width)
	case tabResources:
		return a.renderResources(width)
	case tabFeeds:
		return a.renderFeeds(width)
	}
	return a.renderDashboard(width)
}

func (a *App) renderDashboard(width int) string {
	grid := a.view.Build(a.builder, a.events)
	cal := paneActiveStyle.Render(renderCalendar(grid, a.dates.Locale.Name))

	sideWidth := width - lipgloss.Width(cal) - 2
	if sideWidth < 24 {
		sideWidth = 24
	}
	var side strings.Builder
	side.WriteString(sectionTitleStyle.Render(a.msgs.Upcoming))
	side.WriteString("\n")
	side.WriteString(a.eventLines(a.lists.UpcomingEvents(a.events), -1, sideWidth))
	side.WriteString("\n\n")
	side.WriteString(sectionTitleStyle.Render(a.msgs.TodayTasks))
	side.WriteString("\n")
	today := a.lists.TodayTasks(a.tasks)
	if len(today) == 0 {
		side.WriteString(emptyStyle.Render(a.msgs.NoTodayTasks))
	}
	for i, t := range today {
		if i > 0 {
			side.WriteString("\n")
		}
		side.WriteString(itemTitleStyle.Render(truncateStr("• "+t.Name, sideWidth)))
		side.WriteString(" " + itemMetaStyle.Render(string(t.Status)))
	}
	side.WriteString("\n\n")
	side.WriteString(sectionTitleStyle.Render(a.msgs.RecentNote))
	side.WriteString("\n")
	recent := a.lists.RecentFeeds(a.feeds)
	if len(recent) == 0 {
		side.WriteString(emptyStyle.Render(a.msgs.NoFeeds))
	}
	for i, f := range recent {
		if i > 0 {
			side.WriteString("\n")
		}
		side.WriteString(tagStyle(a.palette.Hex(f.Type)).Render("["+f.Type+"]") + " " + itemTitleStyle.Render(truncateStr(f.Title, sideWidth-8)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cal, " ", paneStyle.Width(sideWidth).Render(side.String()))
}

// renderCalendar draws the grid as fixed-width cells: the day number with
// its D-day badge, up to two event labels, and "+n" for the rest.
func renderCalendar(g calendar.Grid, locale string) string {
	var rows []string
	rows = append(rows, sectionTitleStyle.Render(fmt.Sprintf("%d. %d", g.Year, int(g.Month))))

	var heads []string
	for _, d := range dashboard.Weekdays(locale) {
		heads = append(heads, weekdayStyle.Width(cellWidth).Render(d))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, heads...))

	for _, week := range g.Weeks() {
		var cells []string
		for _, c := range week {
			cells = append(cells, renderCell(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c calendar.Cell) string {
	day := fmt.Sprintf("%2d", c.Day)
	switch {
	case c.Today:
		day = dayTodayStyle.Render(day)
	case !c.InMonth:
		day = dayOutStyle.Render(day)
	default:
		day = dayStyle.Render(day)
	}
	if c.Badge != "" {
		badge := itemMetaStyle.Render(c.Badge)
		if c.BadgeUrgent {
			badge = urgentStyle.Render(c.Badge)
		}
		day += " " + badge
	}

	lines := []string{day}
	for _, l := range c.Labels {
		style := labelStyle
		if l.Urgent {
			style = urgentStyle
		}
		lines = append(lines, style.Render(truncateStr(l.Text, cellWidth-1)))
	}
	if c.More > 0 {
		lines = append(lines, itemMetaStyle.Render(fmt.Sprintf("+%d", c.More)))
	}
	for len(lines) < calendar.MaxLabels+2 {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(cellWidth).Render(strings.Join(lines, "\n"))
}

// eventLines renders event rows, highlighting index selected.
func (a *App) eventLines(items []dashboard.EventItem, selected, width int) string {
	if len(items) == 0 {
		return emptyStyle.Render(a.msgs.NoEvents)
	}
	nameWidth := width - 24
	if nameWidth < 10 {
		nameWidth = 10
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		name := truncateStr(it.Event.Name, nameWidth)
		if i == selected {
			name = itemSelectedStyle.Render("> " + name)
		} else {
			name = itemTitleStyle.Render("  " + name)
		}
		meta := itemMetaStyle.Render(a.dates.Format(it.Event.Date))
		if it.HasDay {
			label := it.Label
			if it.Urgent {
				label = urgentStyle.Render(label)
			} else {
				label = itemMetaStyle.Render(label)
			}
			meta += " " + label
		}
		lines = append(lines, name+"  "+meta)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderBoard(width int) string {
	colWidth := width/len(a.columns.Columns) - 4
	if colWidth < 16 {
		colWidth = 16
	}
	picked, carrying := a.board.Picked()

	var cols []string
	for i, col := range a.columns.Columns {
		var b strings.Builder
		b.WriteString(sectionTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Status, len(col.Tasks))))
		b.WriteString("\n")
		if len(col.Tasks) == 0 {
			b.WriteString(emptyStyle.Render(a.msgs.NoTasks))
		}
		for j, t := range col.Tasks {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(a.renderCard(t, i == a.col && j == a.cursor[tabBoard], carrying && t.ID == picked, colWidth))
		}

		style := paneStyle
		if i == a.col {
			style = paneActiveStyle
		}
		cols = append(cols, style.Width(colWidth).Render(b.String()))
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if a.columns.Unrecognized > 0 {
		out += "\n" + itemMetaStyle.Render(fmt.Sprintf("%d task(s) with unknown status hidden", a.columns.Unrecognized))
	}
	return out
}

func (a *App) renderCard(t model.Task, selected, picked bool, width int) string {
	title := truncateStr(t.Name, width-4)
	switch {
	case picked:
		title = itemPickedStyle.Render("✋ " + title)
	case selected:
		title = itemSelectedStyle.Render("> " + title)
	default:
		title = itemTitleStyle.Render("  " + title)
	}

	var meta []string
	if t.Assignee != "" {
		meta = append(meta, t.Assignee)
	}
	if t.DueDate != "" {
		due := a.dates.Format(t.DueDate)
		if days, ok := a.dates.DaysUntil(t.DueDate); ok && days >= 0 {
			due += " " + a.dates.DDayLabel(days)
		}
		meta = append(meta, due)
	}
	if len(meta) == 0 {
		return title
	}
	return title + "\n  " + itemMetaStyle.Render(truncateStr(strings.Join(meta, " · "), width-4))
}

func (a *App) renderEvents(width int) string {
	return paneStyle.Width(width - 4).Render(a.eventLines(a.visibleEvents(), a.cursor[tabEvents], width-6))
}

func (a *App) renderResources(width int) string {
	var b strings.Builder
	b.WriteString(renderFilterBar(a.resFilter, dashboard.Categories(a.resources), a.palette.Hex))
	b.WriteString("\n\n")

	rs := a.visibleResources()
	if len(rs) == 0 {
		b.WriteString(emptyStyle.Render(a.msgs.NoResources))
	}
	for i, r := range rs {
		if i > 0 {
			b.WriteString("\n")
		}
		name := truncateStr(r.Name, width-30)
		if i == a.cursor[tabResources] {
			name = itemSelectedStyle.Render("> " + name)
		} else {
			name = itemTitleStyle.Render("  " + name)
		}
		b.WriteString(name + " " + tagStyle(a.palette.Hex(r.Category)).Render(r.Category))
		b.WriteString("\n    " + itemMetaStyle.Render(truncateStr(r.URL, width-10)))

		var meta []string
		if r.Version != "" {
			meta = append(meta, a.msgs.Version+" "+r.Version)
		}
		if r.Registrant != "" {
			meta = append(meta, a.msgs.Registrant+" "+r.Registrant)
		}
		if len(meta) > 0 {
			b.WriteString("\n    " + itemMetaStyle.Render(strings.Join(meta, " · ")))
		}
	}
	return paneStyle.Width(width - 4).Render(b.String())
}

func (a *App) renderFeeds(width int) string {
	var b strings.Builder
	b.WriteString(renderFilterBar(a.feedFilter, feedTypes(a.feeds), a.palette.Hex))
	b.WriteString("\n\n")

	fs := a.visibleFeeds()
	if len(fs) == 0 {
		b.WriteString(emptyStyle.Render(a.msgs.NoFeeds))
	}
	for i, f := range fs {
		if i > 0 {
			b.WriteString("\n")
		}
		selected := i == a.cursor[tabFeeds]
		title := truncateStr(f.Title, width-20)
		if selected {
			title = itemSelectedStyle.Render("> " + title)
		} else {
			title = itemTitleStyle.Render("  " + title)
		}
		b.WriteString(tagStyle(a.palette.Hex(f.Type)).Render("["+f.Type+"]") + " " + title)

		content := dashboard.Preview(f.Content)
		if selected && a.expanded {
			content = lipgloss.NewStyle().Width(width - 12).Render(f.Content)
		}
		if content != "" {
			b.WriteString("\n    " + itemMetaStyle.Render(strings.ReplaceAll(content, "\n", "\n    ")))
		}
		if selected && a.expanded && f.Author != "" {
			b.WriteString("\n    " + itemMetaStyle.Render(a.msgs.Author+" "+f.Author))
		}
	}
	return paneStyle.Width(width - 4).Render(b.String())
}

// renderFilterBar shows "all" and each value, the current one highlighted.
func renderFilterBar(current string, values []string, hex func(string) string) string {
	options := append([]string{dashboard.FilterAll}, values...)
	parts := make([]string, 0, len(options))
	for _, v := range options {
		label := v
		if v == dashboard.FilterAll {
			label = "전체"
		}
		if v == current {
			parts = append(parts, tabActiveStyle.Render(label))
			continue
		}
		if v == dashboard.FilterAll {
			parts = append(parts, tabInactiveStyle.Render(label))
			continue
		}
		parts = append(parts, tabInactiveStyle.Foreground(lipgloss.Color(hex(v))).Render(label))
	}
	return itemMetaStyle.Render("f ") + strings.Join(parts, " ")
}
