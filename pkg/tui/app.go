// Package tui is the interactive dashboard: a month calendar with summary
// lists, the kanban board, and the event, resource and note lists.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrisonrobin/archsync/pkg/board"
	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/colors"
	"github.com/harrisonrobin/archsync/pkg/dashboard"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/organizer"
	"github.com/harrisonrobin/archsync/pkg/store"
)

type tab int

const (
	tabDashboard tab = iota
	tabBoard
	tabEvents
	tabResources
	tabFeeds
	tabCount
)

var tabNames = [tabCount]string{"대시보드", "보드", "일정", "리소스", "메모"}

type mode int

const (
	modeNormal mode = iota
	modeForm
	modeConfirm
)

const opTimeout = 10 * time.Second

type App struct {
	org      *organizer.Organizer
	dispatch *organizer.Dispatcher
	board    *board.Controller
	dates    *dateutil.Dates
	lists    *dashboard.Lists
	msgs     dashboard.Messages
	builder  *calendar.Builder
	palette  *colors.Palette

	tab    tab
	mode   mode
	width  int
	height int

	tasks     []model.Task
	resources []model.Resource
	feeds     []model.Feed
	events    []model.Event
	profile   model.Profile
	columns   board.Board

	view       calendar.ViewState
	cursor     [tabCount]int
	col        int
	resFilter  string
	feedFilter string
	expanded   bool

	form    *form
	pending *organizer.Request
	status  string
	err     error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Organizer    *organizer.Organizer
	Dates        *dateutil.Dates
	Locale       string
	UrgentWindow int
	Limit        int
	Palette      *colors.Palette
}

func NewApp(opts RunOpts) *App {
	lists := dashboard.NewLists(opts.Dates, opts.UrgentWindow, opts.Limit)
	palette := opts.Palette
	if palette == nil {
		palette, _ = colors.NewPalette("")
	}
	// Deletes are confirmed in the UI before they are dispatched.
	dispatch := organizer.NewDispatcher(opts.Organizer, organizer.AlwaysConfirm)
	return &App{
		org:        opts.Organizer,
		dispatch:   dispatch,
		board:      opts.Organizer.Board(),
		dates:      opts.Dates,
		lists:      lists,
		msgs:       dashboard.MessagesFor(opts.Locale),
		builder:    calendar.NewBuilder(opts.Dates, opts.UrgentWindow),
		palette:    palette,
		view:       calendar.NewViewState(opts.Dates.Today()),
		resFilter:  dashboard.FilterAll,
		feedFilter: dashboard.FilterAll,
		profile:    model.DefaultProfile(),
		columns:    board.Partition(nil),
	}
}

// Run starts the program and blocks until the user quits.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	if perr := app.palette.Save(); perr != nil {
		return fmt.Errorf("saving palette: %w", perr)
	}
	return err
}

func (a *App) Init() tea.Cmd {
	return a.loadCmd()
}

type dataLoadedMsg struct {
	tasks     []model.Task
	resources []model.Resource
	feeds     []model.Feed
	events    []model.Event
	profile   model.Profile
	err       error
}

type mutatedMsg struct {
	changed bool
	note    string
	err     error
}

// loadCmd reads every collection. Views are rebuilt from the full data.
func (a *App) loadCmd() tea.Cmd {
	org := a.org
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		var msg dataLoadedMsg
		if msg.tasks, msg.err = org.Tasks(ctx); msg.err != nil {
			return msg
		}
		if msg.resources, msg.err = org.Resources(ctx); msg.err != nil {
			return msg
		}
		if msg.feeds, msg.err = org.Feeds(ctx); msg.err != nil {
			return msg
		}
		if msg.events, msg.err = org.Events(ctx); msg.err != nil {
			return msg
		}
		msg.profile, msg.err = org.Profile(ctx)
		return msg
	}
}

// dispatchCmd captures req so later state changes cannot affect it.
func (a *App) dispatchCmd(req organizer.Request, note string) tea.Cmd {
	d := a.dispatch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		changed, err := d.Dispatch(ctx, req)
		return mutatedMsg{changed: changed, note: note, err: err}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case dataLoadedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.tasks = msg.tasks
		a.resources = msg.resources
		a.feeds = msg.feeds
		a.events = msg.events
		a.profile = msg.profile
		a.columns = board.Partition(a.tasks)
		a.clampCursors()
		return a, nil

	case mutatedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		if msg.changed {
			a.status = msg.note
		}
		return a, a.loadCmd()

	case tea.KeyMsg:
		switch a.mode {
		case modeForm:
			return a.updateForm(msg)
		case modeConfirm:
			return a.updateConfirm(msg)
		}
		return a.updateNormal(msg)
	}
	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		a.setTab((a.tab + 1) % tabCount)
		return a, nil
	case "shift+tab":
		a.setTab((a.tab + tabCount - 1) % tabCount)
		return a, nil
	case "1", "2", "3", "4", "5":
		a.setTab(tab(key[0] - '1'))
		return a, nil
	case "r":
		a.status = ""
		return a, a.loadCmd()
	}

	switch a.tab {
	case tabDashboard:
		return a.updateDashboard(key)
	case tabBoard:
		return a.updateBoard(key)
	}
	return a.updateList(key)
}

func (a *App) setTab(t tab) {
	if a.tab == tabBoard && t != tabBoard {
		a.board.Cancel()
	}
	a.tab = t
	a.expanded = false
	a.status = ""
}

func (a *App) updateDashboard(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h", "pgup":
		a.view = a.view.Prev()
	case "right", "l", "pgdown":
		a.view = a.view.Next()
	case "t":
		a.view = calendar.NewViewState(a.dates.Today())
	case "a":
		return a, a.openAdd()
	}
	return a, nil
}

func (a *App) updateBoard(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		if a.col > 0 {
			a.col--
		}
		a.clampCursors()
	case "right", "l":
		if a.col < len(a.columns.Columns)-1 {
			a.col++
		}
		a.clampCursors()
	case "up", "k":
		a.moveCursor(-1)
	case "down", "j":
		a.moveCursor(1)
	case " ", "enter":
		return a, a.pickOrDrop()
	case "esc":
		a.board.Cancel()
		a.status = ""
	case "a":
		return a, a.openAdd()
	case "e":
		return a, a.openEdit()
	case "d":
		a.askDelete()
	}
	return a, nil
}

// pickOrDrop picks up the selected card, or drops the carried one on the
// current column.
func (a *App) pickOrDrop() tea.Cmd {
	if id, ok := a.board.Picked(); ok {
		a.board.Cancel()
		status := a.columns.Columns[a.col].Status
		return a.dispatchCmd(organizer.Request{
			Collection: store.Tasks,
			Action:     organizer.ActionMove,
			ID:         id,
			Status:     status,
		}, fmt.Sprintf("→ %s", status))
	}
	if id := a.selectedID(); id != "" {
		a.board.PickUp(id)
		a.status = "←/→ 이동 · enter 놓기 · esc 취소"
	}
	return nil
}

func (a *App) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		a.moveCursor(-1)
		a.expanded = false
	case "down", "j":
		a.moveCursor(1)
		a.expanded = false
	case "enter":
		a.expanded = !a.expanded
	case "f":
		a.cycleFilter()
	case "a":
		return a, a.openAdd()
	case "e":
		return a, a.openEdit()
	case "d":
		a.askDelete()
	}
	return a, nil
}

// cycleFilter steps the resource category or note type filter through
// "all" and every value present.
func (a *App) cycleFilter() {
	switch a.tab {
	case tabResources:
		a.resFilter = nextFilter(a.resFilter, dashboard.Categories(a.resources))
	case tabFeeds:
		a.feedFilter = nextFilter(a.feedFilter, feedTypes(a.feeds))
	default:
		return
	}
	a.cursor[a.tab] = 0
}

func nextFilter(current string, values []string) string {
	options := append([]string{dashboard.FilterAll}, values...)
	for i, v := range options {
		if v == current {
			return options[(i+1)%len(options)]
		}
	}
	return dashboard.FilterAll
}

// feedTypes lists the offered note types followed by any others in use.
func feedTypes(feeds []model.Feed) []string {
	out := []string{model.FeedFeedback, model.FeedMeeting, model.FeedIdea}
	seen := map[string]bool{}
	for _, t := range out {
		seen[t] = true
	}
	for _, f := range feeds {
		if f.Type != "" && !seen[f.Type] {
			seen[f.Type] = true
			out = append(out, f.Type)
		}
	}
	return out
}

func (a *App) visibleEvents() []dashboard.EventItem {
	return a.lists.EventsList(a.events)
}

func (a *App) visibleResources() []model.Resource {
	return dashboard.FilterResources(a.resources, a.resFilter)
}

func (a *App) visibleFeeds() []model.Feed {
	return dashboard.FilterFeeds(a.feeds, a.feedFilter)
}

func (a *App) listLen() int {
	switch a.tab {
	case tabBoard:
		return len(a.columns.Columns[a.col].Tasks)
	case tabEvents:
		return len(a.visibleEvents())
	case tabResources:
		return len(a.visibleResources())
	case tabFeeds:
		return len(a.visibleFeeds())
	}
	return 0
}

func (a *App) moveCursor(delta int) {
	c := a.cursor[a.tab] + delta
	if n := a.listLen(); c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	a.cursor[a.tab] = c
}

func (a *App) clampCursors() {
	saved := a.tab
	for t := tab(0); t < tabCount; t++ {
		a.tab = t
		a.moveCursor(0)
	}
	a.tab = saved
}

// selectedID is the id under the cursor on the current tab, or "".
func (a *App) selectedID() string {
	c := a.cursor[a.tab]
	switch a.tab {
	case tabBoard:
		if tasks := a.columns.Columns[a.col].Tasks; c < len(tasks) {
			return tasks[c].ID
		}
	case tabEvents:
		if items := a.visibleEvents(); c < len(items) {
			return items[c].Event.ID
		}
	case tabResources:
		if rs := a.visibleResources(); c < len(rs) {
			return rs[c].ID
		}
	case tabFeeds:
		if fs := a.visibleFeeds(); c < len(fs) {
			return fs[c].ID
		}
	}
	return ""
}

// collection is what the current tab edits. The dashboard adds events.
func (a *App) collection() (store.Collection, []model.Field) {
	switch a.tab {
	case tabBoard:
		return store.Tasks, model.TaskFields
	case tabResources:
		return store.Resources, model.ResourceFields
	case tabFeeds:
		return store.Feeds, model.FeedFields
	}
	return store.Events, model.EventFields
}

func (a *App) openAdd() tea.Cmd {
	c, fields := a.collection()
	values := model.Form{}
	switch c {
	case store.Tasks:
		values["status"] = string(a.columns.Columns[a.col].Status)
	case store.Events:
		values["date"] = dateutil.ISODate(a.dates.Today())
	case store.Feeds:
		if a.feedFilter != dashboard.FilterAll {
			values["type"] = a.feedFilter
		}
		values["authorName"] = a.profile.Name
	case store.Resources:
		values["registrant"] = a.profile.Name
	}
	a.form = newForm(c, fields, values)
	a.mode = modeForm
	return nil
}

func (a *App) openEdit() tea.Cmd {
	id := a.selectedID()
	if id == "" {
		return nil
	}
	values, ok := a.recordForm(id)
	if !ok {
		return nil
	}
	c, fields := a.collection()
	a.form = newForm(c, fields, values)
	a.mode = modeForm
	return nil
}

func (a *App) recordForm(id string) (model.Form, bool) {
	switch a.tab {
	case tabBoard:
		for _, t := range a.tasks {
			if t.ID == id {
				return t.Form(), true
			}
		}
	case tabEvents:
		for _, e := range a.events {
			if e.ID == id {
				return e.Form(), true
			}
		}
	case tabResources:
		for _, r := range a.resources {
			if r.ID == id {
				return r.Form(), true
			}
		}
	case tabFeeds:
		for _, f := range a.feeds {
			if f.ID == id {
				return f.Form(), true
			}
		}
	}
	return nil, false
}

func (a *App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	submit, cancel, cmd := a.form.update(msg)
	if cancel {
		a.form = nil
		a.mode = modeNormal
		return a, nil
	}
	if !submit {
		return a, cmd
	}

	values := a.form.values()
	if err := model.Validate(a.form.fields, values); err != nil {
		a.form.err = err
		return a, nil
	}
	req := organizer.Request{Collection: a.form.collection, Form: values}
	note := "저장했습니다."
	if a.form.id == "" {
		req.Action = organizer.ActionAdd
		note = "추가했습니다."
	} else {
		req.Action = organizer.ActionEdit
		req.ID = a.form.id
	}
	a.form = nil
	a.mode = modeNormal
	return a, a.dispatchCmd(req, note)
}

func (a *App) askDelete() {
	id := a.selectedID()
	if id == "" {
		return
	}
	c, _ := a.collection()
	a.pending = &organizer.Request{Collection: c, Action: organizer.ActionDelete, ID: id}
	a.mode = modeConfirm
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := a.pending
	switch msg.String() {
	case "y", "Y", "enter":
		a.pending = nil
		a.mode = modeNormal
		return a, a.dispatchCmd(*req, "삭제했습니다.")
	case "n", "N", "esc", "q":
		a.pending = nil
		a.mode = modeNormal
	}
	return a, nil
}
