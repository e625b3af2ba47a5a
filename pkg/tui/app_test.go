package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/organizer"
	"github.com/harrisonrobin/archsync/pkg/store"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *organizer.Organizer) {
	t.Helper()
	kv, err := store.NewBoltKV(filepath.Join(t.TempDir(), "archsync.db"))
	if err != nil {
		t.Fatalf("NewBoltKV failed: %v", err)
	}
	gw := store.NewGateway(kv)
	t.Cleanup(func() { gw.Close() })

	dates := dateutil.New(func() time.Time { return testNow }, dateutil.Korean)
	dates.Loc = time.UTC
	org := organizer.New(gw, dates.Now)
	app := NewApp(RunOpts{Organizer: org, Dates: dates, Locale: "ko", UrgentWindow: 3, Limit: 5})
	return app, org
}

// run feeds command results back into the app until nothing is left.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		_, cmd = a.Update(cmd())
	}
}

func press(a *App, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func TestBoardPickAndDrop(t *testing.T) {
	ctx := context.Background()
	app, org := newTestApp(t)
	task, _, err := org.SaveTask(ctx, model.Form{"taskName": "모델 제작", "status": "진행중"})
	if err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}
	run(t, app, app.Init())

	press(app, "2")
	press(app, "right")
	if cmd := press(app, "enter"); cmd != nil {
		t.Fatalf("Expected picking up to be local, got a command")
	}
	if id, ok := app.board.Picked(); !ok || id != task.ID {
		t.Fatalf("Expected %s to be picked, got %q", task.ID, id)
	}

	press(app, "right")
	cmd := press(app, "enter")
	if cmd == nil {
		t.Fatalf("Expected a drop to dispatch a move")
	}
	run(t, app, cmd)

	if _, ok := app.board.Picked(); ok {
		t.Errorf("Expected the pick to be cleared after the drop")
	}
	if n := len(app.columns.Column(model.StatusDone).Tasks); n != 1 {
		t.Errorf("Expected 1 task in the done column, got %d", n)
	}
	if n := len(app.columns.Column(model.StatusInProgress).Tasks); n != 0 {
		t.Errorf("Expected the in-progress column to be empty, got %d", n)
	}
	stored, _, _ := org.Task(ctx, task.ID)
	if stored.Status != model.StatusDone {
		t.Errorf("Expected stored status %q, got %q", model.StatusDone, stored.Status)
	}
}

func TestAddEventThroughForm(t *testing.T) {
	ctx := context.Background()
	app, org := newTestApp(t)
	run(t, app, app.Init())

	press(app, "3")
	press(app, "a")
	if app.mode != modeForm {
		t.Fatalf("Expected form mode, got %v", app.mode)
	}
	press(app, "전시 오픈")
	press(app, "enter")
	cmd := press(app, "enter")
	if cmd == nil {
		t.Fatalf("Expected submit to dispatch an add")
	}
	run(t, app, cmd)

	events, _ := org.Events(ctx)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].Name != "전시 오픈" || events[0].Date != "2024-06-10" {
		t.Errorf("Unexpected event %+v", events[0])
	}
	if len(app.events) != 1 {
		t.Errorf("Expected the view to reload, got %d events", len(app.events))
	}
}

func TestFormRejectsMissingRequired(t *testing.T) {
	app, _ := newTestApp(t)
	run(t, app, app.Init())

	press(app, "4")
	press(app, "a")
	for range model.ResourceFields {
		press(app, "enter")
	}
	if app.mode != modeForm {
		t.Fatalf("Expected the form to stay open, got mode %v", app.mode)
	}
	if app.form.err == nil {
		t.Errorf("Expected a validation error")
	}
	press(app, "esc")
	if app.mode != modeNormal || app.form != nil {
		t.Errorf("Expected esc to close the form")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	app, org := newTestApp(t)
	if _, _, err := org.SaveEvent(ctx, model.Form{"eventName": "마감", "date": "2024-06-12"}); err != nil {
		t.Fatalf("SaveEvent failed: %v", err)
	}
	run(t, app, app.Init())

	press(app, "3")
	press(app, "d")
	if app.mode != modeConfirm {
		t.Fatalf("Expected confirm mode, got %v", app.mode)
	}
	if !strings.Contains(app.View(), organizer.DeletePrompt) {
		t.Errorf("Expected the delete prompt to be shown")
	}
	if cmd := press(app, "n"); cmd != nil {
		t.Errorf("Expected declining to dispatch nothing")
	}
	if events, _ := org.Events(ctx); len(events) != 1 {
		t.Errorf("Expected the event to survive, got %d", len(events))
	}

	press(app, "d")
	run(t, app, press(app, "y"))
	if events, _ := org.Events(ctx); len(events) != 0 {
		t.Errorf("Expected the event to be deleted, got %d", len(events))
	}
}

func TestCalendarNavigation(t *testing.T) {
	app, _ := newTestApp(t)
	press(app, "right")
	if app.view.Month != time.July {
		t.Errorf("Expected July, got %v", app.view.Month)
	}
	press(app, "left")
	press(app, "left")
	if app.view.Month != time.May {
		t.Errorf("Expected May, got %v", app.view.Month)
	}
	press(app, "t")
	if app.view.Month != time.June || app.view.Year != 2024 {
		t.Errorf("Expected June 2024, got %v %d", app.view.Month, app.view.Year)
	}
}

func TestEmptyStates(t *testing.T) {
	app, _ := newTestApp(t)
	run(t, app, app.Init())

	view := app.View()
	for _, want := range []string{app.msgs.NoEvents, app.msgs.NoTodayTasks, app.msgs.NoFeeds} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected dashboard to contain %q", want)
		}
	}

	press(app, "2")
	if n := strings.Count(app.View(), app.msgs.NoTasks); n != 3 {
		t.Errorf("Expected the empty message in 3 columns, got %d", n)
	}
}

func TestCycleFilter(t *testing.T) {
	values := []string{"도구", "문서"}
	got := nextFilter("all", values)
	if got != "도구" {
		t.Errorf("Expected 도구, got %s", got)
	}
	if got := nextFilter("문서", values); got != "all" {
		t.Errorf("Expected wrap to all, got %s", got)
	}
	if got := nextFilter("gone", values); got != "all" {
		t.Errorf("Expected unknown filter to reset, got %s", got)
	}
}

func TestFeedTypesKeepsOfferedFirst(t *testing.T) {
	got := feedTypes([]model.Feed{{Type: "회고"}, {Type: model.FeedIdea}})
	want := []string{model.FeedFeedback, model.FeedMeeting, model.FeedIdea, "회고"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
		{"다가오는 일정입니다", 5, "다가..."},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.input, tt.n); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}
