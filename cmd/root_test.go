package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/spf13/cobra"
)

func TestParseMonth(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		input     string
		wantYear  int
		wantMonth time.Month
		err       bool
	}{
		{"", 2024, time.June, false},
		{"2024-12", 2024, time.December, false},
		{"2025-01", 2025, time.January, false},
		{"2024-13", 0, 0, true},
		{"June", 0, 0, true},
	}

	for _, tt := range tests {
		got, err := parseMonth(tt.input, now)
		if tt.err {
			if err == nil {
				t.Errorf("parseMonth(%q): expected error, got %+v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseMonth(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got.Year != tt.wantYear || got.Month != tt.wantMonth {
			t.Errorf("parseMonth(%q) = %d-%v, want %d-%v", tt.input, got.Year, got.Month, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"네\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		c := promptConfirmer(strings.NewReader(tt.input), &out)
		if got := c.Confirm("정말 삭제하시겠습니까?"); got != tt.want {
			t.Errorf("Confirm with %q = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "정말 삭제하시겠습니까?") {
			t.Errorf("Expected prompt to be written, got %q", out.String())
		}
	}
}

func TestConfirmerYesFlag(t *testing.T) {
	flagYes = true
	defer func() { flagYes = false }()

	c := confirmer(strings.NewReader(""), &bytes.Buffer{})
	if !c.Confirm("x") {
		t.Errorf("Expected --yes to approve without reading input")
	}
}

func TestBindFormFlagsOnlyCopiesChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	apply := bindFormFlags(cmd, taskKind)
	if err := cmd.ParseFlags([]string{"--status", "done", "--assignee", ""}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	form := model.Task{ID: "t1", Name: "모델 제작", Assignee: "김지수", Status: model.StatusPending}.Form()
	apply(form)

	if form["taskName"] != "모델 제작" {
		t.Errorf("Expected untouched name, got %q", form["taskName"])
	}
	if form["status"] != "done" {
		t.Errorf("Expected status done, got %q", form["status"])
	}
	if form["assigneeName"] != "" {
		t.Errorf("Expected assignee cleared by an explicit empty flag, got %q", form["assigneeName"])
	}
}

func TestRecordCommandsRegistered(t *testing.T) {
	for _, parent := range []*cobra.Command{taskCmd, resourceCmd, feedCmd, eventCmd} {
		for _, name := range []string{"add", "edit", "list", "delete"} {
			if c, _, err := parent.Find([]string{name}); err != nil || c.Name() != name {
				t.Errorf("Expected %s %s to be registered", parent.Name(), name)
			}
		}
	}
	if c, _, err := taskCmd.Find([]string{"move"}); err != nil || c.Name() != "move" {
		t.Errorf("Expected task move to be registered")
	}
}

func TestStatusList(t *testing.T) {
	if got := statusList(); got != "대기, 진행중, 완료" {
		t.Errorf("Expected 대기, 진행중, 완료, got %s", got)
	}
}

func TestValidateEditNamesStatusFlag(t *testing.T) {
	form := model.Form{"id": "t1", "taskName": "모델 제작", "status": "blocked"}
	err := validateEdit(taskKind, form)
	if err == nil || !strings.Contains(err.Error(), "--status") {
		t.Fatalf("Expected error mentioning --status, got %v", err)
	}

	form["status"] = string(model.StatusDone)
	if err := validateEdit(taskKind, form); err != nil {
		t.Errorf("Expected valid form after setting status, got %v", err)
	}

	form = model.Form{"id": "t1", "status": "blocked"}
	if err := validateEdit(taskKind, form); err == nil || strings.Contains(err.Error(), "--status") {
		t.Errorf("Expected missing name reported first, got %v", err)
	}

	if err := validateEdit(eventKind, model.Form{"eventName": "x", "date": "soon"}); err == nil {
		t.Error("Expected bad event date rejected")
	}
}
