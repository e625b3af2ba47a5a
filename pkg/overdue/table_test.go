package overdue

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
)

func datesAt(now time.Time) *dateutil.Dates {
	return &dateutil.Dates{Now: func() time.Time { return now }, Loc: time.UTC, Locale: dateutil.Korean}
}

func TestSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	table, err := NewTable(path)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}

	table.Update("e1", Entry{GCalID: "g1", Name: "회의", Date: "2024-06-12", Urgent: true}, 2, true)
	table.Update("e2", Entry{GCalID: "g2", Name: "마감", Date: "2024-06-20"}, 10, true)
	table.Update("e3", Entry{GCalID: "g3", Name: "지난 일", Date: "2024-06-01"}, -1, true)
	if len(table.Entries) != 2 {
		t.Fatalf("Expected past event not to be tracked, got %d entries", len(table.Entries))
	}
	if err := table.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewTable(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	dates := datesAt(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	swept := reloaded.Sweep(dates)
	if len(swept) != 1 || swept[0].GCalID != "g1" {
		t.Fatalf("Expected g1 swept, got %+v", swept)
	}
	if _, ok := reloaded.Entries["e2"]; !ok {
		t.Error("Expected future entry to remain")
	}
	if again := reloaded.Sweep(dates); len(again) != 0 {
		t.Errorf("Expected second sweep to be empty, got %+v", again)
	}
}

func TestEscalate(t *testing.T) {
	table, err := NewTable("")
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	table.Update("e1", Entry{GCalID: "g1", Name: "마감", Date: "2024-06-20"}, 10, true)
	table.Update("e2", Entry{GCalID: "g2", Name: "전시", Date: "2024-07-01"}, 21, true)

	dates := datesAt(time.Date(2024, 6, 18, 8, 0, 0, 0, time.UTC))
	due := table.Escalate(dates, 3)
	if len(due) != 1 || due[0].GCalID != "g1" || !due[0].Urgent {
		t.Fatalf("Expected g1 escalated, got %+v", due)
	}
	if again := table.Escalate(dates, 3); len(again) != 0 {
		t.Errorf("Expected an escalated entry to be reported once, got %+v", again)
	}
	if err := table.Save(); err != nil {
		t.Errorf("Expected in-memory table to skip saving, got %v", err)
	}
}

func TestCorruptTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTable(path); err == nil {
		t.Error("Expected an error for a corrupt table")
	}
}
