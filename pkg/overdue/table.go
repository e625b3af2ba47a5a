// Package overdue tracks published events that are still in the future, so
// a sweep can flag them as they come due and check them off once their day
// has passed, without republishing everything.
package overdue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/harrisonrobin/archsync/pkg/calendar"
	"github.com/harrisonrobin/archsync/pkg/dateutil"
)

const FileName = "pending_events.json"

// Entry is one published event. Urgent records whether the calendar copy
// already carries the urgent prefix.
type Entry struct {
	GCalID string `json:"gcal_id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Urgent bool   `json:"urgent,omitempty"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

func NewTable(path string) (*Table, error) {
	t := &Table{Path: path, Entries: map[string]Entry{}}
	if err := t.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return t, nil
}

func (t *Table) Load() error {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return fmt.Errorf("reading pending table: %w", err)
	}
	if err := json.Unmarshal(data, t); err != nil {
		return fmt.Errorf("decoding pending table %s: %w", t.Path, err)
	}
	if t.Entries == nil {
		t.Entries = make(map[string]Entry)
	}
	t.dirty = false
	return nil
}

func (t *Table) Save() error {
	if !t.dirty || t.Path == "" {
		return nil
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pending table: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return fmt.Errorf("creating pending table directory: %w", err)
	}
	if err := os.WriteFile(t.Path, data, 0600); err != nil {
		return fmt.Errorf("writing pending table: %w", err)
	}
	t.dirty = false
	return nil
}

// Update tracks an event published with a date from today on. Anything
// else is dropped from the table.
func (t *Table) Update(eventID string, e Entry, daysUntil int, ok bool) {
	if !ok || daysUntil < 0 {
		t.Remove(eventID)
		return
	}
	if old, exists := t.Entries[eventID]; !exists || old != e {
		t.Entries[eventID] = e
		t.dirty = true
	}
}

func (t *Table) Remove(eventID string) {
	if _, exists := t.Entries[eventID]; exists {
		delete(t.Entries, eventID)
		t.dirty = true
	}
}

// Sweep removes and returns entries whose date is before today, ordered by
// date.
func (t *Table) Sweep(dates *dateutil.Dates) []Entry {
	var swept []Entry
	for id, entry := range t.Entries {
		days, ok := dates.DaysUntil(entry.Date)
		if !ok || days < 0 {
			swept = append(swept, entry)
			delete(t.Entries, id)
			t.dirty = true
		}
	}
	sortByDate(swept)
	return swept
}

// Escalate returns entries that have entered the urgent window since they
// were published and marks them urgent.
func (t *Table) Escalate(dates *dateutil.Dates, window int) []Entry {
	var due []Entry
	for id, entry := range t.Entries {
		if entry.Urgent {
			continue
		}
		days, ok := dates.DaysUntil(entry.Date)
		if !calendar.IsUrgent(days, ok, window) {
			continue
		}
		entry.Urgent = true
		t.Entries[id] = entry
		t.dirty = true
		due = append(due, entry)
	}
	sortByDate(due)
	return due
}

func sortByDate(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
}
