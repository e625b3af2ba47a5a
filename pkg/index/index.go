// Package index remembers which Google Calendar event each local event was
// published as.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const FileName = "gcal_index.json"

type EventIndex struct {
	Mappings map[string]string `json:"mappings"`
	Path     string            `json:"-"`
	mu       sync.RWMutex
	dirty    bool
}

// NewEventIndex loads the index at path, or starts empty when absent.
func NewEventIndex(path string) (*EventIndex, error) {
	idx := &EventIndex{Mappings: map[string]string{}, Path: path}
	if err := idx.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) Load() error {
	data, err := os.ReadFile(idx.Path)
	if err != nil {
		return fmt.Errorf("reading event index: %w", err)
	}
	mappings := make(map[string]string)
	if err := json.Unmarshal(data, &mappings); err != nil {
		return fmt.Errorf("decoding event index %s: %w", idx.Path, err)
	}
	if mappings == nil {
		mappings = make(map[string]string)
	}
	idx.mu.Lock()
	idx.Mappings = mappings
	idx.dirty = false
	idx.mu.Unlock()
	return nil
}

// Save writes the index if it changed, replacing the file atomically.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty || idx.Path == "" {
		return nil
	}

	data, err := json.MarshalIndent(idx.Mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding event index: %w", err)
	}
	dir := filepath.Dir(idx.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gcal_index-*")
	if err != nil {
		return fmt.Errorf("creating temp index: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing event index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing event index: %w", err)
	}
	if err := os.Rename(tmp.Name(), idx.Path); err != nil {
		return fmt.Errorf("replacing event index: %w", err)
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(eventID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[eventID]
}

func (idx *EventIndex) Set(eventID, gcalID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[eventID] != gcalID {
		idx.Mappings[eventID] = gcalID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[eventID]; exists {
		delete(idx.Mappings, eventID)
		idx.dirty = true
	}
}

// Len is the number of mapped events.
func (idx *EventIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.Mappings)
}

// IDs returns the indexed local event ids, sorted.
func (idx *EventIndex) IDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]string, 0, len(idx.Mappings))
	for id := range idx.Mappings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
