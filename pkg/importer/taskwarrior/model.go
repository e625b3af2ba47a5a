package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

// Task states as written by `task export`.
const (
	statusPending   = "pending"
	statusCompleted = "completed"
	statusWaiting   = "waiting"
	statusDeleted   = "deleted"
	statusRecurring = "recurring"
)

const timestampLayout = "20060102T150405Z"

// Timestamp is Taskwarrior's compact UTC time, e.g. 20240612T150000Z.
type Timestamp struct {
	time.Time
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ts.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return fmt.Errorf("taskwarrior timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.UTC().Format(timestampLayout) + `"`), nil
}

// Set reports whether the timestamp is present.
func (ts *Timestamp) Set() bool {
	return ts != nil && !ts.IsZero()
}

type Annotation struct {
	Entry       *Timestamp `json:"entry"`
	Description string     `json:"description"`
}

// Task holds the export fields the importer reads.
type Task struct {
	UUID        string       `json:"uuid"`
	Status      string       `json:"status"`
	Description string       `json:"description"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Entry       *Timestamp   `json:"entry,omitempty"`
	Start       *Timestamp   `json:"start,omitempty"`
	End         *Timestamp   `json:"end,omitempty"`
	Due         *Timestamp   `json:"due,omitempty"`
	Scheduled   *Timestamp   `json:"scheduled,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	// uda.assignee
	Assignee string `json:"assignee,omitempty"`
}
