// Package taskwarrior imports tasks from `task export`.
package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
)

type Client struct {
	// Binary is the task executable, "task" when empty.
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// Export runs `task <filter> export` with hooks disabled and decodes
// its output.
func (c *Client) Export(ctx context.Context, filter []string) ([]Task, error) {
	bin := c.Binary
	if bin == "" {
		bin = "task"
	}
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s export exited %d: %s", bin, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("run %s: %w", bin, err)
	}
	return c.ParseTasks(bytes.NewReader(out))
}

// ParseTask parses a single task JSON object.
func (c *Client) ParseTask(r io.Reader) (Task, error) {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("failed to decode task json: %w", err)
	}
	return task, nil
}

// ParseTasks accepts either a JSON array, as `task export` writes, or a
// stream of objects one per line.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	decoder := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		if len(raw) > 0 && raw[0] == '[' {
			var batch []Task
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("failed to decode task json: %w", err)
			}
			tasks = append(tasks, batch...)
			continue
		}
		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// StatusOf maps Taskwarrior state onto a board column. Started pending
// tasks are in progress.
func StatusOf(t Task) model.Status {
	switch t.Status {
	case statusCompleted:
		return model.StatusDone
	case statusPending, statusWaiting:
		if t.Start.Set() {
			return model.StatusInProgress
		}
	}
	return model.StatusPending
}

// ToTasks converts exported tasks, skipping deleted and recurring
// templates. Ids derive from the UUID so re-imports do not duplicate.
func ToTasks(tasks []Task, loc *time.Location, now time.Time) []model.Task {
	if loc == nil {
		loc = time.Local
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == statusDeleted || t.Status == statusRecurring || t.Description == "" {
			continue
		}
		mt := model.Task{
			ID:        model.PrefixTask + "tw_" + t.UUID,
			Name:      t.Description,
			Assignee:  t.Assignee,
			Status:    StatusOf(t),
			CreatedAt: now,
		}
		if t.Entry.Set() {
			mt.CreatedAt = t.Entry.Time
		}
		switch {
		case t.Due.Set():
			mt.DueDate = dateutil.ISODate(t.Due.Time.In(loc))
		case t.Scheduled.Set():
			mt.DueDate = dateutil.ISODate(t.Scheduled.Time.In(loc))
		}
		out = append(out, mt)
	}
	return out
}
