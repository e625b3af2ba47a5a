// Package board groups tasks into status columns and moves them between
// columns.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// Column holds the tasks in one status, in collection order.
type Column struct {
	Status model.Status
	Tasks  []model.Task
}

// Board is rebuilt from the full collection on every render.
type Board struct {
	Columns [3]Column
	// Unrecognized counts tasks whose status matches no column.
	Unrecognized int
}

// Partition sorts tasks into the three status columns.
func Partition(tasks []model.Task) Board {
	var b Board
	for i, s := range model.Statuses {
		b.Columns[i] = Column{Status: s, Tasks: []model.Task{}}
	}
	for _, t := range tasks {
		col := b.Column(t.Status)
		if col == nil {
			b.Unrecognized++
			continue
		}
		col.Tasks = append(col.Tasks, t)
	}
	return b
}

// Column returns the column for status, or nil.
func (b *Board) Column(status model.Status) *Column {
	for i := range b.Columns {
		if b.Columns[i].Status == status {
			return &b.Columns[i]
		}
	}
	return nil
}

// Locate returns the status of the column holding id.
func (b *Board) Locate(id string) (model.Status, bool) {
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			if t.ID == id {
				return c.Status, true
			}
		}
	}
	return "", false
}

// SetStatus overwrites the status of task id. It reports false, leaving
// tasks untouched, when id is missing or status is not a column.
func SetStatus(tasks []model.Task, id string, status model.Status) ([]model.Task, bool) {
	if !status.Valid() {
		return tasks, false
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Status = status
			return tasks, true
		}
	}
	return tasks, false
}

// Controller persists status changes made on the board.
type Controller struct {
	gw     *store.Gateway
	picked string
}

func NewController(gw *store.Gateway) *Controller {
	return &Controller{gw: gw}
}

// Load reads the task collection and partitions it.
func (c *Controller) Load(ctx context.Context) (Board, error) {
	tasks, err := store.Load[model.Task](ctx, c.gw, store.Tasks)
	if err != nil {
		return Partition(nil), err
	}
	return Partition(tasks), nil
}

// PickUp remembers the task being carried.
func (c *Controller) PickUp(id string) {
	c.picked = id
}

// Picked returns the carried task id, if any.
func (c *Controller) Picked() (string, bool) {
	return c.picked, c.picked != ""
}

// Cancel drops nothing.
func (c *Controller) Cancel() {
	c.picked = ""
}

// Drop moves the carried task onto column. The pick is cleared either way.
func (c *Controller) Drop(ctx context.Context, column model.Status) (bool, error) {
	id := c.picked
	c.picked = ""
	if id == "" {
		return false, nil
	}
	return c.Move(ctx, id, column)
}

// Move sets the status of task id and persists the collection.
func (c *Controller) Move(ctx context.Context, id string, status model.Status) (bool, error) {
	return store.Update(ctx, c.gw, store.Tasks, func(tasks []model.Task) ([]model.Task, bool) {
		return SetStatus(tasks, id, status)
	})
}

// Render draws the board as plain text, one section per column.
func Render(b Board, dates *dateutil.Dates, empty string) string {
	var sb strings.Builder
	for i, c := range b.Columns {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s] (%d)\n", c.Status, len(c.Tasks))
		if len(c.Tasks) == 0 {
			fmt.Fprintf(&sb, "  %s\n", empty)
			continue
		}
		for _, t := range c.Tasks {
			fmt.Fprintf(&sb, "  - %s", t.Name)
			if t.Assignee != "" {
				fmt.Fprintf(&sb, " @%s", t.Assignee)
			}
			if due := dates.Format(t.DueDate); due != "" {
				fmt.Fprintf(&sb, " (%s)", due)
			}
			fmt.Fprintf(&sb, "  #%s\n", t.ID)
		}
	}
	if b.Unrecognized > 0 {
		fmt.Fprintf(&sb, "\n%d task(s) with unknown status hidden\n", b.Unrecognized)
	}
	return sb.String()
}
