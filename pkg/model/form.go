package model

import (
	"fmt"
	"strings"
	"time"
)

// Form is the flat field map a CRUD form hands back. Missing optional
// fields read as the empty string.
type Form map[string]string

// Get returns the trimmed value for key.
func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// TaskFromForm builds a task. An empty "id" field means a new record.
func TaskFromForm(f Form, now time.Time) Task {
	id := f.Get("id")
	if id == "" {
		id = NewID(PrefixTask, now)
	}
	// Unknown statuses fall back to pending so every task lands in a column.
	status, ok := ParseStatus(f.Get("status"))
	if !ok {
		status = StatusPending
	}
	return Task{
		ID:        id,
		Name:      f.Get("taskName"),
		Assignee:  f.Get("assigneeName"),
		Status:    status,
		DueDate:   f.Get("dueDate"),
		CreatedAt: now,
	}
}

func ResourceFromForm(f Form, now time.Time) Resource {
	id := f.Get("id")
	if id == "" {
		id = NewID(PrefixResource, now)
	}
	return Resource{
		ID:         id,
		Name:       f.Get("resourceName"),
		URL:        f.Get("url"),
		Category:   f.Get("category"),
		Registrant: f.Get("registrant"),
		Version:    f.Get("version"),
		CreatedAt:  now,
	}
}

func FeedFromForm(f Form, now time.Time) Feed {
	id := f.Get("id")
	if id == "" {
		id = NewID(PrefixFeed, now)
	}
	return Feed{
		ID:        id,
		Title:     f.Get("title"),
		Content:   f.Get("content"),
		Type:      f.Get("type"),
		Author:    f.Get("authorName"),
		CreatedAt: now,
	}
}

func EventFromForm(f Form, now time.Time) Event {
	id := f.Get("id")
	if id == "" {
		id = NewID(PrefixEvent, now)
	}
	return Event{
		ID:        id,
		Name:      f.Get("eventName"),
		Date:      f.Get("date"),
		CreatedAt: now,
	}
}

// Form returns t as the field map its edit form starts from.
func (t Task) Form() Form {
	return Form{
		"id":           t.ID,
		"taskName":     t.Name,
		"assigneeName": t.Assignee,
		"status":       string(t.Status),
		"dueDate":      t.DueDate,
	}
}

func (r Resource) Form() Form {
	return Form{
		"id":           r.ID,
		"resourceName": r.Name,
		"url":          r.URL,
		"category":     r.Category,
		"registrant":   r.Registrant,
		"version":      r.Version,
	}
}

func (f Feed) Form() Form {
	return Form{
		"id":         f.ID,
		"title":      f.Title,
		"content":    f.Content,
		"type":       f.Type,
		"authorName": f.Author,
	}
}

func (e Event) Form() Form {
	return Form{
		"id":        e.ID,
		"eventName": e.Name,
		"date":      e.Date,
	}
}

// Field describes one input of a record form.
type Field struct {
	Key      string
	Label    string
	Required bool
	Date     bool
}

var (
	TaskFields = []Field{
		{Key: "taskName", Label: "할 일", Required: true},
		{Key: "assigneeName", Label: "담당자"},
		{Key: "status", Label: "상태"},
		{Key: "dueDate", Label: "마감일", Date: true},
	}
	ResourceFields = []Field{
		{Key: "resourceName", Label: "이름", Required: true},
		{Key: "url", Label: "URL", Required: true},
		{Key: "category", Label: "카테고리", Required: true},
		{Key: "registrant", Label: "등록자"},
		{Key: "version", Label: "버전"},
	}
	FeedFields = []Field{
		{Key: "title", Label: "제목", Required: true},
		{Key: "content", Label: "내용", Required: true},
		{Key: "type", Label: "유형", Required: true},
		{Key: "authorName", Label: "작성자"},
	}
	EventFields = []Field{
		{Key: "eventName", Label: "일정", Required: true},
		{Key: "date", Label: "날짜", Required: true, Date: true},
	}
)

// Validate checks required fields are present and date fields are
// YYYY-MM-DD. An unknown status is rejected too.
func Validate(fields []Field, f Form) error {
	for _, fd := range fields {
		v := f.Get(fd.Key)
		if v == "" {
			if fd.Required {
				return fmt.Errorf("%s is required", fd.Key)
			}
			continue
		}
		if fd.Date {
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return fmt.Errorf("%s: expected YYYY-MM-DD, got %q", fd.Key, v)
			}
		}
		if fd.Key == "status" {
			if _, ok := ParseStatus(v); !ok {
				return fmt.Errorf("unknown status %q", v)
			}
		}
	}
	return nil
}
