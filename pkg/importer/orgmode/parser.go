// Package orgmode reads task headings from Org files.
package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
)

// Entry is one TODO-style heading.
type Entry struct {
	ID       string
	Keyword  string
	Priority string
	Title    string
	Tags     []string
	Deadline time.Time
	Source   string
}

var (
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DOING|NEXT|DONE)\s+(?:\[#([A-Z])\]\s*)?(.*?)(?:\s+(:[\w@]+(?::[\w@]+)*:))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[^\s>\d]+)?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	idRegex       = regexp.MustCompile(`^:ID:\s+(\S+)`)
)

func parseFile(filePath string) ([]Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file, filePath)
}

// ParseFiles parses each file in order and concatenates the entries.
func ParseFiles(filePaths []string) ([]Entry, error) {
	var all []Entry
	for _, filePath := range filePaths {
		entries, err := parseFile(filePath)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Parse returns every TODO/DOING/NEXT/DONE heading in r. Deadlines and
// :ID: properties are picked up from the lines under a heading.
func Parse(r io.Reader, source string) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	var current *Entry

	flush := func() {
		if current != nil && current.Title != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			flush()
			m := headingRegex.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			current = &Entry{Keyword: m[1], Priority: m[2], Title: strings.TrimSpace(m[3]), Source: source}
			if m[4] != "" {
				current.Tags = strings.Split(strings.Trim(m[4], ":"), ":")
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := deadlineRegex.FindStringSubmatch(line); m != nil {
			layout, value := dateutil.ISOLayout, m[1]
			if m[2] != "" {
				layout, value = dateutil.ISOLayout+" 15:04", m[1]+" "+m[2]
			}
			if deadline, err := time.ParseInLocation(layout, value, time.Local); err == nil {
				current.Deadline = deadline
			}
		} else if m := idRegex.FindStringSubmatch(line); m != nil {
			current.ID = m[1]
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// FilterEntries keeps entries carrying tag. An empty tag keeps everything.
func FilterEntries(entries []Entry, tag string) []Entry {
	if tag == "" {
		return entries
	}
	var filtered []Entry
	for _, e := range entries {
		for _, t := range e.Tags {
			if t == tag {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}

// Status maps the heading keyword onto a board column.
func (e Entry) Status() model.Status {
	switch e.Keyword {
	case "DONE":
		return model.StatusDone
	case "DOING", "NEXT":
		return model.StatusInProgress
	}
	return model.StatusPending
}

// ToTasks converts entries. Headings with an :ID: get a stable task id so
// importing the same file twice does not duplicate them.
func ToTasks(entries []Entry, now time.Time) []model.Task {
	tasks := make([]model.Task, 0, len(entries))
	for _, e := range entries {
		id := model.NewID(model.PrefixTask, now)
		if e.ID != "" {
			id = model.PrefixTask + "org_" + e.ID
		}
		t := model.Task{
			ID:        id,
			Name:      e.Title,
			Status:    e.Status(),
			CreatedAt: now,
		}
		if !e.Deadline.IsZero() {
			t.DueDate = dateutil.ISODate(e.Deadline)
		}
		tasks = append(tasks, t)
	}
	return tasks
}
