package taskwarrior

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/archsync/pkg/model"
)

func TestParseTask(t *testing.T) {
	input := `{
		"uuid": "9b1c2d3e-0000-4000-8000-000000000001",
		"description": "3D 모델 검수",
		"status": "waiting",
		"project": "archsync",
		"due": "20240614T090000Z",
		"tags": ["review"],
		"assignee": "김하늘",
		"annotations": [{"entry": "20240610T080000Z", "description": "2층 평면도"}]
	}`

	task, err := NewClient().ParseTask(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTask failed: %v", err)
	}
	if task.Description != "3D 모델 검수" || task.Assignee != "김하늘" {
		t.Errorf("Unexpected task: %+v", task)
	}
	if len(task.Annotations) != 1 || task.Annotations[0].Description != "2층 평면도" {
		t.Errorf("Expected one annotation, got %+v", task.Annotations)
	}
	want := time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)
	if !task.Due.Time.Equal(want) {
		t.Errorf("Expected due %v, got %v", want, task.Due.Time)
	}
	if task.Start.Set() {
		t.Error("Expected missing start to be unset")
	}
	if StatusOf(task) != model.StatusPending {
		t.Errorf("Expected waiting task to map to %s, got %s", model.StatusPending, StatusOf(task))
	}
}

func TestTimestampZeroValues(t *testing.T) {
	var ts Timestamp
	for _, in := range []string{`""`, `"0"`} {
		if err := ts.UnmarshalJSON([]byte(in)); err != nil || ts.Set() {
			t.Errorf("%s: Expected unset timestamp, got %v (%v)", in, ts.Time, err)
		}
	}
	if err := ts.UnmarshalJSON([]byte(`"2024-06-14"`)); err == nil {
		t.Error("Expected error for ISO date")
	}
	out, _ := Timestamp{Time: time.Date(2024, 6, 14, 18, 0, 0, 0, time.FixedZone("KST", 9*3600))}.MarshalJSON()
	if string(out) != `"20240614T090000Z"` {
		t.Errorf("Expected UTC compact form, got %s", out)
	}
}

func TestParseTasksArrayAndStream(t *testing.T) {
	client := NewClient()
	array := `[{"uuid":"a","description":"one","status":"pending"},{"uuid":"b","description":"two","status":"completed"}]`
	tasks, err := client.ParseTasks(strings.NewReader(array))
	if err != nil || len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks from array, got %d (%v)", len(tasks), err)
	}

	stream := "{\"uuid\":\"a\",\"description\":\"one\",\"status\":\"pending\"}\n{\"uuid\":\"b\",\"description\":\"two\",\"status\":\"pending\"}\n"
	tasks, err = client.ParseTasks(strings.NewReader(stream))
	if err != nil || len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks from stream, got %d (%v)", len(tasks), err)
	}

	if _, err := client.ParseTasks(strings.NewReader("{broken")); err == nil {
		t.Error("Expected error for broken json")
	}
}

func TestToTasks(t *testing.T) {
	input := `[
		{"uuid":"u1","description":"모델 제작","status":"pending","start":"20240610T010000Z","due":"20240612T150000Z","assignee":"이철민"},
		{"uuid":"u2","description":"패널 수정","status":"pending","scheduled":"20240613T000000Z","entry":"20240601T000000Z"},
		{"uuid":"u3","description":"정리","status":"completed"},
		{"uuid":"u4","description":"버림","status":"deleted"},
		{"uuid":"u5","description":"매주","status":"recurring"}
	]`
	tw, err := NewClient().ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	tasks := ToTasks(tw, time.UTC, now)
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}

	if tasks[0].ID != "ttw_u1" || tasks[0].Status != model.StatusInProgress || tasks[0].DueDate != "2024-06-12" || tasks[0].Assignee != "이철민" {
		t.Errorf("Unexpected first task: %+v", tasks[0])
	}
	if tasks[1].Status != model.StatusPending || tasks[1].DueDate != "2024-06-13" {
		t.Errorf("Expected scheduled date used as due, got %+v", tasks[1])
	}
	if !tasks[1].CreatedAt.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected entry time as CreatedAt, got %v", tasks[1].CreatedAt)
	}
	if tasks[2].Status != model.StatusDone || !tasks[2].CreatedAt.Equal(now) {
		t.Errorf("Unexpected completed task: %+v", tasks[2])
	}

	seoul := time.FixedZone("KST", 9*3600)
	late := ToTasks(tw[:1], seoul, now)
	if late[0].DueDate != "2024-06-13" {
		t.Errorf("Expected due date in KST to roll over, got %s", late[0].DueDate)
	}
}
