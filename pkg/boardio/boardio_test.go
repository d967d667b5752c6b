package boardio

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sprintboard/pkg/board"
	"github.com/matzehuels/sprintboard/pkg/errors"
	"github.com/matzehuels/sprintboard/pkg/layout"
)

var testNow = time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

func sampleBoard(t *testing.T) *board.Board {
	t.Helper()
	b := board.New(testNow)
	lane := b.Members[0].Lane()
	for _, title := range []string{"design", "build", "later"} {
		if _, err := b.AddTask(title); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := b.PlaceTask(b.Tasks[0].ID, lane, 0, 187.5); err != nil {
		t.Fatal(err)
	}
	if _, err := b.PlaceTask(b.Tasks[1].ID, lane, 100, 187.5); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestJSONRoundTrip(t *testing.T) {
	b := sampleBoard(t)

	var buf bytes.Buffer
	if err := WriteJSON(b, &buf, testNow); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"memberId": null`, `"exportedAt": "2025-01-06T10:00:00Z"`, `"storageOrder": 2`, `"rowIndex": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s:\n%s", want, out)
		}
	}

	got, rep, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Changed() {
		t.Errorf("clean document reported changes: %+v", rep)
	}
	if rep.Sprints != 1 || rep.Members != 1 || rep.Tasks != 3 {
		t.Errorf("report counts = %+v", rep)
	}
	if !reflect.DeepEqual(got.Tasks, b.Tasks) {
		t.Errorf("tasks = %+v\nwant %+v", got.Tasks, b.Tasks)
	}
	if !reflect.DeepEqual(got.Sprints, b.Sprints) || !reflect.DeepEqual(got.Members, b.Members) {
		t.Error("sprints or members changed in round trip")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	b := sampleBoard(t)

	var buf bytes.Buffer
	if err := WriteYAML(b, &buf, testNow); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "projectTitle: Gantt Chart") {
		t.Errorf("unexpected yaml:\n%s", buf.String())
	}
	got, _, err := ReadYAML(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Tasks, b.Tasks) {
		t.Errorf("tasks = %+v\nwant %+v", got.Tasks, b.Tasks)
	}
}

func TestReadNormalises(t *testing.T) {
	const doc = `{
	  "sprints": [{"id": "s1", "title": "Sprint 1", "startDate": "2025-01-06", "endDate": "2025-01-20", "order": 0}],
	  "members": [{"id": "m1", "name": "Ana", "order": 0}],
	  "tasks": [
	    {"id": "a", "title": "a", "memberId": "m1", "startX": 0, "width": 100, "rowIndex": 0},
	    {"id": "b", "title": "b", "memberId": "m1", "startX": 50, "width": 100, "rowIndex": 0},
	    {"id": "c", "title": "c", "memberId": "gone", "startX": 0, "width": 100, "rowIndex": 3},
	    {"id": "d", "title": "d", "memberId": "m1", "startX": -20, "width": 0, "rowIndex": 5},
	    {"id": "e", "title": "e", "memberId": null, "startX": 0, "width": 100, "rowIndex": 0}
	  ]
	}`
	b, rep, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if b.ProjectTitle != board.DefaultProjectTitle || b.PrimaryColor != board.DefaultPrimaryColor {
		t.Errorf("defaults not applied: %q %q", b.ProjectTitle, b.PrimaryColor)
	}
	if b.Sprints[0].Color != board.DefaultSprintColor {
		t.Errorf("sprint colour = %q", b.Sprints[0].Color)
	}
	if !reflect.DeepEqual(rep.Parked, []string{"c"}) {
		t.Errorf("Parked = %v", rep.Parked)
	}
	if !reflect.DeepEqual(rep.Clamped, []string{"d"}) {
		t.Errorf("Clamped = %v", rep.Clamped)
	}
	if !reflect.DeepEqual(rep.Restacked, []string{"b"}) {
		t.Errorf("Restacked = %v", rep.Restacked)
	}
	if err := b.Verify(); err != nil {
		t.Errorf("imported board fails Verify(): %v", err)
	}

	d, _ := b.Task("d")
	if d.StartX != 0 || d.Width != 50 || d.RowIndex != 5 {
		t.Errorf("clamped task = %+v", d)
	}
	var holding []string
	for _, task := range b.HoldingArea() {
		holding = append(holding, task.ID)
	}
	if !reflect.DeepEqual(holding, []string{"c", "e"}) {
		t.Errorf("HoldingArea() = %v", holding)
	}
}

func TestReadKeepsNarrowTasks(t *testing.T) {
	const doc = `{
	  "sprints": [],
	  "members": [{"id": "m1", "name": "Ana", "order": 0}],
	  "tasks": [
	    {"id": "t1", "title": "t1", "memberId": "m1", "startX": 0, "width": 30, "rowIndex": 0},
	    {"id": "t2", "title": "t2", "memberId": "m1", "startX": 40, "width": 30, "rowIndex": 0}
	  ]
	}`
	b, rep, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Changed() {
		t.Errorf("valid narrow layout reported changes: %+v", rep)
	}
	for _, id := range []string{"t1", "t2"} {
		task, _ := b.Task(id)
		if task.Width != 30 || task.RowIndex != 0 {
			t.Errorf("task %s = width %v row %d, want width 30 row 0", id, task.Width, task.RowIndex)
		}
	}
}

func TestReadNonFiniteStart(t *testing.T) {
	const doc = `sprints: []
members:
  - id: m1
    name: Ana
tasks:
  - id: t1
    memberId: m1
    startX: .inf
    width: 80
  - id: t2
    memberId: m1
    startX: -.inf
    width: 80
`
	b, rep, err := ReadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rep.Clamped, []string{"t1", "t2"}) {
		t.Errorf("Clamped = %v", rep.Clamped)
	}
	for _, id := range []string{"t1", "t2"} {
		task, _ := b.Task(id)
		if task.StartX != 0 || task.Width != 80 {
			t.Errorf("task %s = start %v width %v, want start 0 width 80", id, task.StartX, task.Width)
		}
	}
	if err := b.Verify(); err != nil {
		t.Errorf("imported board fails Verify(): %v", err)
	}
}

func TestReaderMinTaskWidth(t *testing.T) {
	const doc = `{
	  "sprints": [],
	  "members": [{"id": "m1", "name": "Ana", "order": 0}],
	  "tasks": [
	    {"id": "zero", "title": "zero", "memberId": "m1", "startX": 0, "width": 0, "rowIndex": 0},
	    {"id": "narrow", "title": "narrow", "memberId": "m1", "startX": 40, "width": 10, "rowIndex": 0}
	  ]
	}`
	m := layout.DefaultMetrics()
	m.MinTaskWidth = 20

	b, rep, err := NewReader(m).ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rep.Clamped, []string{"zero"}) {
		t.Errorf("Clamped = %v", rep.Clamped)
	}
	if len(rep.Restacked) != 0 {
		t.Errorf("Restacked = %v", rep.Restacked)
	}
	zero, _ := b.Task("zero")
	narrow, _ := b.Task("narrow")
	if zero.Width != 20 || narrow.Width != 10 {
		t.Errorf("widths = %v, %v, want 20, 10", zero.Width, narrow.Width)
	}

	if NewReader(layout.Metrics{}).Metrics.MinTaskWidth != layout.DefaultMetrics().MinTaskWidth {
		t.Error("NewReader(zero metrics) did not fall back to the defaults")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"not json", `{"sprints": [`, errors.ErrCodeInvalidFormat},
		{"missing tasks", `{"sprints": [], "members": []}`, errors.ErrCodeInvalidFormat},
		{"null members", `{"sprints": [], "members": null, "tasks": []}`, errors.ErrCodeInvalidFormat},
		{"duplicate id", `{"sprints": [], "members": [{"id": "x"}], "tasks": [{"id": "x", "width": 60}]}`, errors.ErrCodeInvalidFormat},
		{"empty id", `{"sprints": [], "members": [{"id": ""}], "tasks": []}`, errors.ErrCodeInvalidFormat},
		{"bad dates", `{"sprints": [{"id": "s", "startDate": "2025-02-01", "endDate": "2025-01-01"}], "members": [], "tasks": []}`, errors.ErrCodeInvalidDate},
		{"bad colour", `{"primaryColor": "purple", "sprints": [], "members": [], "tasks": []}`, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	yamlDoc := "sprints: []\nmembers:\n  - id: m1\n    name: Ana\ntasks:\n  - id: t1\n    memberId: m1\n    startX: 0\n    width: 80\n"
	b, _, err := Decode([]byte(yamlDoc))
	if err != nil {
		t.Fatal(err)
	}
	if task, _ := b.Task("t1"); task.MemberID != "m1" {
		t.Errorf("yaml task = %+v", task)
	}

	if _, _, err := Decode([]byte(`{"sprints": [], "members": [], "tasks": []}`)); err != nil {
		t.Errorf("Decode(json) = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"board.json", FormatJSON, false},
		{"board.YAML", FormatYAML, false},
		{"dir/board.yml", FormatYAML, false},
		{"board.png", "", true},
		{"board", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	b := sampleBoard(t)
	path := t.TempDir() + "/board.yaml"
	if err := ExportFile(b, path, testNow); err != nil {
		t.Fatal(err)
	}
	got, _, err := ImportFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tasks) != len(b.Tasks) {
		t.Errorf("imported %d tasks, want %d", len(got.Tasks), len(b.Tasks))
	}
}
