package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/dayplan/internal/tasks"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func sampleTasks() []tasks.Task {
	return []tasks.Task{
		{ID: "T1", Name: "Write report", Priority: tasks.PriorityHigh, AddedAt: t0, Completed: true},
		{ID: "T2", Name: "Email Bob", Priority: tasks.PriorityLow, AddedAt: t0.Add(time.Minute)},
		{ID: "T3", Name: "Plan sprint", Priority: tasks.PriorityMedium, AddedAt: t0.Add(2 * time.Minute)},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV("2024-01-01", sampleTasks(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"List", "ID", "Task", "Priority", "Added", "Completed"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	want := []string{"2024-01-01", "T1", "Write report", "High", t0.Local().Format(tasks.AddedLayout), "Yes"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
	if records[2][5] != "No" {
		t.Fatalf("open task should export Completed=No, got %q", records[2][5])
	}
}

func TestToCSVKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.csv")
	ToCSV("l", sampleTasks(), path)

	records := readCSV(t, path)
	for i, id := range []string{"T1", "T2", "T3"} {
		if records[i+1][1] != id {
			t.Fatalf("row %d id = %q, want %q", i+1, records[i+1][1], id)
		}
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV("empty", nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV("l", nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	items := []tasks.Task{
		{ID: "T1", Name: `call "Ann", then Bob`, Priority: tasks.PriorityLow, AddedAt: t0},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV("work, misc", items, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][0] != "work, misc" {
		t.Fatalf("list key mangled: %q", records[1][0])
	}
	if records[1][2] != `call "Ann", then Bob` {
		t.Fatalf("task name mangled: %q", records[1][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON("2024-01-01", sampleTasks(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.List != "2024-01-01" {
		t.Fatalf("list = %q", result.List)
	}
	if result.Count != 3 || len(result.Tasks) != 3 {
		t.Fatalf("count = %d, tasks = %d, want 3", result.Count, len(result.Tasks))
	}
	if result.Completed != 1 {
		t.Fatalf("completed = %d, want 1", result.Completed)
	}

	first := result.Tasks[0]
	if first.ID != "T1" || first.Name != "Write report" || first.Priority != "High" || !first.Completed {
		t.Fatalf("unexpected first task: %+v", first)
	}
	if first.AddedAt != "2024-01-01T09:00:00Z" {
		t.Fatalf("added_at = %q", first.AddedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON("empty", nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"tasks": []`) {
		t.Fatalf("empty export should carry an empty tasks array:\n%s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON("l", nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONValidTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON("l", sampleTasks(), path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
	for _, task := range result.Tasks {
		if _, err := time.Parse(time.RFC3339, task.AddedAt); err != nil {
			t.Fatalf("added_at is not valid RFC3339: %q", task.AddedAt)
		}
	}
}

// ============================================================
// PDF
// ============================================================

func TestToPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.pdf")

	if err := ToPDF("2024-01-01", sampleTasks(), path); err != nil {
		t.Fatalf("ToPDF: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestToPDFEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ToPDF("empty", nil, path); err != nil {
		t.Fatal(err)
	}
}

func TestToPDFBadPath(t *testing.T) {
	if err := ToPDF("l", nil, "/nonexistent/dir/file.pdf"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Write / FileName
// ============================================================

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, f := range Formats() {
		path := Path(dir, "2024-01-01", f, t0)
		if err := Write(f, "2024-01-01", sampleTasks(), path); err != nil {
			t.Fatalf("Write(%s): %v", f, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("Write(%s) did not create %s: %v", f, path, err)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.xml")
	if err := Write(Format("xml"), "l", nil, path); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		list   string
		format Format
		want   string
	}{
		{"2024-01-01", FormatCSV, "dayplan-2024-01-01-20240101-090000.csv"},
		{"work/home", FormatJSON, "dayplan-work_home-20240101-090000.json"},
		{" my list ", FormatPDF, "dayplan-my_list-20240101-090000.pdf"},
	}
	for _, tt := range tests {
		if got := FileName(tt.list, tt.format, t0); got != tt.want {
			t.Errorf("FileName(%q, %s) = %q, want %q", tt.list, tt.format, got, tt.want)
		}
	}
}
