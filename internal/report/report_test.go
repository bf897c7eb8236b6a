package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReportSortsClustersBySmallestID(t *testing.T) {
	r := NewReport("run", 6, []int{2}, [][]int{{4, 5}, {0, 1}})
	if r.Clusters[0][0] != 0 || r.Clusters[1][0] != 4 {
		t.Errorf("expected clusters sorted by smallest ID, got %v", r.Clusters)
	}
}

func TestTextGeneratorFormatsOneClusterPerLine(t *testing.T) {
	r := NewReport("run", 4, nil, [][]int{{2, 0}, {3}})
	var buf bytes.Buffer
	if err := (&TextGenerator{}).Generate(r, &buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "0 2" {
		t.Errorf("expected first cluster sorted ascending as \"0 2\", got %q", lines[0])
	}
	if lines[1] != "3" {
		t.Errorf("expected singleton cluster line \"3\", got %q", lines[1])
	}
}

func TestJSONGeneratorProducesValidJSON(t *testing.T) {
	r := NewReport("run", 3, []int{1}, [][]int{{0, 2}})
	gen := &JSONGenerator{Indent: true}

	var buf bytes.Buffer
	if err := gen.Generate(r, &buf); err != nil {
		t.Fatal(err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected valid JSON output, got error: %v", err)
	}
	if decoded.TotalDocuments != 3 {
		t.Errorf("expected TotalDocuments 3, got %d", decoded.TotalDocuments)
	}
}

func TestManagerGenerateWritesFile(t *testing.T) {
	tmpDir := t.TempDir()
	r := NewReport("run", 2, nil, [][]int{{0, 1}})

	m := NewManager(tmpDir)
	path, err := m.Generate(r, "text")
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected report file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty report file")
	}
	if filepath.Ext(path) != ".txt" {
		t.Errorf("expected .txt extension, got %s", filepath.Ext(path))
	}
}

func TestManagerRejectsUnknownFormat(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.Generate(NewReport("run", 0, nil, nil), "xml"); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestManagerWriteToWriter(t *testing.T) {
	m := NewManager(t.TempDir())
	r := NewReport("run", 1, nil, [][]int{{0}})

	var buf bytes.Buffer
	if err := m.WriteToWriter(r, "text", &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "0\n" {
		t.Errorf("expected %q, got %q", "0\n", buf.String())
	}
}
