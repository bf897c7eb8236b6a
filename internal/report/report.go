// Package report formats a dedup run's output: the cluster line format
// spec.md's external interface names, plus a structured JSON form for
// programmatic consumers.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Report is the result of a single dedup run, ready for formatting.
type Report struct {
	Title           string    `json:"title"`
	GeneratedAt     time.Time `json:"generated_at"`
	TotalDocuments  int       `json:"total_documents"`
	ExactDuplicates []int     `json:"exact_duplicates"`
	Clusters        [][]int   `json:"clusters"`
}

// NewReport builds a Report from a dedup run's raw output. Clusters are
// sorted by their smallest member ID, matching spec.md's "line order ...
// sorted by smallest ID" guidance.
func NewReport(title string, totalDocuments int, exactDuplicates []int, clusters [][]int) *Report {
	sorted := make([][]int, len(clusters))
	copy(sorted, clusters)
	smallest := func(c []int) int {
		m := c[0]
		for _, id := range c[1:] {
			if id < m {
				m = id
			}
		}
		return m
	}
	sort.Slice(sorted, func(i, j int) bool {
		return smallest(sorted[i]) < smallest(sorted[j])
	})

	return &Report{
		Title:           title,
		GeneratedAt:     time.Now(),
		TotalDocuments:  totalDocuments,
		ExactDuplicates: exactDuplicates,
		Clusters:        sorted,
	}
}

// Generator is the interface for report generators.
type Generator interface {
	Generate(report *Report, w io.Writer) error
	Extension() string
}

// TextGenerator emits one cluster per line, document IDs space-separated
// and sorted ascending within a line — the exact format spec.md §6 names.
type TextGenerator struct{}

// Generate writes report's clusters in line-per-cluster format.
func (g *TextGenerator) Generate(report *Report, w io.Writer) error {
	for _, cluster := range report.Clusters {
		ids := make([]int, len(cluster))
		copy(ids, cluster)
		sort.Ints(ids)

		for i, id := range ids {
			if i > 0 {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%d", id); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for text reports.
func (g *TextGenerator) Extension() string { return "txt" }

// Manager manages report generation across registered formats.
type Manager struct {
	generators map[string]Generator
	outputDir  string
}

// NewManager creates a Manager with the text and JSON generators
// registered by default.
func NewManager(outputDir string) *Manager {
	m := &Manager{
		generators: make(map[string]Generator),
		outputDir:  outputDir,
	}
	m.RegisterGenerator("text", &TextGenerator{})
	m.RegisterGenerator("json", &JSONGenerator{Indent: true})
	return m
}

// RegisterGenerator registers a generator under format.
func (m *Manager) RegisterGenerator(format string, gen Generator) {
	m.generators[format] = gen
}

// GetGenerator returns a generator by format.
func (m *Manager) GetGenerator(format string) (Generator, bool) {
	gen, ok := m.generators[format]
	return gen, ok
}

// Generate generates a report in the specified format, writing it to a
// timestamped file under the manager's output directory.
func (m *Manager) Generate(report *Report, format string) (string, error) {
	gen, ok := m.generators[format]
	if !ok {
		return "", fmt.Errorf("report: unknown format: %s", format)
	}

	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return "", fmt.Errorf("report: creating output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("dedup_%s.%s", timestamp, gen.Extension())
	path := filepath.Join(m.outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: creating file: %w", err)
	}
	defer f.Close()

	if err := gen.Generate(report, f); err != nil {
		return "", fmt.Errorf("report: generating: %w", err)
	}
	return path, nil
}

// WriteToWriter generates a report in the given format directly to w,
// without touching the filesystem.
func (m *Manager) WriteToWriter(report *Report, format string, w io.Writer) error {
	gen, ok := m.generators[format]
	if !ok {
		return fmt.Errorf("report: unknown format: %s", format)
	}
	return gen.Generate(report, w)
}
