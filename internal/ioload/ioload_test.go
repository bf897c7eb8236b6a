package ioload

import (
	"strings"
	"testing"
)

func TestLoadTSVTakesColumnTwoWhenPresent(t *testing.T) {
	input := "id1\tHello World\nid2\tAnother Document\n"
	docs, err := LoadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Hello World", "Another Document"}
	if len(docs) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(docs))
	}
	for i := range want {
		if docs[i] != want[i] {
			t.Errorf("doc %d = %q, want %q", i, docs[i], want[i])
		}
	}
}

func TestLoadTSVFallsBackToColumnOne(t *testing.T) {
	input := "Hello World\nAnother Document\n"
	docs, err := LoadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
}

func TestLoadTSVSkipsBlankRows(t *testing.T) {
	input := "id1\tHello World\n\nid2\tAnother Document\n"
	docs, err := LoadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Errorf("expected blank row skipped, got %d docs", len(docs))
	}
}

func TestLoadTSVToleratesExtraColumns(t *testing.T) {
	input := "id1\tHello World\textra\tmore\n"
	docs, err := LoadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0] != "Hello World" {
		t.Errorf("expected single doc %q, got %v", "Hello World", docs)
	}
}

func TestLoadJSONLReadsTextField(t *testing.T) {
	input := `{"text": "Hello World"}` + "\n" + `{"text": "Another Document"}` + "\n"
	docs, err := LoadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
}

func TestLoadJSONLFallsBackToContentAndDocument(t *testing.T) {
	input := `{"content": "from content field"}` + "\n" + `{"document": "from document field"}` + "\n"
	docs, err := LoadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0] != "from content field" || docs[1] != "from document field" {
		t.Errorf("unexpected docs: %v", docs)
	}
}

func TestLoadJSONLSkipsInvalidLines(t *testing.T) {
	input := "not json\n" + `{"text": "valid"}` + "\n"
	docs, err := LoadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0] != "valid" {
		t.Errorf("expected only the valid line, got %v", docs)
	}
}
