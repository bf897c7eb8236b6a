// Package ioload reads document collections from tab-separated and
// JSON-lines input files. Document text is column 2 when present,
// column 1 otherwise; extra columns are tolerated; empty rows are
// skipped.
package ioload

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// LoadTSV reads one document per row from r, tab-separated. A row with
// two or more columns contributes its second column as the document
// text; a single-column row contributes its only column; extra columns
// beyond the second are ignored. Blank rows (after trimming) are
// skipped.
func LoadTSV(r io.Reader) ([]string, error) {
	var docs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		var text string
		if len(cols) >= 2 {
			text = cols[1]
		} else {
			text = cols[0]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioload: reading tsv: %w", err)
	}
	return docs, nil
}

// LoadJSONL reads one document per line from r, each line a JSON object.
// The document text is read from the "text" field if present, else
// "content", else "document". Lines that are blank or fail to parse as
// JSON objects are skipped.
func LoadJSONL(r io.Reader) ([]string, error) {
	var docs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			continue
		}

		result := gjson.Parse(line)
		text := firstPresent(result, "text", "content", "document")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		docs = append(docs, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ioload: reading jsonl: %w", err)
	}
	return docs, nil
}

func firstPresent(result gjson.Result, fields ...string) string {
	for _, f := range fields {
		if v := result.Get(f); v.Exists() {
			return v.String()
		}
	}
	return ""
}
