// Package fixtures converts CSV seed data into JSON fixtures, one file per CSV.
package fixtures

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// ModelMapping maps a CSV file name to the model its rows describe.
var ModelMapping = map[string]string{
	"users.csv":       "reviews.user",
	"genre.csv":       "reviews.genre",
	"titles.csv":      "reviews.title",
	"comments.csv":    "reviews.comment",
	"review.csv":      "reviews.review",
	"genre_title.csv": "reviews.title.genre",
	"category.csv":    "reviews.category",
}

// Entry is one fixture object.
type Entry struct {
	Model  string `json:"model"`
	PK     int    `json:"pk"`
	Fields Fields `json:"fields"`
}

// Fields is a CSV row keyed by header, encoded in column order.
type Fields struct {
	keys   []string
	values []string
}

func (f Fields) Get(key string) (string, bool) {
	for i, k := range f.keys {
		if k == key {
			return f.values[i], true
		}
	}
	return "", false
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(k)
		if err != nil {
			return nil, err
		}
		value, err := marshalString(f.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalString(s string) ([]byte, error) {
	return json.MarshalWithOption(s, json.DisableHTMLEscape())
}

// Report lists what a conversion run did.
type Report struct {
	Converted []string // written fixture paths
	Skipped   []string // CSV files with no known model
}

// Convert writes a fixture for every mapped CSV file in csvDir into jsonDir.
// Unknown files are logged and skipped.
func Convert(csvDir, jsonDir string, logger *slog.Logger) (*Report, error) {
	entries, err := os.ReadDir(csvDir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	logger.Info("CSV files to convert", "count", len(files), "files", files)

	if err := os.MkdirAll(jsonDir, 0o755); err != nil {
		return nil, fmt.Errorf("create json dir: %w", err)
	}

	report := &Report{}
	for _, name := range files {
		model, ok := ModelMapping[name]
		if !ok {
			logger.Warn("No model known for CSV file", "file", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		out, rows, err := ConvertFile(filepath.Join(csvDir, name), jsonDir, model)
		if err != nil {
			return report, err
		}
		logger.Info("Fixture created", "fixture", out, "model", model, "rows", rows)
		report.Converted = append(report.Converted, out)
	}

	logger.Info("All CSV files converted", "converted", len(report.Converted), "skipped", len(report.Skipped))
	return report, nil
}

// ConvertFile turns one CSV file into <jsonDir>/<basename>.json and returns
// the fixture path and row count. Primary keys count from 1.
func ConvertFile(csvPath, jsonDir, model string) (string, int, error) {
	in, err := os.Open(csvPath)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", csvPath, err)
	}
	defer in.Close()

	entries, err := readEntries(in, model)
	if err != nil {
		return "", 0, fmt.Errorf("parse %s: %w", csvPath, err)
	}

	base, _, _ := strings.Cut(filepath.Base(csvPath), ".")
	out := filepath.Join(jsonDir, base+".json")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return "", 0, fmt.Errorf("encode %s: %w", out, err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", out, err)
	}
	return out, len(entries), nil
}

// ErrTooManyFields marks a row with more values than the header has columns.
var ErrTooManyFields = errors.New("row has more fields than the header")

func readEntries(r io.Reader, model string) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	entries := []Entry{}
	for pk := 1; ; pk++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		// short rows leave trailing fields empty, long ones would lose data
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w: got %d, header has %d", line, ErrTooManyFields, len(record), len(header))
		}

		fields := Fields{keys: header, values: make([]string, len(header))}
		copy(fields.values, record)
		entries = append(entries, Entry{Model: model, PK: pk, Fields: fields})
	}
	return entries, nil
}
