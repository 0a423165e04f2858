package fixtures

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type decodedEntry struct {
	Model  string            `json:"model"`
	PK     int               `json:"pk"`
	Fields map[string]string `json:"fields"`
}

func TestConvert(t *testing.T) {
	csvDir := t.TempDir()
	jsonDir := filepath.Join(t.TempDir(), "fixtures")

	writeFile(t, csvDir, "category.csv", "id,name,slug\n1,Фильм,movie\n2,Книга,book\n")
	writeFile(t, csvDir, "genre_title.csv", "id,title_id,genre_id\n1,1,1\n")
	writeFile(t, csvDir, "notes.csv", "a,b\n1,2\n")
	require.NoError(t, os.Mkdir(filepath.Join(csvDir, "nested"), 0o755))

	report, err := Convert(csvDir, jsonDir, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.csv"}, report.Skipped)
	assert.Len(t, report.Converted, 2)

	raw, err := os.ReadFile(filepath.Join(jsonDir, "category.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Фильм")
	assert.Contains(t, string(raw), "\n    {")

	var entries []decodedEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "reviews.category", entries[0].Model)
	assert.Equal(t, 1, entries[0].PK)
	assert.Equal(t, 2, entries[1].PK)
	assert.Equal(t, "book", entries[1].Fields["slug"])

	raw, err = os.ReadFile(filepath.Join(jsonDir, "genre_title.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "reviews.title.genre", entries[0].Model)

	_, err = os.Stat(filepath.Join(jsonDir, "notes.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertFile_KeepsColumnOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "titles.csv", "name,year,category\nHeat & Dust,1983,1\n")

	out, rows, err := ConvertFile(filepath.Join(dir, "titles.csv"), dir, "reviews.title")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	assert.Equal(t, filepath.Join(dir, "titles.json"), out)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Heat & Dust"`)
	assert.Regexp(t, `(?s)"name".*"year".*"category"`, string(raw))
}

func TestConvertFile_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "review.csv", "id,text,score\n")

	out, rows, err := ConvertFile(filepath.Join(dir, "review.csv"), dir, "reviews.review")
	require.NoError(t, err)
	assert.Zero(t, rows)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestConvertFile_ShortRowPadded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "genre.csv", "id,name,slug\n1,Drama\n")

	out, rows, err := ConvertFile(filepath.Join(dir, "genre.csv"), dir, "reviews.genre")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	var entries []decodedEntry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Drama", entries[0].Fields["name"])
	assert.Equal(t, "", entries[0].Fields["slug"])
}

func TestConvertFile_LongRowRejected(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "genre.csv", "id,name,slug\n1,Drama,drama\n2,Noir,noir,extra\n")

	_, _, err := ConvertFile(filepath.Join(dir, "genre.csv"), dir, "reviews.genre")
	require.ErrorIs(t, err, ErrTooManyFields)
	assert.Contains(t, err.Error(), "line 3")

	_, statErr := os.Stat(filepath.Join(dir, "genre.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvert_MissingDir(t *testing.T) {
	_, err := Convert(filepath.Join(t.TempDir(), "missing"), t.TempDir(), discardLogger())
	assert.Error(t, err)
}

func TestFields_Get(t *testing.T) {
	f := Fields{keys: []string{"a", "b"}, values: []string{"1", "2"}}
	v, ok := f.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok = f.Get("c")
	assert.False(t, ok)
}
