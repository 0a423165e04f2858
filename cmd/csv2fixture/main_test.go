package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ConvertsDirectory(t *testing.T) {
	csvDir, jsonDir := t.TempDir(), filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(filepath.Join(csvDir, "category.csv"), []byte("id,name,slug\n1,Film,film\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(csvDir, "notes.csv"), []byte("a\n1\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--csv-path", csvDir, "--json-path", jsonDir})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "skipped notes.csv")
	assert.Contains(t, out.String(), "wrote "+filepath.Join(jsonDir, "category.json"))
	assert.FileExists(t, filepath.Join(jsonDir, "category.json"))
}

func TestRootCmd_MissingDirectory(t *testing.T) {
	cmd := newRootCmd(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--csv-path", filepath.Join(t.TempDir(), "missing")})

	assert.Error(t, cmd.Execute())
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
