package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/typeorg/internal/model"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func createSampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "types/entities/user.ts", `export interface User {
  id: string;
  name: string;
}
`)
	writeTestFile(t, dir, "services/authService.ts", `export interface User {
  id: string;
  name: string;
}
`)
	return dir
}

// execRoot runs the CLI once. The command object is a package global, so
// these tests pass every flag explicitly and do not run in parallel.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunTextOutput(t *testing.T) {
	dir := createSampleProject(t)

	out, err := execRoot(t, "--format", "text", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "services/authService.ts")
	assert.Contains(t, out, "duplicate")
	assert.Contains(t, out, `"User"`)
	assert.Contains(t, out, "1 findings in 2 files")
}

func TestRunJSONOutput(t *testing.T) {
	dir := createSampleProject(t)

	out, err := execRoot(t, "--format", "json", dir)
	require.NoError(t, err)

	var result model.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, model.Duplicate, result.Diagnostics[0].Kind)
	assert.Equal(t, 2, result.FileCount)
}

func TestRunUnknownFormat(t *testing.T) {
	dir := createSampleProject(t)

	_, err := execRoot(t, "--format", "yaml", dir)
	assert.Error(t, err)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := execRoot(t, "--format", "text", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
