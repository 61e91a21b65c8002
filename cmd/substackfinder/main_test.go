package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDemoCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "demo", "--output-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "DEMO MODE")
	assert.Contains(t, out, "Total matches: 5 out of 6 profiles")

	jsonFiles, err := filepath.Glob(filepath.Join(dir, demoPrefix+"_*.json"))
	require.NoError(t, err)
	assert.Len(t, jsonFiles, 1)
	csvFiles, err := filepath.Glob(filepath.Join(dir, demoPrefix+"_*.csv"))
	require.NoError(t, err)
	assert.Len(t, csvFiles, 1)
}

func TestDemoCommandNoMatches(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "demo", "--keywords", "zzz-nothing", "--output-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "No matching profiles found.")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "substackfinder dev\n", out)
}

func TestRunFailsOnBadConfigBeforeNetwork(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keywords": []}`), 0o600))

	_, err := execute(t, "--config", path, "--urls", "https://a.substack.com")
	assert.Error(t, err)

	_, err = execute(t, "--config", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRunMissingURLsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keywords": ["ai"]}`), 0o600))

	_, err := execute(t, "--config", path, "--urls-file", filepath.Join(dir, "nope.txt"))
	assert.Error(t, err)
}

func TestReadURLs(t *testing.T) {
	in := "https://a.substack.com\n\n  # comment\n  https://every.to  \n"
	got, err := readURLs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.substack.com", "https://every.to"}, got)
}

func TestExplicitURLs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(file, []byte("https://b.substack.com\n"), 0o600))

	got, err := explicitURLs(&rootOptions{urls: []string{" https://a.substack.com ", ""}, urlsFile: file})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.substack.com", "https://b.substack.com"}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
}
