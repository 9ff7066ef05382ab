package corpus

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questions/internal/apperrors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// TestLoader_Load tests that every regular file is read when no extensions are set
func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "python.md", "# Python\nGuido van Rossum created Python.")
	writeFile(t, dir, "cats.md", "Cats sleep.")
	writeFile(t, dir, "README", "no extension")
	writeFile(t, dir, ".hidden.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	c, err := NewLoader(nil, 2).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"README", "cats.md", "python.md"}, c.IDs())
	assert.Equal(t, "Cats sleep.", c["cats.md"])
}

// TestLoader_Extensions tests that a configured extension list filters entries
func TestLoader_Extensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "the cat sat")
	writeFile(t, dir, "B.TXT", "the cat ran fast")
	writeFile(t, dir, "notes.md", "ignored")

	c, err := NewLoader([]string{"txt"}, 2).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"B.TXT", "a.txt"}, c.IDs())
	assert.Equal(t, "the cat sat", c["a.txt"])
}

// TestLoader_HTML tests readable text extraction from HTML entries
func TestLoader_HTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page.html", `<html><head><title>Cats</title></head><body>
<article><p>Cats are small carnivorous mammals that have lived alongside people for thousands of years.</p>
<p>They sleep for most of the day and hunt at dusk.</p></article></body></html>`)

	c, err := NewLoader(nil, 1).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Contains(t, c, "page.html")
	assert.Contains(t, c["page.html"], "carnivorous mammals")
	assert.NotContains(t, c["page.html"], "<p>")
}

// TestLoader_MissingDir tests that an unreadable corpus location is a read error
func TestLoader_MissingDir(t *testing.T) {
	_, err := NewLoader(nil, 1).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, apperrors.ErrCorpusRead)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

// TestLoader_Empty tests that a directory without documents is rejected
func TestLoader_Empty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".hidden", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	_, err := NewLoader(nil, 1).Load(context.Background(), dir)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCollection)
}

// TestLoader_Canceled tests that a canceled context stops loading
func TestLoader_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(nil, 1).Load(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
