package workfront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("fixture"), 0o644))
	return path
}

func TestExpandPatternsLiteral(t *testing.T) {
	dir := t.TempDir()
	file := writeFixture(t, dir, "brief.pdf")

	files, err := expandPatterns([]string{file})
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestExpandPatternsLiteralMissing(t *testing.T) {
	_, err := expandPatterns([]string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
}

func TestExpandPatternsGlob(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.pdf")
	b := writeFixture(t, dir, "b.pdf")
	writeFixture(t, dir, "notes.txt")

	files, err := expandPatterns([]string{filepath.Join(dir, "*.pdf")})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestExpandPatternsDoubleStar(t *testing.T) {
	dir := t.TempDir()
	nested := writeFixture(t, dir, filepath.Join("assets", "final", "deck.pdf"))
	writeFixture(t, dir, filepath.Join("assets", "readme.md"))

	files, err := expandPatterns([]string{filepath.Join(dir, "assets", "**", "*.pdf")})
	require.NoError(t, err)
	assert.Equal(t, []string{nested}, files)
}

func TestExpandPatternsNoMatches(t *testing.T) {
	dir := t.TempDir()
	_, err := expandPatterns([]string{filepath.Join(dir, "*.pdf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "*.pdf")
}

func TestExpandPatternsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	file := writeFixture(t, dir, "one.pdf")

	files, err := expandPatterns([]string{file, filepath.Join(dir, "*.pdf")})
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}

func TestExpandPatternsEmpty(t *testing.T) {
	_, err := expandPatterns(nil)
	assert.Error(t, err)
}

func TestStaticPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"assets/**/*.pdf", "assets"},
		{"assets/final/*.pdf", "assets/final"},
		{"*.pdf", "."},
		{"a/b/c.pdf", "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, staticPrefix(tt.pattern))
		})
	}
}
