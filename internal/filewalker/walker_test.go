package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("gettext('x');"), 0o644))
	}
}

func paths(entries []FileEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestWalkDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"app.js",
		"components/View.jsx",
		"lib/esm.mjs",
		"lib/common.cjs",
		"lib/types.ts",
		"README.md",
		"node_modules/dep/index.js",
		".cache/tmp.js",
	)

	entries, err := NewWalker().Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "app.js"),
		filepath.Join(root, "components", "View.jsx"),
		filepath.Join(root, "lib", "common.cjs"),
		filepath.Join(root, "lib", "esm.mjs"),
	}, paths(entries))
	assert.Equal(t, ".jsx", entries[1].Ext)
}

func TestWalkExplicitFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "template.html", "b.js", "a.js")

	html := filepath.Join(root, "template.html")
	b := filepath.Join(root, "b.js")

	entries, err := NewWalker().Walk(html, b, root)
	require.NoError(t, err)

	// explicit files come first, in argument order, and are not repeated
	assert.Equal(t, []string{html, b, filepath.Join(root, "a.js")}, paths(entries))
}

func TestWalkMissingPath(t *testing.T) {
	_, err := NewWalker().Walk(filepath.Join(t.TempDir(), "missing.js"))
	require.Error(t, err)
}
