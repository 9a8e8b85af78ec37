package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "patches: [\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestResolve_TargetsAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
root: app
patches:
  - name: one
    target: src/types/lore.ts
    marker: "a"
    replacement: "b"
  - name: two
    target: /abs/path.ts
    marker: "c"
    fallbacks: ["d", "e"]
    replacement: "f"
    mode: insert_after
`)

	m, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFileName), m.Path())

	patches, err := m.Resolve()
	require.NoError(t, err)
	require.Len(t, patches, 2)

	assert.Equal(t, filepath.Join(dir, "app", "src", "types", "lore.ts"), patches[0].Target)
	assert.Equal(t, "/abs/path.ts", patches[1].Target)
	assert.Equal(t, []string{"d", "e"}, patches[1].Fallbacks)
	assert.Equal(t, patch.ModeInsertAfter, patches[1].Mode)
}

func TestResolve_DefaultRootIsManifestDir(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
patches:
  - name: one
    target: README.md
    marker: "a"
    replacement: "b"
`)
	m, err := Load(dir)
	require.NoError(t, err)

	root, err := m.RootDir()
	require.NoError(t, err)
	assert.Equal(t, dir, root)

	patches, err := m.Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "README.md"), patches[0].Target)
}

func TestResolve_RecipesAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
recipes: [lore-skills]
patches:
  - name: update-lore-type
    target: types/lore.ts
    marker: "attacks?: string;"
    replacement: "attacks?: string[];"
  - name: extra
    target: extra.ts
    marker: "x"
    replacement: "y"
`)
	m, err := Load(dir)
	require.NoError(t, err)

	patches, err := m.Resolve()
	require.NoError(t, err)

	var names []string
	for _, p := range patches {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"fix-aria-label", "insert-preview-skills", "update-lore-type", "dice-error-message", "extra"}, names)

	overridden := patches[2]
	assert.Equal(t, filepath.Join(dir, "types", "lore.ts"), overridden.Target)
	assert.Equal(t, patch.Mode(""), overridden.Mode)
	assert.Equal(t, filepath.Join(dir, "src", "components", "GmEditorPage.tsx"), patches[0].Target)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		target   error
		contains string
	}{
		{
			name:     "unsupported encoding",
			manifest: "encoding: latin-1\npatches: []\n",
			target:   ErrUnsupportedEncoding,
		},
		{
			name: "duplicate names",
			manifest: `
patches:
  - {name: a, target: f, marker: x, replacement: y}
  - {name: a, target: g, marker: x, replacement: y}
`,
			target: patch.ErrInvalidPatch,
		},
		{
			name: "invalid patch",
			manifest: `
patches:
  - {name: a, target: f, marker: "", replacement: y}
`,
			target: patch.ErrInvalidPatch,
		},
		{
			name:     "unknown recipe",
			manifest: "recipes: [missing]\n",
			contains: "unknown recipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.manifest)
			m, err := Load(dir)
			require.NoError(t, err)

			_, err = m.Resolve()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestCheckEncoding(t *testing.T) {
	for _, enc := range []string{"", "utf-8", "UTF-8", "utf8", " utf-8 "} {
		assert.NoError(t, checkEncoding(enc), enc)
	}
	assert.ErrorIs(t, checkEncoding("utf-16"), ErrUnsupportedEncoding)
}

func TestSelect(t *testing.T) {
	all := []patch.Patch{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	got, err := Select(all, nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = Select(all, []string{"c", "a"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "a", got[1].Name)

	_, err = Select(all, []string{"z"})
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)

	s := string(data)
	for _, field := range []string{`"patches"`, `"marker"`, `"fallbacks"`, `"replacement"`, `"insert_after"`} {
		assert.True(t, strings.Contains(s, field), "schema should mention %s", field)
	}
}
