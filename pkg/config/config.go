package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/textpatch/pkg/patch"
	"github.com/grovetools/textpatch/pkg/recipes"
	"gopkg.in/yaml.v3"
)

const ManifestFileName = "textpatch.yml"

// DefaultEncoding is the only encoding textpatch reads and writes.
const DefaultEncoding = "utf-8"

// ErrUnsupportedEncoding is returned by Resolve for any encoding other than UTF-8.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Manifest defines the patches to apply to a project tree.
type Manifest struct {
	Root     string        `yaml:"root,omitempty" json:"root,omitempty" jsonschema:"description=Base directory for relative targets; defaults to the manifest's directory"`
	Encoding string        `yaml:"encoding,omitempty" json:"encoding,omitempty" jsonschema:"enum=utf-8,default=utf-8"`
	Recipes  []string      `yaml:"recipes,omitempty" json:"recipes,omitempty" jsonschema:"description=Built-in recipes whose patches are included"`
	Patches  []patch.Patch `yaml:"patches" json:"patches"`

	path string
}

// Path returns the file the manifest was loaded from, if any.
func (m *Manifest) Path() string {
	return m.path
}

// Load attempts to load a textpatch.yml file from the given directory.
func Load(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, os.ErrNotExist
	}
	return LoadFile(manifestPath)
}

// LoadFile loads a manifest from an explicit path.
func LoadFile(manifestPath string) (*Manifest, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", manifestPath, err)
	}
	m.path = abs
	return &m, nil
}

// RootDir returns the absolute directory relative targets resolve against.
func (m *Manifest) RootDir() (string, error) {
	base := "."
	if m.path != "" {
		base = filepath.Dir(m.path)
	}

	root := m.Root
	switch {
	case root == "":
		root = base
	case !filepath.IsAbs(root):
		root = filepath.Join(base, root)
	}
	return filepath.Abs(root)
}

// Resolve expands recipes, resolves targets against the root directory and
// validates every patch. Manifest patches override recipe patches of the
// same name and keep the recipe's position.
func (m *Manifest) Resolve() ([]patch.Patch, error) {
	if err := checkEncoding(m.Encoding); err != nil {
		return nil, err
	}

	root, err := m.RootDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}

	var all []patch.Patch
	index := make(map[string]int)
	add := func(p patch.Patch) {
		if i, ok := index[p.Name]; ok {
			all[i] = p
			return
		}
		index[p.Name] = len(all)
		all = append(all, p)
	}

	for _, name := range m.Recipes {
		r, err := recipes.Get(name)
		if err != nil {
			return nil, err
		}
		for _, p := range r.Patches {
			add(p)
		}
	}

	seen := make(map[string]bool)
	for _, p := range m.Patches {
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: duplicate patch name %q", patch.ErrInvalidPatch, p.Name)
		}
		seen[p.Name] = true
		add(p)
	}

	for i := range all {
		if err := all[i].Validate(); err != nil {
			return nil, err
		}
		if !filepath.IsAbs(all[i].Target) {
			all[i].Target = filepath.Join(root, filepath.FromSlash(all[i].Target))
		}
	}
	return all, nil
}

// Select returns the patches named in names, in the order given.
// An empty names slice selects every patch.
func Select(all []patch.Patch, names []string) ([]patch.Patch, error) {
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]patch.Patch, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}

	out := make([]patch.Patch, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no patch named %q in manifest", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func checkEncoding(enc string) error {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8":
		return nil
	default:
		return fmt.Errorf("%w: %q (only %s is supported)", ErrUnsupportedEncoding, enc, DefaultEncoding)
	}
}
