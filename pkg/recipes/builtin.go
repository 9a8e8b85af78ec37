package recipes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

// ErrUnknownRecipe is returned by Get for names with no built-in recipe.
var ErrUnknownRecipe = errors.New("unknown recipe")

// List loads every built-in recipe, sorted by name.
func List() ([]Recipe, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded recipes: %w", err)
	}

	var out []Recipe
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		r, err := load(path.Join("builtin", entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the built-in recipe with the given name.
func Get(name string) (*Recipe, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownRecipe, name, strings.Join(names(all), ", "))
}

// Names returns the names of all built-in recipes.
func Names() ([]string, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	return names(all), nil
}

// Collection returns every built-in recipe keyed by name.
func Collection() (RecipeCollection, error) {
	all, err := List()
	if err != nil {
		return nil, err
	}
	c := make(RecipeCollection, len(all))
	for _, r := range all {
		c[r.Name] = r
	}
	return c, nil
}

func names(all []Recipe) []string {
	out := make([]string, 0, len(all))
	for _, r := range all {
		out = append(out, r.Name)
	}
	return out
}

func load(file string) (*Recipe, error) {
	data, err := builtinFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded file %s: %w", file, err)
	}

	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if r.Name == "" {
		r.Name = strings.TrimSuffix(path.Base(file), ".yml")
	}
	for _, p := range r.Patches {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("recipe %s: %w", r.Name, err)
		}
	}
	return &r, nil
}
