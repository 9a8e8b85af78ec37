package recipes

import "github.com/grovetools/textpatch/pkg/patch"

// Recipe is a named set of patches shipped with the binary.
type Recipe struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Patches     []patch.Patch `yaml:"patches" json:"patches"`
}

// RecipeCollection is a map of recipe names to their definitions.
type RecipeCollection map[string]Recipe
