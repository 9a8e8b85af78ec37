package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/textpatch/pkg/config"
	"github.com/grovetools/textpatch/pkg/recipes"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed all:templates
var templatesFS embed.FS

// InitOptions holds options for initializing a manifest.
type InitOptions struct {
	Recipes []string // built-in recipes to reference instead of the example patch
}

// Init writes a starter textpatch.yml into dir. It never overwrites an existing manifest.
func Init(dir string, opts InitOptions, logger *logrus.Logger) (string, error) {
	dest := filepath.Join(dir, config.ManifestFileName)
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("textpatch manifest already exists at %s", dest)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var content []byte
	if len(opts.Recipes) == 0 {
		var err error
		content, err = templatesFS.ReadFile("templates/textpatch.yml")
		if err != nil {
			return "", fmt.Errorf("failed to read embedded template: %w", err)
		}
	} else {
		for _, name := range opts.Recipes {
			if _, err := recipes.Get(name); err != nil {
				return "", err
			}
		}
		m := config.Manifest{
			Root:     ".",
			Encoding: config.DefaultEncoding,
			Recipes:  opts.Recipes,
		}
		data, err := yaml.Marshal(&m)
		if err != nil {
			return "", fmt.Errorf("failed to render manifest: %w", err)
		}
		header := fmt.Sprintf("# textpatch manifest using recipes: %s\n", strings.Join(opts.Recipes, ", "))
		content = append([]byte(header), data...)
	}

	logger.Debugf("Writing %s", dest)
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", dest, err)
	}
	return dest, nil
}
