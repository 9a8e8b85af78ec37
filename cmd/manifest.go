package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/textpatch/pkg/config"
	"github.com/grovetools/textpatch/pkg/patch"
)

// loadManifest loads the manifest named by --config, or textpatch.yml in the
// working directory, and applies the --root override.
func loadManifest() (*config.Manifest, error) {
	var (
		m   *config.Manifest
		err error
	)

	if configPath != "" {
		m, err = config.LoadFile(configPath)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", cwdErr)
		}
		m, err = config.Load(cwd)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s found in %s (run 'textpatch init' or pass --config)", config.ManifestFileName, cwd)
		}
	}
	if err != nil {
		return nil, err
	}

	if rootDir != "" {
		abs, err := filepath.Abs(rootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve --root: %w", err)
		}
		m.Root = abs
	}
	return m, nil
}

// loadPatches resolves the manifest and selects the named patches.
func loadPatches(names []string) ([]patch.Patch, error) {
	m, err := loadManifest()
	if err != nil {
		return nil, err
	}

	all, err := m.Resolve()
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", m.Path(), err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("manifest %s defines no patches", m.Path())
	}
	return config.Select(all, names)
}
