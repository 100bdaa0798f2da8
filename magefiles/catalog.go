//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets that run the CLI against the local course store.
type Catalog mg.Namespace

// Ingest loads a scraped catalog CSV into catalog/prereqs.db.
func (Catalog) Ingest(csvPath string) error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "ingest", csvPath)
}

// Failures lists courses whose prerequisites did not parse.
func (Catalog) Failures() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "show", "--failures")
}

// Export writes catalog/export.yaml and catalog/export.json.
func (Catalog) Export() error {
	mg.Deps(Build)
	bin := filepath.Join(binDir, binName)
	for _, format := range []string{"yaml", "json"} {
		if err := sh.RunV(bin, "export", "--format", format); err != nil {
			return fmt.Errorf("exporting %s: %w", format, err)
		}
	}
	return nil
}

// Serve starts the HTTP API on :8080.
func (Catalog) Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve")
}
