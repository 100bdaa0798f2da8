//go:build mage

// Package main contains Mage build targets for prereqs developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects.
var projectDirs = []string{
	"catalog",
	"catalog/raw",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "prereqs"
	cmdPkg  = "./cmd/prereqs"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + gitVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests. go-sqlite3 needs cgo.
func Test() error {
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWithV(env, "go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

func gitVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

// storePath is the CLI's default course store.
const storePath = "catalog/prereqs.db"

// Stats prints non-blank Go lines per package, split into production and
// test code, followed by the course store's row counts when it exists.
func Stats() error {
	counts, err := goLinesByPackage(".")
	if err != nil {
		return err
	}
	pkgs := make([]string, 0, len(counts))
	for pkg := range counts {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var prod, test int
	fmt.Printf("%-24s %8s %8s\n", "package", "prod", "test")
	for _, pkg := range pkgs {
		c := counts[pkg]
		fmt.Printf("%-24s %8d %8d\n", pkg, c[0], c[1])
		prod += c[0]
		test += c[1]
	}
	fmt.Printf("%-24s %8d %8d\n", "total", prod, test)

	if _, err := os.Stat(storePath); err != nil {
		fmt.Printf("\nNo course store at %s; run catalog:ingest first.\n", storePath)
		return nil
	}
	mg.Deps(Build)
	fmt.Println()
	return sh.RunV(filepath.Join(binDir, binName), "show", "--stats")
}

// goLinesByPackage maps each directory holding Go files to its
// production and test line counts.
func goLinesByPackage(root string) (map[string][2]int, error) {
	counts := make(map[string][2]int)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(name) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		c := counts[filepath.Dir(path)]
		if strings.HasSuffix(name, "_test.go") {
			c[1] += n
		} else {
			c[0] += n
		}
		counts[filepath.Dir(path)] = c
		return nil
	})
	return counts, err
}
