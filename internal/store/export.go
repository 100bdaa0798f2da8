// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prereqs/pkg/types"
)

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Courses  []types.Course `json:"courses" yaml:"courses"`
	Failures []Failure      `json:"failures,omitempty" yaml:"failures,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes the store to export.yaml next to the database and
// returns the file path. It supports the same filters as List; a zero
// MaxResults exports everything.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	doc, err := s.exportDoc(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the store to export.json next to the database and
// returns the file path. It supports the same filters as List.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	doc, err := s.exportDoc(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) exportDoc(ctx context.Context, opts ListOptions) (Export, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	courses, err := s.List(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	failures, err := s.Failures(ctx)
	if err != nil {
		return Export{}, err
	}
	return Export{Courses: courses, Failures: failures}, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(filepath.Dir(s.path), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
