package catalogsource

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hoopsight/internal/featurespec"
)

// FileSource reads a YAML stat table:
//
//	stats:
//	  - name: dunks
//	    category: basic
//	    db_field: dunks
//	    supports_side_split: true
type FileSource struct {
	path string
}

// NewFileSource points a source at a YAML stat table.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

type catalogFile struct {
	Stats []featurespec.StatSpec `yaml:"stats"`
}

// Specs parses the file. Unknown YAML fields fail the parse so a
// misspelled restriction never silently widens a stat.
func (s *FileSource) Specs(_ context.Context) ([]featurespec.StatSpec, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var doc catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse stat table: %w", err)
	}
	return doc.Stats, nil
}
