package converter

import (
	_ "embed"
	"fmt"

	"go.yaml.in/yaml/v3"
)

//go:embed schema.yaml
var schemaYAML []byte

// Table names used in diagnostic contexts. The converter reports which table
// a problem came from through the "file" context key.
const (
	TableSpecimen    = "specimen"
	TableMeasurement = "measurement"
	TableMultimedia  = "multimedia"
)

// tableSchema lists the column sets recognized for one input table.
type tableSchema struct {
	// Required columns must all be present in the header row.
	Required []string `yaml:"required"`
	// Recognized columns are accepted; anything else draws a warning.
	Recognized []string `yaml:"recognized"`
}

// columnSchema maps table names to their recognized column sets.
type columnSchema struct {
	Tables map[string]tableSchema `yaml:"tables"`
}

// loadColumnSchema parses the embedded ABCD column schema document.
func loadColumnSchema() (*columnSchema, error) {
	var s columnSchema
	if err := yaml.Unmarshal(schemaYAML, &s); err != nil {
		return nil, fmt.Errorf("parse column schema: %w", err)
	}
	for _, name := range []string{TableSpecimen, TableMeasurement, TableMultimedia} {
		if _, ok := s.Tables[name]; !ok {
			return nil, fmt.Errorf("column schema missing table %q", name)
		}
	}
	return &s, nil
}

// recognizes reports whether column is a known term for this table.
func (t tableSchema) recognizes(column string) bool {
	for _, c := range t.Recognized {
		if c == column {
			return true
		}
	}
	return false
}
