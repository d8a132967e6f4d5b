package metadata

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// schemaFile is the YAML document shape of a metadata schema file:
//
//	entities:
//	  - name: Order
//	    table: orders
//	    columns:
//	      - name: Id
//	      - name: CustomerId
//	    relationships:
//	      - name: Customer
//	        target: Customer
//	        cardinality: many-to-one
//	        foreignKey: CustomerId
//	        references: Id
type schemaFile struct {
	Entities []*Entity `yaml:"entities"`
}

// Parse builds a Registry from a YAML schema document.
func Parse(data []byte) (*Registry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	for _, e := range file.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("parsing schema: entity without a name")
		}
		for _, rel := range e.Relationships {
			switch rel.Cardinality {
			case OneToOne, OneToMany, ManyToOne, ManyToMany:
			default:
				return nil, fmt.Errorf("parsing schema: entity %q relationship %q has unknown cardinality %q",
					e.Name, rel.Name, rel.Cardinality)
			}
		}
	}
	return NewRegistry(file.Entities...), nil
}

// LoadFile reads and parses a schema file from the given filesystem.
func LoadFile(fs afero.Fs, path string) (*Registry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	return Parse(data)
}
