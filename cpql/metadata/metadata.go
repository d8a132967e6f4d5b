// Package metadata supplies entity-to-table mapping for SQL generation.
//
// Metadata is a static, declarative table built ahead of time, either from
// Go struct literals or from a schema file. The compiler depends only on
// the Provider lookup contract and never on runtime type introspection.
package metadata

import (
	"fmt"

	"github.com/go-openapi/inflect"
)

// SemanticError is returned when a query references an entity or property
// that the supplied metadata does not know. It is a distinct failure class
// from parser syntax errors: it depends on metadata, not grammar.
type SemanticError struct {
	Entity   string
	Property string
}

func (e *SemanticError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("unknown property %q on entity %q", e.Property, e.Entity)
	}
	return fmt.Sprintf("unknown entity %q", e.Entity)
}

// Cardinality describes the multiplicity of a relationship.
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToOne  Cardinality = "many-to-one"
	ManyToMany Cardinality = "many-to-many"
)

// Column maps an entity property to a table column.
type Column struct {
	Name     string `yaml:"name"`     // property name as written in queries
	Column   string `yaml:"column"`   // backing column; derived when empty
	Nullable bool   `yaml:"nullable"` //
}

// Relationship describes a navigable association to another entity. It is
// consumed by code generation collaborators, not by the SQL generator.
type Relationship struct {
	Name        string      `yaml:"name"`
	Target      string      `yaml:"target"`
	Cardinality Cardinality `yaml:"cardinality"`
	ForeignKey  string      `yaml:"foreignKey"`
	References  string      `yaml:"references"`
}

// Entity maps an entity name to a table and its properties to columns.
type Entity struct {
	Name          string         `yaml:"name"`
	Table         string         `yaml:"table"` // derived when empty
	Columns       []Column       `yaml:"columns"`
	Relationships []Relationship `yaml:"relationships"`
}

// Column resolves a property name to its column mapping.
func (e *Entity) Column(property string) (*Column, error) {
	for i := range e.Columns {
		if e.Columns[i].Name == property {
			return &e.Columns[i], nil
		}
	}
	return nil, &SemanticError{Entity: e.Name, Property: property}
}

// Relationship returns the relationship descriptor for a property, and
// whether the property denotes a navigable relationship at all.
func (e *Entity) Relationship(name string) (*Relationship, bool) {
	for i := range e.Relationships {
		if e.Relationships[i].Name == name {
			return &e.Relationships[i], true
		}
	}
	return nil, false
}

// Provider is the metadata lookup contract the compiler depends on.
// Implementations must be safe for concurrent reads.
type Provider interface {
	// Entity resolves an entity name to its metadata. Unknown names yield
	// a *SemanticError.
	Entity(name string) (*Entity, error)
}

// Registry is an in-memory Provider built from declarative entity
// definitions. It is immutable after construction.
type Registry struct {
	entities map[string]*Entity
}

// NewRegistry builds a Registry, filling in derived names: a missing
// table name becomes the pluralized snake_case entity name, a missing
// column name the snake_case property name.
func NewRegistry(entities ...*Entity) *Registry {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		applyDefaults(e)
		r.entities[e.Name] = e
	}
	return r
}

// Entity implements Provider.
func (r *Registry) Entity(name string) (*Entity, error) {
	if e, ok := r.entities[name]; ok {
		return e, nil
	}
	return nil, &SemanticError{Entity: name}
}

// Entities returns the registered entity names.
func (r *Registry) Entities() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	return names
}

func applyDefaults(e *Entity) {
	if e.Table == "" {
		e.Table = inflect.Pluralize(inflect.Underscore(e.Name))
	}
	for i := range e.Columns {
		if e.Columns[i].Column == "" {
			e.Columns[i].Column = inflect.Underscore(e.Columns[i].Name)
		}
	}
}
