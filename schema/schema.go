package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gear6io/floe/pkg/errors"
)

// Field is one top-level column of a schema. IDs are stable across schema
// evolution and identify the column independent of its position.
type Field struct {
	ID       int
	Name     string
	Type     Type
	Required bool
}

// Leaf is one addressable column of a schema, flattened by dotted path.
// Nested struct fields appear as "parent.child"; list and map columns are
// leaves themselves (their contents are not name-addressable).
type Leaf struct {
	ID       int
	Path     string
	Type     Type
	Required bool
}

// Schema is an immutable, indexed set of fields. Lookup by ID and by dotted
// path is built once at construction.
type Schema struct {
	fields []Field
	byID   map[int]Leaf
	byPath map[string]Leaf
	leaves []Leaf
}

// NewSchema builds a schema from fields, validating IDs, names and types.
// All fields, including nested struct fields, must carry positive, unique
// IDs; use AssignFreshIDs for definitions parsed without them.
func NewSchema(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, errors.New(ErrEmptySchema, "schema must have at least one field", nil)
	}

	s := &Schema{
		fields: append([]Field(nil), fields...),
		byID:   make(map[int]Leaf),
		byPath: make(map[string]Leaf),
	}

	topNames := make(map[string]bool)
	for _, f := range s.fields {
		if topNames[f.Name] {
			return nil, errors.Newf(ErrDuplicateName, "duplicate field name '%s'", f.Name)
		}
		topNames[f.Name] = true

		if err := s.index("", StructField(f)); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// MustNewSchema builds a schema or panics; intended for tests and fixtures.
func MustNewSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) index(prefix string, f StructField) error {
	if f.Name == "" {
		return errors.New(ErrEmptyFieldName, "field name cannot be empty", nil)
	}
	if f.ID <= 0 {
		return errors.Newf(ErrInvalidFieldID, "field '%s' must have a positive id, got %d", f.Name, f.ID)
	}
	if f.Type == nil {
		return errors.Newf(ErrInvalidType, "field '%s' has no type", f.Name)
	}
	if err := f.Type.Validate(); err != nil {
		return errors.New(ErrInvalidType, fmt.Sprintf("invalid type for field '%s'", f.Name), err)
	}

	path := f.Name
	if prefix != "" {
		path = prefix + "." + f.Name
	}

	if _, exists := s.byID[f.ID]; exists {
		return errors.Newf(ErrDuplicateFieldID, "duplicate field id %d at '%s'", f.ID, path)
	}

	leaf := Leaf{ID: f.ID, Path: path, Type: f.Type, Required: f.Required}
	s.byID[f.ID] = leaf
	s.byPath[path] = leaf

	if st, ok := f.Type.(*StructType); ok {
		// Struct parents are addressable but are not leaves; statistics
		// attach to their scalar descendants.
		childNames := make(map[string]bool)
		for _, child := range st.Fields {
			if childNames[child.Name] {
				return errors.Newf(ErrDuplicateName, "duplicate field name '%s' under '%s'", child.Name, path)
			}
			childNames[child.Name] = true

			if err := s.index(path, child); err != nil {
				return err
			}
		}
		return nil
	}

	s.leaves = append(s.leaves, leaf)
	return nil
}

// Fields returns the top-level fields in declaration order
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Len returns the number of top-level fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Leaves returns every statistics-bearing column in depth-first declaration
// order. Struct parents are excluded; list and map columns are included.
func (s *Schema) Leaves() []Leaf {
	return append([]Leaf(nil), s.leaves...)
}

// FieldByID looks up any addressable field by its stable ID
func (s *Schema) FieldByID(id int) (Leaf, bool) {
	leaf, ok := s.byID[id]
	return leaf, ok
}

// FieldByPath looks up any addressable field by dotted path, e.g. "record.id"
func (s *Schema) FieldByPath(path string) (Leaf, bool) {
	leaf, ok := s.byPath[path]
	return leaf, ok
}

// Paths returns every addressable dotted path, sorted
func (s *Schema) Paths() []string {
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// String renders the schema one field per line
func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("schema {\n")
	for _, f := range s.fields {
		writeField(&b, "  ", StructField(f))
	}
	b.WriteString("}")
	return b.String()
}

func writeField(b *strings.Builder, indent string, f StructField) {
	req := "optional"
	if f.Required {
		req = "required"
	}
	fmt.Fprintf(b, "%s%d: %s: %s %s\n", indent, f.ID, f.Name, req, f.Type.String())
	if st, ok := f.Type.(*StructType); ok {
		for _, child := range st.Fields {
			writeField(b, indent+"  ", child)
		}
	}
}

// AssignFreshIDs returns a copy of fields with IDs assigned 1..N in
// pre-order, replacing whatever IDs were present. Used for schema
// definitions parsed from strings, which carry no IDs.
func AssignFreshIDs(fields []Field) []Field {
	next := 1
	out := make([]Field, len(fields))
	for i, f := range fields {
		sf := assignFresh(StructField(f), &next)
		out[i] = Field(sf)
	}
	return out
}

func assignFresh(f StructField, next *int) StructField {
	f.ID = *next
	*next++

	if st, ok := f.Type.(*StructType); ok {
		children := make([]StructField, len(st.Fields))
		for i, child := range st.Fields {
			children[i] = assignFresh(child, next)
		}
		f.Type = &StructType{Fields: children}
	}
	return f
}
