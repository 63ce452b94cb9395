package agecheck

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSchemaMismatch is returned when a set of inputs does not match the
// fields declared by the circuit schema.
var ErrSchemaMismatch = errors.New("inputs do not match the circuit schema")

// Visibility of a circuit input.
type Visibility string

const (
	Secret Visibility = "secret"
	Public Visibility = "public"
)

// Field is an input declared by the circuit.
type Field struct {
	Name        string     `json:"name"`
	Visibility  Visibility `json:"visibility"`
	Description string     `json:"description,omitempty"`
}

// Schema describes the inputs a circuit expects. It is served to clients so
// they know which values are disclosed with the proof.
type Schema struct {
	ID      string  `json:"id"`
	Version string  `json:"version"`
	Fields  []Field `json:"fields"`

	index map[string]Field
}

//go:embed schema.json
var schemaJSON []byte

// DefaultSchema is the schema of AgeCircuit.
var DefaultSchema = mustParseSchema(schemaJSON)

// ParseSchema decodes and validates a json schema. Fields without visibility
// are secret.
func ParseSchema(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if s.ID == "" {
		return nil, errors.New("schema must declare an id")
	}
	if len(s.Fields) == 0 {
		return nil, errors.New("schema must declare at least one field")
	}
	s.index = make(map[string]Field, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return nil, errors.New("schema field name cannot be empty")
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field %q in schema", f.Name)
		}
		switch f.Visibility {
		case "":
			f.Visibility = Secret
		case Secret, Public:
		default:
			return nil, fmt.Errorf("invalid visibility %q for field %q", f.Visibility, f.Name)
		}
		s.Fields[i] = f
		s.index[f.Name] = f
	}
	return s, nil
}

func mustParseSchema(data []byte) *Schema {
	s, err := ParseSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Match checks that the inputs provide exactly the declared fields: every
// field present and no unknown ones.
func (s *Schema) Match(inputs map[string]int64) error {
	var missing, unknown []string
	for _, f := range s.Fields {
		if _, ok := inputs[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	for name := range inputs {
		if _, ok := s.index[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(missing) == 0 && len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	var details []string
	if len(missing) > 0 {
		details = append(details, "missing "+strings.Join(missing, ","))
	}
	if len(unknown) > 0 {
		details = append(details, "unknown "+strings.Join(unknown, ","))
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(details, "; "))
}

// FieldNames returns the names of the fields with the visibility provided,
// in declaration order.
func (s *Schema) FieldNames(v Visibility) []string {
	names := []string{}
	for _, f := range s.Fields {
		if f.Visibility == v {
			names = append(names, f.Name)
		}
	}
	return names
}
