package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry maps issuers to their compiled schemas, preserving registration
// order for stable sheet ordering.
type Registry struct {
	schemas map[Issuer]*Schema
	order   []Issuer
}

// NewRegistry compiles and registers the given schemas
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[Issuer]*Schema)}
	if err := r.Merge(schemas...); err != nil {
		return nil, err
	}
	return r, nil
}

// Default returns a registry with the built-in HPCL, BPCL, IOCL and RIL
// schemas. The built-in tables are static, so a compile failure is a
// programming error.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(fmt.Sprintf("built-in schemas are invalid: %v", err))
	}
	return r
}

// Merge compiles the given schemas and adds them, replacing any schema already
// registered for the same issuer. Nothing is registered if any schema fails.
func (r *Registry) Merge(schemas ...*Schema) error {
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if err := s.Compile(); err != nil {
			return err
		}
	}
	for _, s := range schemas {
		if s == nil {
			continue
		}
		if _, exists := r.schemas[s.Issuer]; !exists {
			r.order = append(r.order, s.Issuer)
		}
		r.schemas[s.Issuer] = s
	}
	return nil
}

// Lookup returns the schema for an issuer
func (r *Registry) Lookup(issuer Issuer) (*Schema, error) {
	s, ok := r.schemas[issuer]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIssuer, issuer)
	}
	return s, nil
}

// Issuers returns registered issuers in registration order
func (r *Registry) Issuers() []Issuer {
	out := make([]Issuer, len(r.order))
	copy(out, r.order)
	return out
}

// ParseIssuer resolves a user-supplied issuer name case-insensitively
func (r *Registry) ParseIssuer(name string) (Issuer, error) {
	name = strings.TrimSpace(name)
	for _, iss := range r.order {
		if strings.EqualFold(string(iss), name) {
			return iss, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIssuer, name)
}

// schemaFile is the on-disk layout of a schema override file
type schemaFile struct {
	Schemas []*Schema `yaml:"schemas"`
}

// LoadFile reads schemas from a YAML file. The schemas are returned
// uncompiled; pass them to Registry.Merge.
func LoadFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse decodes schemas from YAML
func Parse(data []byte) ([]*Schema, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	if len(file.Schemas) == 0 {
		return nil, fmt.Errorf("schema file defines no schemas")
	}
	return file.Schemas, nil
}
