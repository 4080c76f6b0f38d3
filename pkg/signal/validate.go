package signal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	jsonschemav5 "github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks decoded payloads against per-kind JSON Schemas derived
// from Go structs.
type Validator struct {
	schemas map[Kind]*jsonschemav5.Schema
}

// NewValidator compiles one schema per entry of shapes.
func NewValidator(shapes map[Kind]any) (*Validator, error) {
	v := &Validator{schemas: make(map[Kind]*jsonschemav5.Schema, len(shapes))}
	for kind, shape := range shapes {
		raw, err := schemaFor(shape)
		if err != nil {
			return nil, fmt.Errorf("signal: schema for %s: %w", kind, err)
		}
		compiler := jsonschemav5.NewCompiler()
		id := fmt.Sprintf("schema://signal/%s", kind)
		if err := compiler.AddResource(id, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("signal: add schema for %s: %w", kind, err)
		}
		compiled, err := compiler.Compile(id)
		if err != nil {
			return nil, fmt.Errorf("signal: compile schema for %s: %w", kind, err)
		}
		v.schemas[kind] = compiled
	}
	return v, nil
}

// MustNewValidator is like NewValidator but panics on error.
func MustNewValidator(shapes map[Kind]any) *Validator {
	v, err := NewValidator(shapes)
	if err != nil {
		panic(err)
	}
	return v
}

func schemaFor(shape any) ([]byte, error) {
	if shape == nil {
		return nil, fmt.Errorf("shape is nil")
	}
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		Anonymous:                  true,
	}
	return json.Marshal(reflector.Reflect(shape))
}

// Validate checks the data of a successful signal. Kinds without a schema
// pass.
func (v *Validator) Validate(sig *Signal) error {
	if sig == nil {
		return fmt.Errorf("signal: nothing to validate")
	}
	if sig.Failed() {
		return fmt.Errorf("signal: %s did not parse: %s", sig.Kind, sig.Error)
	}
	schema, ok := v.schemas[sig.Kind]
	if !ok {
		return nil
	}
	if err := schema.Validate(sig.Data); err != nil {
		return fmt.Errorf("signal: %s payload invalid: %w", sig.Kind, err)
	}
	return nil
}
