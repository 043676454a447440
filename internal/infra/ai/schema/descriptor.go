// Package schema holds the structured output contracts requested from the
// model and used to validate what it sends back.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
)

type Type string

const (
	Object  Type = "object"
	String  Type = "string"
	Number  Type = "number"
	Integer Type = "integer"
	Array   Type = "array"
	Boolean Type = "boolean"
)

// Node is one level of a descriptor tree.
type Node struct {
	Type        Type
	Description string
	Properties  map[string]*Node
	Order       []string // property order, also the order shown to the model
	Required    []string
	Items       *Node
	Enum        []string
	Nullable    bool
}

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Order = append([]string(nil), n.Order...)
	c.Required = append([]string(nil), n.Required...)
	c.Enum = append([]string(nil), n.Enum...)
	c.Items = n.Items.clone()
	if n.Properties != nil {
		c.Properties = make(map[string]*Node, len(n.Properties))
		for k, v := range n.Properties {
			c.Properties[k] = v.clone()
		}
	}
	return &c
}

func (n *Node) jsonSchema() map[string]any {
	out := map[string]any{}
	if n.Nullable {
		out["type"] = []string{string(n.Type), "null"}
	} else {
		out["type"] = string(n.Type)
	}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if len(n.Enum) > 0 {
		out["enum"] = n.Enum
	}
	if n.Items != nil {
		out["items"] = n.Items.jsonSchema()
	}
	if len(n.Properties) > 0 {
		props := make(map[string]any, len(n.Properties))
		for k, v := range n.Properties {
			props[k] = v.jsonSchema()
		}
		out["properties"] = props
	}
	if len(n.Required) > 0 {
		out["required"] = n.Required
	}
	return out
}

// Descriptor is an immutable, named output contract.
type Descriptor struct {
	name     string
	kind     tos.Kind
	root     *Node
	doc      []byte
	compiled *jsonschema.Schema
}

func newDescriptor(name string, kind tos.Kind, root *Node) *Descriptor {
	doc := root.jsonSchema()
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", name, err))
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://rdflg.schemas.local/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(string(raw))); err != nil {
		panic(fmt.Sprintf("schema %s load: %v", name, err))
	}
	compiled, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("schema %s compile: %v", name, err))
	}
	return &Descriptor{name: name, kind: kind, root: root, doc: raw, compiled: compiled}
}

func (d *Descriptor) Name() string   { return d.name }
func (d *Descriptor) Kind() tos.Kind { return d.kind }

// Root returns a deep copy of the descriptor tree.
func (d *Descriptor) Root() *Node { return d.root.clone() }

// Required lists the top-level required fields.
func (d *Descriptor) Required() []string {
	return append([]string(nil), d.root.Required...)
}

// MarshalJSON renders the descriptor as a JSON Schema document.
func (d *Descriptor) MarshalJSON() ([]byte, error) {
	return append([]byte(nil), d.doc...), nil
}

// Validate checks a decoded JSON value (as produced by encoding/json into an
// any) against the descriptor.
func (d *Descriptor) Validate(v any) error {
	err := d.compiled.Validate(v)
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", tos.ErrSchemaViolation, strings.Join(violations(err), "; "))
}

func violations(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}
