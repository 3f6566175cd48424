package perception

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// ToGenAISchema converts a JSON-schema style map (the shape the REST client
// sends verbatim) into the SDK's typed schema. Only the keywords Gemini's
// structured output understands are carried over.
func ToGenAISchema(raw map[string]interface{}) (*genai.Schema, error) {
	if len(raw) == 0 {
		return nil, ErrSchemaEmpty
	}

	s := &genai.Schema{}
	if t, ok := raw["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if d, ok := raw["description"].(string); ok {
		s.Description = d
	}

	enum, err := stringList(raw["enum"])
	if err != nil {
		return nil, fmt.Errorf("enum: %w", err)
	}
	s.Enum = enum

	required, err := stringList(raw["required"])
	if err != nil {
		return nil, fmt.Errorf("required: %w", err)
	}
	s.Required = required

	ordering, err := stringList(raw["propertyOrdering"])
	if err != nil {
		return nil, fmt.Errorf("propertyOrdering: %w", err)
	}
	s.PropertyOrdering = ordering

	if props, ok := raw["properties"].(map[string]interface{}); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child, ok := props[name].(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("property %q is not an object", name)
			}
			converted, err := ToGenAISchema(child)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			s.Properties[name] = converted
		}
		if len(s.PropertyOrdering) == 0 {
			s.PropertyOrdering = names
		}
	}

	if items, ok := raw["items"].(map[string]interface{}); ok {
		converted, err := ToGenAISchema(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		s.Items = converted
	}

	return s, nil
}

func stringList(v interface{}) ([]string, error) {
	switch typed := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), typed...), nil
	case []interface{}:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
}
