package fuzz

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var placeholderTokens = []string{"foo", "bar", "baz", "quix"}

const (
	placeholderPassword = "T0p$3cR3t"
	placeholderEmail    = "j.doe@example.com"
)

// Synthesizer produces plausible example values from parameter and schema
// nodes. It tolerates partially specified schemas: any absent branch falls
// through to the next interpretation.
type Synthesizer struct {
	rand *rand.Rand
}

// NewSynthesizer creates a synthesizer. seed 0 draws one from the clock,
// which is the historical non-reproducible behavior; any other value makes
// runs repeatable.
func NewSynthesizer(seed int64) *Synthesizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Synthesizer{rand: rand.New(rand.NewSource(seed))}
}

// ParameterValues maps each parameter object in params to a synthesized
// value keyed by the parameter's name.
func (s *Synthesizer) ParameterValues(params []map[string]interface{}) map[string]interface{} {
	values := make(map[string]interface{}, len(params))
	for _, param := range params {
		name, ok := param["name"].(string)
		if !ok {
			continue
		}
		values[name] = s.Value(param)
	}
	return values
}

// Value synthesizes a concrete value for a schema or parameter node. The
// interpretations are tried in order: explicit example, declared default,
// enum member, then type-directed synthesis.
func (s *Synthesizer) Value(node map[string]interface{}) interface{} {
	if node == nil {
		return s.placeholder()
	}
	if example, ok := node["example"]; ok {
		return example
	}

	// Parameter and media type objects carry their schema one level down;
	// bare schema nodes are their own schema.
	schema := node
	if wrapped, ok := node["schema"].(map[string]interface{}); ok {
		schema = wrapped
	}

	if def, ok := schema["default"]; ok {
		return def
	}
	if enum, ok := schema["enum"].([]interface{}); ok && len(enum) > 0 {
		return enum[s.rand.Intn(len(enum))]
	}

	switch schema["type"] {
	case "object":
		properties, _ := schema["properties"].(map[string]interface{})
		obj := make(map[string]interface{}, len(properties))
		for name, prop := range properties {
			propSchema, _ := prop.(map[string]interface{})
			obj[name] = s.Value(propSchema)
		}
		return obj
	case "array":
		items, _ := schema["items"].(map[string]interface{})
		return []interface{}{s.Value(items)}
	case "integer", "number":
		return s.rand.Intn(100) + 1
	case "boolean":
		return s.rand.Intn(2) == 1
	case "string":
		return s.stringValue(schema)
	default:
		return s.placeholder()
	}
}

func (s *Synthesizer) stringValue(schema map[string]interface{}) interface{} {
	switch schema["format"] {
	case "date":
		return s.randomTime().Format("2006-01-02")
	case "date-time":
		return s.randomTime().Format(time.RFC3339)
	case "password":
		return placeholderPassword
	case "email":
		return placeholderEmail
	case "uuid":
		return uuid.NewString()
	default:
		return s.placeholder()
	}
}

func (s *Synthesizer) placeholder() string {
	return placeholderTokens[s.rand.Intn(len(placeholderTokens))]
}

// randomTime picks a moment between 1900-01-01 and now.
func (s *Synthesizer) randomTime() time.Time {
	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	span := time.Now().UTC().Sub(start)
	return start.Add(time.Duration(s.rand.Int63n(int64(span))))
}
