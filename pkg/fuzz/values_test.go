package fuzz

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueExampleWinsOverEverything(t *testing.T) {
	synth := NewSynthesizer(1)
	value := synth.Value(map[string]interface{}{
		"example": "exact",
		"schema": map[string]interface{}{
			"default": "not this",
			"type":    "string",
		},
	})
	assert.Equal(t, "exact", value)
}

func TestValueDefaultBeatsEnumAndType(t *testing.T) {
	synth := NewSynthesizer(1)
	value := synth.Value(map[string]interface{}{
		"default": float64(7),
		"enum":    []interface{}{"a", "b"},
		"type":    "string",
	})
	assert.Equal(t, float64(7), value)
}

func TestValueEnumPick(t *testing.T) {
	synth := NewSynthesizer(1)
	value := synth.Value(map[string]interface{}{
		"enum": []interface{}{"red", "green", "blue"},
	})
	assert.Contains(t, []interface{}{"red", "green", "blue"}, value)
}

func TestValueTypeDirected(t *testing.T) {
	synth := NewSynthesizer(1)

	number := synth.Value(map[string]interface{}{"type": "integer"})
	n, ok := number.(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 100)

	boolean := synth.Value(map[string]interface{}{"type": "boolean"})
	assert.IsType(t, false, boolean)

	str := synth.Value(map[string]interface{}{"type": "string"})
	assert.Contains(t, placeholderTokens, str)
}

func TestValueObjectAndArray(t *testing.T) {
	synth := NewSynthesizer(1)

	obj := synth.Value(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"age":  map[string]interface{}{"type": "integer"},
			"name": map[string]interface{}{"type": "string"},
		},
	})
	m, ok := obj.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, m, 2)
	assert.IsType(t, 0, m["age"])

	arr := synth.Value(map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "integer"},
	})
	items, ok := arr.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.IsType(t, 0, items[0])
}

func TestValueStringFormats(t *testing.T) {
	synth := NewSynthesizer(1)

	date := synth.Value(map[string]interface{}{"type": "string", "format": "date"})
	_, err := time.Parse("2006-01-02", date.(string))
	assert.NoError(t, err)

	dateTime := synth.Value(map[string]interface{}{"type": "string", "format": "date-time"})
	_, err = time.Parse(time.RFC3339, dateTime.(string))
	assert.NoError(t, err)

	assert.Equal(t, placeholderPassword, synth.Value(map[string]interface{}{"type": "string", "format": "password"}))
	assert.Equal(t, placeholderEmail, synth.Value(map[string]interface{}{"type": "string", "format": "email"}))

	id := synth.Value(map[string]interface{}{"type": "string", "format": "uuid"})
	_, err = uuid.Parse(id.(string))
	assert.NoError(t, err)
}

func TestValueToleratesSparseSchemas(t *testing.T) {
	synth := NewSynthesizer(1)

	// No type, no format: generic placeholder.
	assert.Contains(t, placeholderTokens, synth.Value(map[string]interface{}{}))
	assert.Contains(t, placeholderTokens, synth.Value(nil))

	// Object without properties, array without items.
	assert.Equal(t, map[string]interface{}{}, synth.Value(map[string]interface{}{"type": "object"}))
	arr := synth.Value(map[string]interface{}{"type": "array"}).([]interface{})
	require.Len(t, arr, 1)
	assert.Contains(t, placeholderTokens, arr[0])
}

func TestParameterValues(t *testing.T) {
	synth := NewSynthesizer(1)
	values := synth.ParameterValues([]map[string]interface{}{
		{"name": "id", "in": "path", "type": "integer"},
		{"name": "q", "in": "query", "schema": map[string]interface{}{"default": "search"}},
	})

	require.Len(t, values, 2)
	assert.IsType(t, 0, values["id"])
	assert.Equal(t, "search", values["q"])
}

func TestSeededSynthesisIsReproducible(t *testing.T) {
	schema := map[string]interface{}{"type": "string"}
	first := NewSynthesizer(42).Value(schema)
	second := NewSynthesizer(42).Value(schema)
	assert.Equal(t, first, second)
}
