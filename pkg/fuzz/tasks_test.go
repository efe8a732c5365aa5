package fuzz

import (
	"strings"
	"testing"

	"github.com/oasprobe/oasprobe/pkg/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectionPayload(t *testing.T) {
	assert.Equal(t, `42'"`, InjectionPayload(42))
	assert.Equal(t, `foo'"`, InjectionPayload("foo"))
	assert.Equal(t, `true'"`, InjectionPayload(true))
}

func collectTasks(t *testing.T, doc map[string]interface{}) []Task {
	t.Helper()
	model, err := openapi.ModelFor(doc, "https://example.com/openapi.json")
	require.NoError(t, err)

	generator := NewGenerator(model, NewSynthesizer(1))
	var tasks []Task
	for task := range generator.Tasks() {
		tasks = append(tasks, task)
	}
	return tasks
}

func TestGeneratorFieldCoverage(t *testing.T) {
	// 2 path params + 1 query param + 3 body fields = 6 tasks.
	doc := map[string]interface{}{
		"openapi": "3.0.0",
		"paths": map[string]interface{}{
			"/orgs/{org}/items/{id}": map[string]interface{}{
				"post": map[string]interface{}{
					"parameters": []interface{}{
						map[string]interface{}{"name": "org", "in": "path", "schema": map[string]interface{}{"type": "string"}},
						map[string]interface{}{"name": "id", "in": "path", "schema": map[string]interface{}{"type": "integer"}},
						map[string]interface{}{"name": "verbose", "in": "query", "schema": map[string]interface{}{"type": "boolean"}},
					},
					"requestBody": map[string]interface{}{
						"content": map[string]interface{}{
							"application/json": map[string]interface{}{
								"schema": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"name":  map[string]interface{}{"type": "string"},
										"price": map[string]interface{}{"type": "number"},
										"tags": map[string]interface{}{
											"type":  "array",
											"items": map[string]interface{}{"type": "string"},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	tasks := collectTasks(t, doc)
	require.Len(t, tasks, 6)

	for _, task := range tasks {
		mutated := 0
		for _, value := range task.PathParams {
			if isInjected(value) {
				mutated++
			}
		}
		for _, value := range task.Query {
			if isInjected(value) {
				mutated++
			}
		}
		for _, value := range task.Headers {
			if isInjected(value) {
				mutated++
			}
		}
		for _, value := range task.Body {
			if isInjected(value) {
				mutated++
			}
		}
		assert.Equal(t, 1, mutated, "each task differs from baseline in exactly one field")
	}
}

func isInjected(value interface{}) bool {
	s, ok := value.(string)
	return ok && strings.HasSuffix(s, `'"`)
}

func TestGeneratorSkipsExcludedMethods(t *testing.T) {
	doc := map[string]interface{}{
		"swagger": "2.0",
		"paths": map[string]interface{}{
			"/items": map[string]interface{}{
				"head":    map[string]interface{}{},
				"options": map[string]interface{}{},
				"trace":   map[string]interface{}{},
				"get": map[string]interface{}{
					"parameters": []interface{}{
						map[string]interface{}{"name": "q", "in": "query", "type": "string"},
					},
				},
			},
		},
	}

	tasks := collectTasks(t, doc)
	require.Len(t, tasks, 1)
	assert.Equal(t, "get", tasks[0].Method)
}

func TestGeneratorWithoutBodyStillMutatesOtherGroups(t *testing.T) {
	// A mutating operation without a JSON body gets no body tasks but its
	// query surface is still probed.
	doc := map[string]interface{}{
		"openapi": "3.0.0",
		"paths": map[string]interface{}{
			"/actions": map[string]interface{}{
				"post": map[string]interface{}{
					"parameters": []interface{}{
						map[string]interface{}{"name": "dry_run", "in": "query", "schema": map[string]interface{}{"type": "boolean"}},
					},
				},
			},
		},
	}

	tasks := collectTasks(t, doc)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].Body)
	assert.True(t, isInjected(tasks[0].Query["dry_run"]))
}

func TestGeneratorBodyOnlyForMutatingMethods(t *testing.T) {
	doc := map[string]interface{}{
		"swagger": "2.0",
		"paths": map[string]interface{}{
			"/items": map[string]interface{}{
				"delete": map[string]interface{}{
					"parameters": []interface{}{
						map[string]interface{}{
							"name": "payload",
							"in":   "body",
							"schema": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"reason": map[string]interface{}{"type": "string"},
								},
							},
						},
						map[string]interface{}{"name": "id", "in": "path", "type": "integer"},
					},
				},
			},
		},
	}

	tasks := collectTasks(t, doc)
	require.Len(t, tasks, 1)
	assert.Nil(t, tasks[0].Body)
	assert.True(t, isInjected(tasks[0].PathParams["id"]))
}

func TestGeneratorBaselinePreserved(t *testing.T) {
	doc := map[string]interface{}{
		"swagger": "2.0",
		"paths": map[string]interface{}{
			"/items/{id}": map[string]interface{}{
				"get": map[string]interface{}{
					"parameters": []interface{}{
						map[string]interface{}{"name": "id", "in": "path", "default": float64(5)},
						map[string]interface{}{"name": "limit", "in": "query", "default": float64(10)},
					},
				},
			},
		},
	}

	tasks := collectTasks(t, doc)
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		if isInjected(task.PathParams["id"]) {
			assert.Equal(t, `5'"`, task.PathParams["id"])
			assert.Equal(t, float64(10), task.Query["limit"])
		} else {
			assert.Equal(t, float64(5), task.PathParams["id"])
			assert.Equal(t, `10'"`, task.Query["limit"])
		}
	}
}
