package fuzz

import (
	"fmt"
	"sort"

	"github.com/oasprobe/oasprobe/pkg/openapi"
	"github.com/rs/zerolog/log"
)

// Task is a fully resolved request descriptor with exactly one field
// replaced by the injection payload; all other fields hold baseline values.
// Tasks are independent: executing one never depends on another's outcome.
type Task struct {
	Method     string
	Path       string
	PathParams map[string]interface{}
	Query      map[string]interface{}
	Headers    map[string]interface{}
	Body       map[string]interface{}
}

// InjectionPayload appends a single and a double quote to the string form of
// a baseline value, breaking naive SQL string concatenation in both quoting
// styles.
func InjectionPayload(value interface{}) string {
	return fmt.Sprintf("%v'\"", value)
}

// head, options and trace carry no interesting injection surface.
var excludedMethods = map[string]bool{
	"head":    true,
	"options": true,
	"trace":   true,
}

var mutatingMethods = map[string]bool{
	"post":  true,
	"put":   true,
	"patch": true,
}

// Generator enumerates one task per mutable field across every operation of
// the model. The task count is linear in the total field count.
type Generator struct {
	model openapi.Model
	synth *Synthesizer
}

func NewGenerator(model openapi.Model, synth *Synthesizer) *Generator {
	return &Generator{model: model, synth: synth}
}

// Tasks lazily yields the task stream. Order is deterministic for a given
// synthesizer seed: paths, methods and field names are all enumerated
// sorted. The channel is closed once every operation has been covered.
func (g *Generator) Tasks() <-chan Task {
	out := make(chan Task)
	go func() {
		defer close(out)
		for _, path := range g.model.Paths() {
			for _, method := range g.model.Operations(path) {
				if excludedMethods[method] {
					continue
				}
				g.generateOperation(out, path, method)
			}
		}
	}()
	return out
}

func (g *Generator) generateOperation(out chan<- Task, path, method string) {
	pathParams := g.synth.ParameterValues(g.model.ParametersIn(path, method, "path"))
	query := g.synth.ParameterValues(g.model.ParametersIn(path, method, "query"))
	headers := g.synth.ParameterValues(g.model.ParametersIn(path, method, "header"))

	var body map[string]interface{}
	if mutatingMethods[method] {
		body = g.baselineBody(path, method)
	}

	baseline := Task{
		Method:     method,
		Path:       path,
		PathParams: pathParams,
		Query:      query,
		Headers:    headers,
		Body:       body,
	}

	for _, name := range sortedFieldNames(pathParams) {
		task := baseline
		task.PathParams = mutateField(pathParams, name)
		out <- task
	}
	for _, name := range sortedFieldNames(headers) {
		task := baseline
		task.Headers = mutateField(headers, name)
		out <- task
	}
	for _, name := range sortedFieldNames(query) {
		task := baseline
		task.Query = mutateField(query, name)
		out <- task
	}
	for _, name := range sortedFieldNames(body) {
		task := baseline
		task.Body = mutateField(body, name)
		out <- task
	}
}

// baselineBody synthesizes the operation's JSON body. Operations without a
// usable JSON object body simply get no body-mutation tasks; their other
// field groups are still covered.
func (g *Generator) baselineBody(path, method string) map[string]interface{} {
	node := g.model.JSONBody(path, method)
	if node == nil {
		log.Debug().Str("path", path).Str("method", method).Msg("Operation declares no JSON request body")
		return nil
	}
	obj, ok := g.synth.Value(node).(map[string]interface{})
	if !ok {
		log.Debug().Str("path", path).Str("method", method).Msg("Request body does not synthesize to an object")
		return nil
	}
	return obj
}

// mutateField clones the group and replaces a single field with the
// injection payload. Untouched groups stay shared with the baseline; the
// engine treats tasks as read-only.
func mutateField(group map[string]interface{}, name string) map[string]interface{} {
	mutated := make(map[string]interface{}, len(group))
	for k, v := range group {
		mutated[k] = v
	}
	mutated[name] = InjectionPayload(group[name])
	return mutated
}

func sortedFieldNames(group map[string]interface{}) []string {
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
