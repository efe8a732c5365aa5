package openapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dereferencer expands every $ref in a specification document into the node
// it points to, following cross-document references through the loader.
type Dereferencer struct {
	schemaURL string
	loader    *Loader
}

func NewDereferencer(schemaURL string, loader *Loader) *Dereferencer {
	return &Dereferencer{schemaURL: schemaURL, loader: loader}
}

// Dereference loads the root document and returns a copy with every $ref
// node replaced by its fully expanded target. The result contains no $ref
// keys. A reference nested inside its own expansion fails with
// CircularReferenceError.
func (d *Dereferencer) Dereference() (interface{}, error) {
	doc, err := d.loader.Load(d.schemaURL)
	if err != nil {
		return nil, err
	}
	return d.dereference(doc, nil)
}

// dereference walks the tree depth-first. The stack holds the chain of
// reference strings currently being expanded; the same reference may appear
// many times in the output as long as it never contains itself.
func (d *Dereferencer) dereference(node interface{}, stack []string) (interface{}, error) {
	switch n := node.(type) {
	case map[string]interface{}:
		if rawRef, ok := n["$ref"]; ok {
			ref, ok := rawRef.(string)
			if !ok {
				return nil, &DecodeError{
					URL: d.schemaURL,
					Err: fmt.Errorf("$ref value is not a string: %v", rawRef),
				}
			}
			for _, active := range stack {
				if active == ref {
					log.Debug().Strs("stack", stack).Str("ref", ref).Msg("Reference cycle")
					return nil, &CircularReferenceError{Ref: ref}
				}
			}
			target, err := d.resolveReference(ref)
			if err != nil {
				return nil, err
			}
			// The target wholly replaces the node; sibling keys are dropped.
			return d.dereference(target, append(stack, ref))
		}

		out := make(map[string]interface{}, len(n))
		for k, v := range n {
			dv, err := d.dereference(v, stack)
			if err != nil {
				return nil, err
			}
			out[k] = dv
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, v := range n {
			dv, err := d.dereference(v, stack)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	default:
		return node, nil
	}
}

// resolveReference splits a reference into its URL and JSON-pointer parts,
// loads the referenced document (relative to the root schema URL) and walks
// the pointer into it.
func (d *Dereferencer) resolveReference(ref string) (interface{}, error) {
	urlPart, pointer, _ := strings.Cut(ref, "#")

	docURL := d.schemaURL
	if urlPart != "" {
		resolved, err := resolveURL(d.schemaURL, urlPart)
		if err != nil {
			return nil, &DecodeError{URL: d.schemaURL, Err: fmt.Errorf("invalid reference %q: %w", ref, err)}
		}
		docURL = resolved
	}

	doc, err := d.loader.Load(docURL)
	if err != nil {
		return nil, err
	}
	node, err := walkPointer(doc, pointer)
	if err != nil {
		return nil, &DecodeError{URL: docURL, Err: fmt.Errorf("cannot resolve %q: %w", ref, err)}
	}
	return node, nil
}

// walkPointer follows a JSON pointer into a document. Each segment is
// unescaped (~1 -> /, ~0 -> ~) before use; numeric segments index into
// sequences.
func walkPointer(doc interface{}, pointer string) (interface{}, error) {
	if pointer == "" {
		return doc, nil
	}

	node := doc
	segments := strings.Split(pointer, "/")[1:]
	for _, segment := range segments {
		key := strings.ReplaceAll(segment, "~1", "/")
		key = strings.ReplaceAll(key, "~0", "~")

		switch n := node.(type) {
		case map[string]interface{}:
			child, ok := n[key]
			if !ok {
				return nil, fmt.Errorf("key %q not found", key)
			}
			node = child
		case []interface{}:
			index, err := strconv.Atoi(key)
			if err != nil || index < 0 || index >= len(n) {
				return nil, fmt.Errorf("invalid sequence index %q", key)
			}
			node = n[index]
		default:
			return nil, fmt.Errorf("cannot descend into scalar at %q", key)
		}
	}
	return node, nil
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
