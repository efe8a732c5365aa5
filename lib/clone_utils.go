package lib

// DeepCopyNode clones an arbitrarily nested document tree of maps, slices
// and scalars. Scalars are immutable and returned as-is.
func DeepCopyNode(node interface{}) interface{} {
	switch n := node.(type) {
	case map[string]interface{}:
		return DeepCopyMap(n)
	case []interface{}:
		out := make([]interface{}, len(n))
		for i, v := range n {
			out[i] = DeepCopyNode(v)
		}
		return out
	default:
		return node
	}
}

// DeepCopyMap clones a string-keyed tree node. Returns nil for nil input.
func DeepCopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = DeepCopyNode(v)
	}
	return out
}

// DeepCopyMaps clones a slice of tree nodes, preserving order.
func DeepCopyMaps(maps []map[string]interface{}) []map[string]interface{} {
	if maps == nil {
		return nil
	}
	out := make([]map[string]interface{}, len(maps))
	for i, m := range maps {
		out[i] = DeepCopyMap(m)
	}
	return out
}
