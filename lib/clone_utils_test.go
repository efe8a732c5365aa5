package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepCopyMapIsIndependent(t *testing.T) {
	original := map[string]interface{}{
		"scalar": "value",
		"nested": map[string]interface{}{
			"list": []interface{}{1, 2, map[string]interface{}{"k": "v"}},
		},
	}

	clone := DeepCopyMap(original)
	require.Equal(t, original, clone)

	clone["scalar"] = "changed"
	clone["nested"].(map[string]interface{})["list"].([]interface{})[2].(map[string]interface{})["k"] = "changed"

	assert.Equal(t, "value", original["scalar"])
	nested := original["nested"].(map[string]interface{})["list"].([]interface{})
	assert.Equal(t, "v", nested[2].(map[string]interface{})["k"])
}

func TestDeepCopyMapNil(t *testing.T) {
	assert.Nil(t, DeepCopyMap(nil))
}

func TestDeepCopyMaps(t *testing.T) {
	original := []map[string]interface{}{
		{"name": "id", "in": "query"},
		{"name": "limit", "in": "query"},
	}

	clone := DeepCopyMaps(original)
	require.Equal(t, original, clone)

	clone[0]["name"] = "changed"
	assert.Equal(t, "id", original[0]["name"])
}
