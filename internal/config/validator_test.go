package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCriteria(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]interface{}
		wantValid bool
		wantPath  string
	}{
		{
			name:      "string conditions",
			data:      map[string]interface{}{"TLOD": ">=10", "FILTER": "artifact"},
			wantValid: true,
		},
		{
			name:      "empty document",
			data:      map[string]interface{}{},
			wantValid: true,
		},
		{
			name:      "empty condition string",
			data:      map[string]interface{}{"DP": ""},
			wantValid: true,
		},
		{
			name:     "numeric value",
			data:     map[string]interface{}{"DP": float64(20)},
			wantPath: "/DP",
		},
		{
			name:     "boolean value",
			data:     map[string]interface{}{"SOMATIC": true},
			wantPath: "/SOMATIC",
		},
		{
			name:     "nested value",
			data:     map[string]interface{}{"DP": map[string]interface{}{"min": "20"}},
			wantPath: "/DP",
		},
		{
			name:     "list value",
			data:     map[string]interface{}{"FILTER": []interface{}{"PASS", "artifact"}},
			wantPath: "/FILTER",
		},
		{
			name: "empty field name",
			data: map[string]interface{}{"": ">=1"},
		},
		{
			name: "blank field name",
			data: map[string]interface{}{"  ": ">=1"},
		},
		{
			name:     "nil document",
			data:     nil,
			wantPath: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCriteria(tt.data)
			assert.Equal(t, tt.wantValid, result.Valid, "errors: %v", result.Errors)
			if tt.wantValid {
				assert.Empty(t, result.Errors)
				return
			}
			require.NotEmpty(t, result.Errors)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, result.Errors[0].Path)
			}
			for _, e := range result.Errors {
				assert.NotEmpty(t, e.Message)
			}
		})
	}
}

func TestValidateCriteria_ReportsEveryBadField(t *testing.T) {
	result := ValidateCriteria(map[string]interface{}{
		"DP":   float64(20),
		"TLOD": float64(10),
		"AF":   "<0.5",
	})

	require.False(t, result.Valid)
	paths := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "/DP")
	assert.Contains(t, paths, "/TLOD")
	assert.NotContains(t, paths, "/AF")
}

func TestGetEmbeddedSchema(t *testing.T) {
	schema := GetEmbeddedSchema()
	require.NotEmpty(t, schema)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(schema, &doc))
	assert.Equal(t, "object", doc["type"])

	compiled, err := getCompiledSchema()
	require.NoError(t, err)
	assert.NotNil(t, compiled)
}
