package docs_test

import (
	"encoding/json"
	"testing"

	"aicreat-gateway/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocument(t *testing.T) {
	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)

	routes := map[string][]string{
		"/providers":                    {"get"},
		"/formats":                      {"get"},
		"/generate":                     {"post"},
		"/jobs":                         {"get"},
		"/jobs/{job_id}":                {"get", "delete"},
		"/assets/{asset_id}":            {"get"},
		"/assets/{asset_id}/edits":      {"put"},
		"/downloads":                    {"post"},
		"/downloads/batch":              {"post"},
		"/projects":                     {"get"},
		"/projects/{project_id}":        {"delete"},
		"/projects/{project_id}/status": {"get"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "missing path %s", path) {
			continue
		}
		for _, m := range methods {
			assert.Contains(t, ops, m, "%s %s", m, path)
		}
	}
}
