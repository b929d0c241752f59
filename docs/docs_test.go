package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSpecRegistrada(t *testing.T) {
	raw, err := swag.ReadDoc("swagger")
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	for _, path := range []string{"/api/auth/login", "/api/inventory/entries", "/api/inventory/exits", "/api/reports/consumption"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.JSONEq(t, raw, string(JSON()))
}
