package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
)

func TestResponsesMatchEnvelopeContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("testdata", "envelope.schema.json"))
	require.NoError(t, err)

	schema, err := jsonschema.NewCompiler().Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)

	srv := newTestServer(t, 70)
	registerBody := `{"name":"Anu","email":"anu@example.com","password":"s3cret!","phone":"1","batch":"MERN-2024"}`

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/api/auth/register", body: registerBody},
		{method: http.MethodPost, path: "/api/auth/register", body: registerBody},
		{method: http.MethodPost, path: "/api/auth/login", body: `{"email":"anu@example.com","password":"s3cret!"}`},
		{method: http.MethodPost, path: "/api/auth/login", body: `{"email":"anu@example.com"}`},
		{method: http.MethodPost, path: "/api/auth/login", body: `{not json`},
		{method: http.MethodGet, path: "/api/students/course/anu@example.com"},
		{method: http.MethodGet, path: "/api/unknown"},
	}

	for _, r := range requests {
		req := httptest.NewRequest(r.method, r.path, bytes.NewBufferString(r.body))
		if r.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := srv.app.Test(req, -1)
		require.NoError(t, err)

		var doc interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		resp.Body.Close()

		require.NoError(t, schema.Validate(doc), "%s %s", r.method, r.path)
	}
}
